// Package vault implements the named maintenance operations over a note
// vault: repairing cross-reference syntax, renaming attachments, fixing
// document metadata, and grabbing scraped content into notes.
//
// Every bulk operation is built on the transform pipeline: a selection
// predicate over the note tree plus an independent per-file transform, with
// per-file failures aggregated instead of aborting the batch. All
// operations are idempotent: running one twice over its own output changes
// nothing.
package vault

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/new-divos/pkbassist/internal/apod"
	"github.com/new-divos/pkbassist/internal/atomicfile"
	"github.com/new-divos/pkbassist/internal/config"
	"github.com/new-divos/pkbassist/internal/pipeline"
	"github.com/new-divos/pkbassist/internal/twir"
)

// Vault drives maintenance operations over the configured note tree.
type Vault struct {
	cfg *config.Config
	log *slog.Logger
	out io.Writer

	apodClient *apod.Client
	twirClient *twir.Client
}

// Option configures a Vault.
type Option func(*Vault)

// WithLogger sets the operation logger.
func WithLogger(log *slog.Logger) Option {
	return func(v *Vault) { v.log = log }
}

// WithOutput sets the console report target.
func WithOutput(w io.Writer) Option {
	return func(v *Vault) { v.out = w }
}

// WithAPODClient injects a picture-of-the-day client, overriding the one
// built from the configured API key.
func WithAPODClient(c *apod.Client) Option {
	return func(v *Vault) { v.apodClient = c }
}

// WithTWiRClient injects an archive-scraper client.
func WithTWiRClient(c *twir.Client) Option {
	return func(v *Vault) { v.twirClient = c }
}

// New returns a Vault over cfg.
func New(cfg *config.Config, opts ...Option) *Vault {
	v := &Vault{
		cfg: cfg,
		log: slog.Default(),
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.twirClient == nil {
		v.twirClient = twir.NewClient()
	}
	return v
}

// readNote reads one note file.
func readNote(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// writeNote replaces one note file atomically.
func writeNote(path, content string) error {
	return atomicfile.WriteFile(path, []byte(content))
}

// batch folds a collected error slice into a pipeline aggregate.
func batch(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &pipeline.BatchError{Errors: errs}
}

// modifyDaily inserts link into a daily note's content, directly after the
// marker line when one is configured and present, at the end otherwise.
// Inserting an already present link is a no-op, keeping the operation
// idempotent.
func modifyDaily(content, link, marker string) string {
	if strings.Contains(content, link) {
		return content
	}

	lines := strings.Split(content, "\n")
	if marker != "" {
		for i, line := range lines {
			if line == marker {
				lines = append(lines[:i+1], append([]string{link}, lines[i+1:]...)...)
				return strings.Join(lines, "\n")
			}
		}
	}

	lines = append(lines, link, "")
	return strings.Join(lines, "\n")
}
