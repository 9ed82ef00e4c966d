// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/new-divos/pkbassist/internal/config"
	"github.com/new-divos/pkbassist/internal/pipeline"
	"github.com/new-divos/pkbassist/internal/ui"
	"github.com/new-divos/pkbassist/internal/vault"
)

var (
	// Global flags
	configPath string
	verbosity  int

	// Resolved values
	cfg *config.Config
	log *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pkba",
	Short: "pkbassist - a personal knowledge base assistant",
	Long: `pkbassist maintains a plain-text markdown note vault: it repairs
cross-reference syntax and note metadata, renames attachments to opaque
identifiers, and grabs external content into notes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = newLogger(verbosity)
		slog.SetDefault(log)

		// Commands that work without a configuration.
		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
}

// newLogger builds the process logger: warnings by default, debug detail
// with -v, source locations with -vv.
func newLogger(verbosity int) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	switch {
	case verbosity == 1:
		opts.Level = slog.LevelInfo
	case verbosity == 2:
		opts.Level = slog.LevelDebug
	case verbosity > 2:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newVault builds the vault over the loaded configuration.
func newVault() *vault.Vault {
	return vault.New(cfg, vault.WithLogger(log))
}

// report prints every member of an aggregated batch failure before the
// summary error is returned to cobra.
func report(err error) error {
	if be, ok := pipeline.IsBatch(err); ok {
		for _, e := range be.Errors {
			fmt.Fprintln(os.Stderr, ui.Error(e.Error()))
		}
	}
	return err
}
