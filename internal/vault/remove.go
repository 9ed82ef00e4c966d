package vault

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/new-divos/pkbassist/internal/pipeline"
)

// RemoveLine deletes the first line of each note whose trimmed content ends
// with the trimmed argument. Notes without a matching line are untouched.
func (v *Vault) RemoveLine(ctx context.Context, line string) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}
	suffix := strings.TrimSpace(line)
	if suffix == "" {
		return nil
	}

	return pipeline.Run(ctx, root, pipeline.MatchExt("md"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		lines := strings.Split(content, "\n")
		for i, l := range lines {
			if !strings.HasSuffix(strings.TrimSpace(l), suffix) {
				continue
			}
			v.log.Debug("removing line", "path", path, "line", i+1)
			lines = append(lines[:i], lines[i+1:]...)
			return writeNote(path, strings.Join(lines, "\n"))
		}
		return nil
	})
}

// RemoveRaindropNotes deletes every note in the bookmark directory whose
// name carries the configured bookmark prefix.
func (v *Vault) RemoveRaindropNotes(ctx context.Context) error {
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	raindropPath, err := v.cfg.RaindropPath()
	if err != nil {
		return err
	}
	prefix := v.cfg.Raindrop.Prefix

	match := func(path string) bool {
		return filepath.Ext(path) == ".md" && strings.HasPrefix(filepath.Base(path), prefix)
	}
	return pipeline.Run(ctx, raindropPath, match, func(ctx context.Context, path string) error {
		v.log.Debug("removing bookmark note", "path", path)
		return os.Remove(path)
	})
}
