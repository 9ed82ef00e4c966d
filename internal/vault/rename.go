package vault

import (
	"context"

	"github.com/new-divos/pkbassist/internal/meta"
	"github.com/new-divos/pkbassist/internal/pipeline"
)

// RenameBanner points every note whose banner is oldName at newName
// instead. Banner values are compared by bare file name, regardless of the
// embed wrapper around them.
func (v *Vault) RenameBanner(ctx context.Context, oldName, newName string) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, root, pipeline.MatchExt("md"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		m, err := meta.Parse(content)
		if err != nil {
			return nil
		}
		if banner, ok := m.Banner(); !ok || banner != oldName {
			return nil
		}
		if err := m.SetBanner(newName); err != nil {
			return err
		}
		rewritten, err := m.Embed(content)
		if err != nil {
			return err
		}
		v.log.Debug("renaming banner", "path", path, "from", oldName, "to", newName)
		return writeNote(path, rewritten)
	})
}
