package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/new-divos/pkbassist/internal/attachment"
	"github.com/new-divos/pkbassist/internal/meta"
	"github.com/new-divos/pkbassist/internal/pipeline"
	"github.com/new-divos/pkbassist/internal/ui"
	"github.com/new-divos/pkbassist/internal/wikilink"
)

var (
	twirStem = regexp.MustCompile(`^TWiR\s+(\d+)$`)
	apodStem = regexp.MustCompile(`^APoD\s+(\d{1,4})-(\d{1,2})-(\d{1,2})$`)
)

// RepairWikiRefs normalizes sloppy described wiki references in every
// markdown note, collapsing the whitespace around the target and the
// description separator.
func (v *Vault) RepairWikiRefs(ctx context.Context) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}

	return pipeline.Run(ctx, root, pipeline.MatchExt("md"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		normalized, changed := wikilink.Normalize(content)
		if !changed {
			return nil
		}
		v.log.Debug("repairing wiki references", "path", path)
		return writeNote(path, normalized)
	})
}

// RemoveUnusedFiles deletes attachments no note refers to. The whole note
// tree is scanned for references first; if any note cannot be read the
// aggregated errors are returned and nothing is deleted. Deleted files are
// reported on the console before removal.
func (v *Vault) RemoveUnusedFiles(ctx context.Context) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}
	filesPath, err := v.cfg.FilesPath()
	if err != nil {
		return err
	}

	paths := make(map[string]string)
	err = filepath.WalkDir(filesPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths[d.Name()] = path
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	var mu sync.Mutex
	used := make(map[string]struct{})
	err = pipeline.Run(ctx, root, pipeline.MatchExt("md", "canvas"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for name := range paths {
			if strings.Contains(content, name) {
				used[name] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	table := ui.NewTable("Unused File")
	var unused []string
	for name, path := range paths {
		if _, ok := used[name]; !ok {
			unused = append(unused, path)
			table.AddRow(name)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	fmt.Fprintln(v.out, table.String())

	var errs []error
	for _, path := range unused {
		v.log.Debug("removing unused file", "path", path)
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
		}
	}
	return batch(errs)
}

// RenameAttachedFiles renames every attachment whose name is not already an
// opaque identifier, rewriting all references across the note tree first.
// Every note-rewrite unit completes before any file is renamed on disk, so
// a conflicting reader never observes a renamed file alongside a stale
// reference.
func (v *Vault) RenameAttachedFiles(ctx context.Context) error {
	root, err := v.cfg.CheckRoot()
	if err != nil {
		return err
	}

	filesPath, err := v.cfg.FilesPath()
	if err != nil {
		return err
	}
	renames, err := attachment.Build(filesPath, true, attachment.IsOpaqueName)
	if err != nil {
		return err
	}
	if len(renames) == 0 {
		return nil
	}

	err = pipeline.Run(ctx, root, pipeline.MatchExt("md", "canvas"), func(ctx context.Context, path string) error {
		content, err := readNote(path)
		if err != nil {
			return err
		}
		rewritten, changed := renames.Apply(content)
		if !changed {
			return nil
		}
		v.log.Debug("rewriting attachment references", "path", path)
		return writeNote(path, rewritten)
	})

	var errs []error
	if be, ok := pipeline.IsBatch(err); ok {
		errs = be.Errors
	} else if err != nil {
		return err
	}
	errs = append(errs, renames.RenameFiles()...)
	return batch(errs)
}

// RepairArchiveIssues migrates weekly newsletter notes from the legacy
// "TWiR N" naming to "ISS.TWiR.N-", updating the note metadata and the
// previous/next navigation references inside it.
func (v *Vault) RepairArchiveIssues(ctx context.Context) error {
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	twirPath, err := v.cfg.TWiRPath()
	if err != nil {
		return err
	}

	match := func(path string) bool {
		return filepath.Ext(path) == ".md" && twirStem.MatchString(noteStem(path))
	}
	return pipeline.Run(ctx, twirPath, match, func(ctx context.Context, path string) error {
		groups := twirStem.FindStringSubmatch(noteStem(path))
		number, err := strconv.Atoi(groups[1])
		if err != nil {
			return err
		}

		content, err := readNote(path)
		if err != nil {
			return err
		}
		content = strings.ReplaceAll(content, "type: news", "type: issue")
		content = strings.ReplaceAll(content, "news/twir", "issue/twir")
		content = strings.ReplaceAll(content,
			fmt.Sprintf("TWiR %d", number+1),
			fmt.Sprintf("ISS.TWiR.%d-", number+1))
		if number > 1 {
			content = strings.ReplaceAll(content,
				fmt.Sprintf("TWiR %d", number-1),
				fmt.Sprintf("ISS.TWiR.%d", number-1))
		}

		newPath := filepath.Join(twirPath, fmt.Sprintf("ISS.TWiR.%d-.md", number))
		v.log.Debug("migrating newsletter issue", "path", path, "to", newPath)
		if err := writeNote(newPath, content); err != nil {
			return err
		}
		return os.Remove(path)
	})
}

// RepairPictureIssues migrates picture-of-the-day notes from the legacy
// "APoD y-m-d" naming to "ISS.APoD.y.m.d", updating the note metadata and
// the reference from the matching daily note.
func (v *Vault) RepairPictureIssues(ctx context.Context) error {
	if _, err := v.cfg.CheckRoot(); err != nil {
		return err
	}
	apodPath, err := v.cfg.APODPath()
	if err != nil {
		return err
	}
	dailyPath, err := v.cfg.DailyPath()
	if err != nil {
		return err
	}

	match := func(path string) bool {
		return filepath.Ext(path) == ".md" && apodStem.MatchString(noteStem(path))
	}
	return pipeline.Run(ctx, apodPath, match, func(ctx context.Context, path string) error {
		oldStem := noteStem(path)
		groups := apodStem.FindStringSubmatch(oldStem)
		newStem := fmt.Sprintf("ISS.APoD.%s.%s.%s", groups[1], groups[2], groups[3])

		content, err := readNote(path)
		if err != nil {
			return err
		}
		content = strings.ReplaceAll(content, "type: news", "type: issue")
		content = strings.ReplaceAll(content, "news/apod", "issue/apod")
		content = strings.ReplaceAll(content, "science/astronomy", "astronomy")

		newPath := filepath.Join(apodPath, newStem+".md")
		v.log.Debug("migrating picture issue", "path", path, "to", newPath)
		if err := writeNote(newPath, content); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil {
			return err
		}

		daily := filepath.Join(dailyPath,
			fmt.Sprintf("%s-%s-%s.md", groups[1], groups[2], groups[3]))
		dailyContent, err := readNote(daily)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if rewritten := strings.ReplaceAll(dailyContent, oldStem, newStem); rewritten != dailyContent {
			return writeNote(daily, rewritten)
		}
		return nil
	})
}

// RemoveCreated strips the creation timestamp attribute from every note
// that carries one. Notes without metadata, or with metadata that does not
// parse, are left untouched.
func (v *Vault) RemoveCreated(ctx context.Context) error {
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
		if !m.HasCreated() {
			return nil
		}
		m.RemoveCreated()
		rewritten, err := m.Embed(content)
		if err != nil {
			return err
		}
		v.log.Debug("removing creation timestamp", "path", path)
		return writeNote(path, rewritten)
	})
}

// RepairBanners rewrites banner attributes that hold an embed expression
// instead of a bare file name.
func (v *Vault) RepairBanners(ctx context.Context) error {
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
		if !m.FixBanner() {
			return nil
		}
		rewritten, err := m.Embed(content)
		if err != nil {
			return err
		}
		v.log.Debug("repairing banner attribute", "path", path)
		return writeNote(path, rewritten)
	})
}

// noteStem returns the file name without its extension.
func noteStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
