// Package attachment assigns collision-free opaque names to attachment
// files and rewrites references to them inside notes.
//
// Renaming is a two-pass protocol: first every referencing note is
// rewritten through the transform pipeline, then — after that pass has
// fully joined — the files are physically renamed. Reordering the passes
// breaks referential integrity.
package attachment

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// opaqueStem recognizes the canonical opaque-identifier shape of a file
// stem: a UUID.
var opaqueStem = regexp.MustCompile(`^[\dA-Fa-f]{8}-[\dA-Fa-f]{4}-[\dA-Fa-f]{4}-[\dA-Fa-f]{4}-[\dA-Fa-f]{12}$`)

// IsOpaqueName reports whether a file stem already looks like an opaque
// identifier.
func IsOpaqueName(stem string) bool {
	return opaqueStem.MatchString(stem)
}

// NewName returns a fresh opaque file name carrying over the extension of
// the original name (omitted when the original had none).
func NewName(oldName string) string {
	ext := filepath.Ext(oldName)
	return uuid.NewString() + ext
}

// Record maps one attachment file from its current identity to its new
// opaque identity.
type Record struct {
	OldPath string
	OldName string
	NewPath string
	NewName string
}

// Map is keyed by the old bare file name, because references inside notes
// use bare names, not paths. A Map is built once and then shared read-only
// by every concurrent rewriting task.
type Map map[string]Record

// Build walks dir and produces a Record for every regular file whose stem
// does not satisfy isOpaque. When recursive is false only the top level of
// dir is considered. Generated names are checked against both the existing
// directory contents and the other records of the batch; a collision is
// resolved by regenerating that single record.
func Build(dir string, recursive bool, isOpaque func(stem string) bool) (Map, error) {
	if isOpaque == nil {
		isOpaque = IsOpaqueName
	}

	taken := make(map[string]struct{})
	var candidates []string
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := filepath.Base(path)
		taken[name] = struct{}{}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !isOpaque(stem) {
			candidates = append(candidates, path)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("walk attachments dir %q: %w", dir, err)
	}

	m := make(Map, len(candidates))
	for _, path := range candidates {
		oldName := filepath.Base(path)

		newName := NewName(oldName)
		for {
			if _, exists := taken[newName]; !exists {
				break
			}
			newName = NewName(oldName)
		}
		taken[newName] = struct{}{}

		m[oldName] = Record{
			OldPath: path,
			OldName: oldName,
			NewPath: filepath.Join(filepath.Dir(path), newName),
			NewName: newName,
		}
	}
	return m, nil
}

// Apply replaces every occurrence of each record's old name in text with
// its new name, reporting whether anything changed so callers can skip
// rewriting untouched files.
func (m Map) Apply(text string) (string, bool) {
	changed := false
	for oldName, rec := range m {
		if strings.Contains(text, oldName) {
			text = strings.ReplaceAll(text, oldName, rec.NewName)
			changed = true
		}
	}
	return text, changed
}

// RenameFiles performs the physical renames. It must only be called after
// every referencing note has been rewritten. Failures are collected per
// record; a failed rename does not stop the rest.
func (m Map) RenameFiles() []error {
	var errs []error
	for _, rec := range m {
		if err := os.Rename(rec.OldPath, rec.NewPath); err != nil {
			errs = append(errs, fmt.Errorf("rename %s: %w", rec.OldPath, err))
		}
	}
	return errs
}
