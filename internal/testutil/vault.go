// Package testutil provides reusable test fixtures for vault operation
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/new-divos/pkbassist/internal/config"
)

// TestVault is a temporary vault directory populated with notes and
// attachments for one test.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a new test vault builder.
// Call Build() to create the actual vault directory.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{
		t:     t,
		files: make(map[string]string),
	}
}

// WithNote adds a markdown note to the vault.
// The path is relative to the vault root.
func (v *TestVault) WithNote(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithAttachment adds an attachment under the files directory.
func (v *TestVault) WithAttachment(name, content string) *TestVault {
	v.files[filepath.Join("files", name)] = content
	return v
}

// WithDaily adds a daily note for the given date stem.
func (v *TestVault) WithDaily(date, content string) *TestVault {
	v.files[filepath.Join("daily", date+".md")] = content
	return v
}

// Build creates the vault directory and all configured files.
// Returns the TestVault for method chaining.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()

	v.Path = v.t.TempDir()
	for _, dir := range []string{"files", "daily", "base"} {
		if err := os.MkdirAll(filepath.Join(v.Path, dir), 0o755); err != nil {
			v.t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
	for path, content := range v.files {
		v.writeFile(path, content)
	}
	return v
}

// Config returns a configuration rooted at the built vault, with the
// conventional sub-tree layout the fixtures use.
func (v *TestVault) Config() *config.Config {
	v.t.Helper()
	if v.Path == "" {
		v.t.Fatal("Config called before Build")
	}
	return &config.Config{
		Vault: config.VaultConfig{
			Root:  v.Path,
			Files: "files",
			Daily: "daily",
			Base:  "base",
		},
		APOD: config.ServiceConfig{
			Path:   "base/apod",
			Prefix: "APoD:",
			Marker: "## Issues",
		},
		TWiR: config.ServiceConfig{
			Path:   "base/twir",
			Prefix: "TWiR:",
			Marker: "## Issues",
		},
		Raindrop: config.RaindropConfig{
			Path:   "base/raindrop",
			Prefix: "rd.",
		},
	}
}

// WriteFile writes a file into the built vault, creating parent
// directories as needed.
func (v *TestVault) WriteFile(relPath, content string) {
	v.t.Helper()
	v.writeFile(relPath, content)
}

// ReadFile reads a file from the vault and returns its content.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	data, err := os.ReadFile(filepath.Join(v.Path, relPath))
	if err != nil {
		v.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(data)
}

func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		v.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}
