package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{}
	cfg.Vault.Root = root
	cfg.Vault.Files = "files"
	cfg.APOD.Path = filepath.Join(root, "news", "apod")

	t.Run("relative sub-path resolves against root", func(t *testing.T) {
		got, err := cfg.FilesPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(root, "files") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("absolute sub-path kept as is", func(t *testing.T) {
		got, err := cfg.APODPath()
		if err != nil {
			t.Fatal(err)
		}
		if got != filepath.Join(root, "news", "apod") {
			t.Errorf("got %q", got)
		}
	})

	t.Run("unset sub-path", func(t *testing.T) {
		_, err := cfg.DailyPath()
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("check root", func(t *testing.T) {
		if _, err := cfg.CheckRoot(); err != nil {
			t.Errorf("existing root rejected: %v", err)
		}

		empty := &Config{}
		if _, err := empty.CheckRoot(); !errors.Is(err, ErrRootNotSet) {
			t.Errorf("got %v", err)
		}

		bad := &Config{}
		bad.Vault.Root = filepath.Join(root, "missing")
		if _, err := bad.CheckRoot(); err == nil {
			t.Error("missing root accepted")
		}
	})
}

func TestSet(t *testing.T) {
	t.Run("simple keys", func(t *testing.T) {
		cfg := &Config{}
		for key, want := range map[string]*string{
			"apod.key":        &cfg.APOD.Key,
			"twir.banner":     &cfg.TWiR.Banner,
			"raindrop.prefix": &cfg.Raindrop.Prefix,
			"vault.daily":     &cfg.Vault.Daily,
		} {
			if err := cfg.Set(key, "value-"+key, false); err != nil {
				t.Fatalf("%s: %v", key, err)
			}
			if *want != "value-"+key {
				t.Errorf("%s: got %q", key, *want)
			}
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		cfg := &Config{}
		if err := cfg.Set("no.such.key", "x", false); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("root update rebases dependent paths", func(t *testing.T) {
		cfg := &Config{}
		cfg.Vault.Root = "/old/vault"
		cfg.Vault.Files = "/old/vault/files"
		cfg.Vault.Daily = "daily" // relative, must stay
		cfg.TWiR.Path = "/elsewhere/twir"

		if err := cfg.Set("vault.root", "/new/vault", true); err != nil {
			t.Fatal(err)
		}
		if cfg.Vault.Files != "/new/vault/files" {
			t.Errorf("files: got %q", cfg.Vault.Files)
		}
		if cfg.Vault.Daily != "daily" {
			t.Errorf("daily: got %q", cfg.Vault.Daily)
		}
		if cfg.TWiR.Path != "/elsewhere/twir" {
			t.Errorf("twir: got %q", cfg.TWiR.Path)
		}
	})
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	cfg := &Config{}
	cfg.Vault.Root = "/vault"
	cfg.APOD.Key = "DEMO_KEY"
	cfg.TWiR.Marker = "## News"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Vault.Root != "/vault" || loaded.APOD.Key != "DEMO_KEY" || loaded.TWiR.Marker != "## News" {
		t.Errorf("round trip lost values: %+v", loaded)
	}

	t.Run("missing file yields empty config", func(t *testing.T) {
		got, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatal(err)
		}
		if got.Vault.Root != "" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("unreadable file reports an error", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(bad, []byte("= not toml"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFrom(bad); err == nil {
			t.Error("expected error")
		}
	})
}
