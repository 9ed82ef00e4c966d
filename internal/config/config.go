// Package config handles the global pkbassist configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrRootNotSet reports that no vault root is configured.
	ErrRootNotSet = errors.New("the vault root path is not set")

	// ErrNotConfigured reports an unset configuration property.
	ErrNotConfigured = errors.New("configuration property is not set")

	// ErrUnknownKey reports an unrecognized configuration key.
	ErrUnknownKey = errors.New("unknown configuration key")
)

// Config is the application configuration, stored as TOML in the platform
// config directory. Sub-paths may be stored relative to the vault root;
// accessors resolve them.
type Config struct {
	Vault    VaultConfig    `toml:"vault"`
	APOD     ServiceConfig  `toml:"apod"`
	TWiR     ServiceConfig  `toml:"twir"`
	Raindrop RaindropConfig `toml:"raindrop"`
}

// VaultConfig locates the note tree and its well-known sub-trees.
type VaultConfig struct {
	// Root is the vault root directory.
	Root string `toml:"root"`

	// Files is the attachments directory.
	Files string `toml:"files"`

	// Daily is the directory of day-keyed notes.
	Daily string `toml:"daily"`

	// Base is the directory of knowledge-base notes.
	Base string `toml:"base"`
}

// ServiceConfig configures one scraped-content source.
type ServiceConfig struct {
	// Path is the directory receiving scraped notes.
	Path string `toml:"path"`

	// Key is the API key, for sources that need one.
	Key string `toml:"key,omitempty"`

	// Banner and Icon decorate the front matter of grabbed notes.
	Banner string `toml:"banner"`
	Icon   string `toml:"icon"`

	// Prefix is prepended to the link inserted into a daily note; Marker
	// names the daily-note line after which the link is inserted.
	Prefix string `toml:"prefix"`
	Marker string `toml:"marker"`
}

// RaindropConfig configures imported bookmark notes.
type RaindropConfig struct {
	// Path is the directory of imported bookmark notes.
	Path string `toml:"path"`

	// Prefix is the filename prefix identifying imported notes.
	Prefix string `toml:"prefix"`
}

// Root returns the configured vault root, which may be empty.
func (c *Config) Root() string { return c.Vault.Root }

// CheckRoot returns the vault root, failing when it is unset or is not an
// existing directory. Operations call this before any pipeline run.
func (c *Config) CheckRoot() (string, error) {
	if c.Vault.Root == "" {
		return "", ErrRootNotSet
	}
	st, err := os.Stat(c.Vault.Root)
	if err != nil || !st.IsDir() {
		return "", fmt.Errorf("illegal vault root path %q", c.Vault.Root)
	}
	return c.Vault.Root, nil
}

// resolve joins a stored sub-path with the root unless it is already
// absolute.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Vault.Root, p)
}

func (c *Config) path(key, p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: %s", ErrNotConfigured, key)
	}
	return c.resolve(p), nil
}

// FilesPath returns the attachments directory.
func (c *Config) FilesPath() (string, error) { return c.path("vault.files", c.Vault.Files) }

// DailyPath returns the day-keyed notes directory.
func (c *Config) DailyPath() (string, error) { return c.path("vault.daily", c.Vault.Daily) }

// BasePath returns the knowledge-base notes directory.
func (c *Config) BasePath() (string, error) { return c.path("vault.base", c.Vault.Base) }

// APODPath returns the Astronomy Picture of the Day notes directory.
func (c *Config) APODPath() (string, error) { return c.path("apod.path", c.APOD.Path) }

// TWiRPath returns the This Week in Rust notes directory.
func (c *Config) TWiRPath() (string, error) { return c.path("twir.path", c.TWiR.Path) }

// RaindropPath returns the imported bookmark notes directory.
func (c *Config) RaindropPath() (string, error) { return c.path("raindrop.path", c.Raindrop.Path) }

// Set updates one configuration property addressed by its dotted key.
//
// Setting vault.root with update rebases every stored absolute sub-path
// that lived under the previous root onto the new one.
func (c *Config) Set(key, value string, update bool) error {
	switch strings.ToLower(key) {
	case "vault.root":
		old := c.Vault.Root
		c.Vault.Root = value
		if update && old != "" {
			for _, p := range []*string{
				&c.Vault.Files, &c.Vault.Daily, &c.Vault.Base,
				&c.APOD.Path, &c.TWiR.Path, &c.Raindrop.Path,
			} {
				if rel, err := filepath.Rel(old, *p); err == nil && filepath.IsAbs(*p) && !strings.HasPrefix(rel, "..") {
					*p = filepath.Join(value, rel)
				}
			}
		}
	case "vault.files":
		c.Vault.Files = value
	case "vault.daily":
		c.Vault.Daily = value
	case "vault.base":
		c.Vault.Base = value
	case "apod.path":
		c.APOD.Path = value
	case "apod.key":
		c.APOD.Key = value
	case "apod.banner":
		c.APOD.Banner = value
	case "apod.icon":
		c.APOD.Icon = value
	case "apod.prefix":
		c.APOD.Prefix = value
	case "apod.marker":
		c.APOD.Marker = value
	case "twir.path":
		c.TWiR.Path = value
	case "twir.banner":
		c.TWiR.Banner = value
	case "twir.icon":
		c.TWiR.Icon = value
	case "twir.prefix":
		c.TWiR.Prefix = value
	case "twir.marker":
		c.TWiR.Marker = value
	case "raindrop.path":
		c.Raindrop.Path = value
	case "raindrop.prefix":
		c.Raindrop.Prefix = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "pkbassist", "config.toml"), nil
}

// Load loads the configuration from the default location, returning an
// empty config when the file does not exist yet.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path. A missing file is
// not an error.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
