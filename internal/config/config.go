// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matsen/bipcite/internal/reference"
	"github.com/matsen/bipcite/internal/style"
)

// ErrNotRepository is returned when no .bipcite directory is found.
var ErrNotRepository = errors.New("not in a bipcite repository (no .bipcite directory found)")

// Config represents repository configuration stored in .bipcite/config.json.
type Config struct {
	DefaultStyle    string `json:"default_style"`             // Style name or alias, e.g. "apa", "harvard"
	DefaultLanguage string `json:"default_language"`          // "fa-IR", "en-US" or "auto"
	PersianHeading  string `json:"persian_heading,omitempty"` // Bibliography section heading override
	EnglishHeading  string `json:"english_heading,omitempty"`
}

// Default returns the configuration written by init.
func Default() Config {
	return Config{DefaultStyle: style.IDAPA, DefaultLanguage: style.HintAuto}
}

const (
	RepoDir     = ".bipcite"
	ConfigFile  = "config.json"
	RecordsFile = "records.jsonl"
	CacheDir    = "cache"
	DBFile      = "records.db"
)

// RepoPath returns the path to the .bipcite directory from a root path.
func RepoPath(root string) string {
	return filepath.Join(root, RepoDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RepoDir, ConfigFile)
}

// RecordsPath returns the path to records.jsonl from a root path.
func RecordsPath(root string) string {
	return filepath.Join(root, RepoDir, RecordsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir)
}

// DBPath returns the path to records.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RepoDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a bipcite repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RepoPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a bipcite repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Keys returns the settable configuration keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type field struct {
	get      func(*Config) string
	set      func(*Config, string)
	validate func(string) error
}

var fields = map[string]field{
	"default_style": {
		get:      func(c *Config) string { return c.DefaultStyle },
		set:      func(c *Config, v string) { c.DefaultStyle = v },
		validate: ValidateStyle,
	},
	"default_language": {
		get:      func(c *Config) string { return c.DefaultLanguage },
		set:      func(c *Config, v string) { c.DefaultLanguage = v },
		validate: ValidateLanguage,
	},
	"persian_heading": {
		get: func(c *Config) string { return c.PersianHeading },
		set: func(c *Config, v string) { c.PersianHeading = v },
	},
	"english_heading": {
		get: func(c *Config) string { return c.EnglishHeading },
		set: func(c *Config, v string) { c.EnglishHeading = v },
	},
}

// Get returns the value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return f.get(c), nil
}

// Set validates and assigns a configuration key.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if f.validate != nil {
		if err := f.validate(value); err != nil {
			return err
		}
	}
	f.set(c, value)
	return nil
}

// ValidateStyle checks that name is a known style name or alias.
func ValidateStyle(name string) error {
	if _, _, ok := style.Lookup(name); !ok {
		return fmt.Errorf("invalid default_style: %s", name)
	}
	return nil
}

// ValidateLanguage accepts "auto", a language code or a locale.
func ValidateLanguage(lang string) error {
	if strings.EqualFold(lang, style.HintAuto) {
		return nil
	}
	if _, err := reference.ParseLanguage(lang); err != nil {
		return fmt.Errorf("invalid default_language: %s (valid: auto, fa-IR, en-US)", lang)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
