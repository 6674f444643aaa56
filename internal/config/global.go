package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/bipcite/config.yml.
type GlobalConfig struct {
	RepoPath  string `yaml:"repo_path,omitempty"`  // Default repository when not inside one
	LogLevel  string `yaml:"log_level,omitempty"`  // trace, debug, info, warn, error
	LogFormat string `yaml:"log_format,omitempty"` // console or json
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "bipcite"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/bipcite/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}
	cfg.RepoPath = ExpandPath(cfg.RepoPath)

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// ResolveRepository finds the repository containing start, falling back to
// the global repo_path.
func ResolveRepository(start string) (string, error) {
	root, err := FindRepository(start)
	if err == nil {
		return root, nil
	}
	cfg, gerr := LoadGlobalConfig()
	if gerr != nil {
		return "", gerr
	}
	if cfg.RepoPath != "" && IsRepository(cfg.RepoPath) {
		return cfg.RepoPath, nil
	}
	return "", err
}

// HelpfulConfigMessage explains how to create or point at a repository.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No bipcite repository found.

Run 'bipcite init' in your project, or create %s to set a default:
  mkdir -p %s
  echo 'repo_path: /path/to/your/project' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
