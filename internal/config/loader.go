package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Load loads the configuration.
// The embedded default is overlaid with the first file found in the search
// order customPath -> ~/.t2048/config.yaml -> ./configs/t2048.yaml, then with
// T2048_* environment variables. Paths starting with ~ are expanded.
func Load(customPath string) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		cfg = DefaultConfig() // Fallback to hardcoded if embed fails
	}

	path, data, err := findConfigFile(customPath)
	if err != nil {
		return cfg, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}

	for _, p := range []*string{&cfg.Storage.DBPath, &cfg.Session.Path, &cfg.Session.KeyPath} {
		if *p, err = ExpandHome(*p); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// findConfigFile returns the first readable config file. A missing custom
// path is an error; missing search-path files are skipped.
func findConfigFile(customPath string) (string, []byte, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return customPath, nil, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		return customPath, data, nil
	}

	candidates := []string{filepath.Join("configs", "t2048.yaml")}
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}

	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}
	return "", nil, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
