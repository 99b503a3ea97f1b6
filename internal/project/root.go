package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigNames lists the configuration file names in lookup order.
var ConfigNames = []string{"buble.toml", ".buble.yaml", ".buble.yml"}

// FindConfig walks up from startDir to locate a configuration file. In a
// directory holding several, the first of ConfigNames wins.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing the configuration file, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	configPath, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(configPath), true, nil
}

// Discover loads the configuration governing startDir. Without a
// configuration file the defaults apply, rooted at startDir.
func Discover(startDir string) (*Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		return Load(path)
	}
	root, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.Root = root
	return cfg, nil
}
