package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names an explicit config file that overrides the search
const EnvConfigPath = "COURSEBOOK_CONFIG"

const appName = "coursebook"

// configExts are the formats LoadFromPath understands, in search order
var configExts = []string{".yaml", ".yml", ".json", ".jsonc"}

// configDirs returns the per-user and system config directories, most
// specific first
func configDirs() []string {
	var dirs []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		dirs = append(dirs, filepath.Join(xdgHome, appName))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", appName))
	}
	return append(dirs, filepath.Join("/etc", appName))
}

// configCandidates lists every file FindConfigPath tries after
// $COURSEBOOK_CONFIG. The working directory holds coursebook.<ext>; config
// directories hold config.<ext>.
func configCandidates() []string {
	var paths []string
	for _, ext := range configExts {
		paths = append(paths, appName+ext)
	}
	for _, dir := range configDirs() {
		for _, ext := range configExts {
			paths = append(paths, filepath.Join(dir, "config"+ext))
		}
	}
	return paths
}

// FindConfigPath returns the first config file found, as an absolute path,
// or "" when there is none. A $COURSEBOOK_CONFIG that names a missing file
// is skipped.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && isFile(path) {
		return path
	}
	for _, path := range configCandidates() {
		if !isFile(path) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// DefaultConfigPath is where --init-config writes a new file: config.yaml
// in the first per-user config directory, else coursebook.yaml here
func DefaultConfigPath() string {
	if dirs := configDirs(); len(dirs) > 1 {
		return filepath.Join(dirs[0], "config.yaml")
	}
	return appName + ".yaml"
}

// EnsureConfigDir creates the directory that will hold configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
