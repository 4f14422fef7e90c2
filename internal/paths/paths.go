// Package paths resolves platform directories for biodisc following the XDG
// base directory convention, with BIODISC_* environment overrides.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
	StateDir  string
}

// GetPaths returns all base paths respecting environment variables
func GetPaths() Paths {
	return Paths{
		ConfigDir: getDir("BIODISC_CONFIG_HOME", "XDG_CONFIG_HOME", ".config", "biodisc"),
		DataDir:   getDir("BIODISC_DATA_HOME", "XDG_DATA_HOME", ".local/share", "biodisc"),
		CacheDir:  getDir("BIODISC_CACHE_HOME", "XDG_CACHE_HOME", ".cache", "biodisc"),
		StateDir:  getDir("BIODISC_STATE_HOME", "XDG_STATE_HOME", ".local/state", "biodisc"),
	}
}

func getDir(appEnv, xdgEnv, defaultBase, appName string) string {
	// 1. Check biodisc-specific env
	if dir := os.Getenv(appEnv); dir != "" {
		return dir
	}

	// 2. Check XDG env
	if xdgBase := os.Getenv(xdgEnv); xdgBase != "" {
		return filepath.Join(xdgBase, appName)
	}

	// 3. Use default
	home, _ := os.UserHomeDir()
	return filepath.Join(home, defaultBase, appName)
}

// GetDatabasePath returns the path to the discovery database
func GetDatabasePath() string {
	if path := os.Getenv("BIODISC_DB_PATH"); path != "" {
		return path
	}
	return filepath.Join(GetPaths().DataDir, "biodisc.db")
}

// GetIndexPath returns the path to the search index.
// Default: adjacent to the database for easy backup/migration.
func GetIndexPath() string {
	if path := os.Getenv("BIODISC_INDEX_PATH"); path != "" {
		return path
	}

	dbPath := GetDatabasePath()
	dir := filepath.Dir(dbPath)
	dbName := filepath.Base(dbPath)
	dbNameNoExt := dbName[:len(dbName)-len(filepath.Ext(dbName))]

	// Path like: /data/myproject/biodisc.bleve (next to biodisc.db)
	return filepath.Join(dir, dbNameNoExt+".bleve")
}

// EnsureDirectories creates all necessary directories
func EnsureDirectories() error {
	paths := GetPaths()
	dirs := []string{
		paths.ConfigDir,
		paths.DataDir,
		paths.CacheDir,
		paths.StateDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
