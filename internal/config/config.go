package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omicsdash/biodisc/internal/paths"
	"gopkg.in/yaml.v3"
)

// Config represents the biodisc configuration
type Config struct {
	DataDirectory string          `yaml:"data_directory"`
	Database      DatabaseConfig  `yaml:"database"`  // SQLite settings
	Discovery     DiscoveryConfig `yaml:"discovery"` // ENA discovery settings
	Search        SearchConfig    `yaml:"search"`    // Optional search index
	Server        ServerConfig    `yaml:"server"`    // HTTP API settings
}

// DatabaseConfig contains SQLite database settings
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	CacheSize   int    `yaml:"cache_size"`   // in KB
	JournalMode string `yaml:"journal_mode"` // WAL
	BusyTimeout int    `yaml:"busy_timeout"` // in milliseconds
}

// DiscoveryConfig contains ENA discovery settings
type DiscoveryConfig struct {
	ENABaseURL     string `yaml:"ena_base_url"`    // ENA portal search endpoint
	TimeoutSeconds int    `yaml:"timeout_seconds"` // HTTP timeout for ENA requests
	DaysBack       int    `yaml:"days_back"`       // Default lookback window
	MaxSamples     int    `yaml:"max_samples"`     // Default page size per run
	MockBatchSize  int    `yaml:"mock_batch_size"` // Synthetic samples per fallback batch
	IntervalHours  int    `yaml:"interval_hours"`  // Scheduler cycle interval
	Scheduled      bool   `yaml:"scheduled"`       // Run periodic discovery in the server
}

// SearchConfig contains search index settings
type SearchConfig struct {
	Enabled      bool   `yaml:"enabled"`       // Enable Bleve search
	IndexPath    string `yaml:"index_path"`    // Path to Bleve index
	DefaultLimit int    `yaml:"default_limit"` // Default result limit
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	EnableCORS bool   `yaml:"enable_cors"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	p := paths.GetPaths()

	return &Config{
		DataDirectory: p.DataDir,
		Database: DatabaseConfig{
			Path:        paths.GetDatabasePath(),
			CacheSize:   10000, // 40MB
			JournalMode: "WAL",
			BusyTimeout: 10000,
		},
		Discovery: DiscoveryConfig{
			ENABaseURL:     "https://www.ebi.ac.uk/ena/portal/api/search",
			TimeoutSeconds: 30,
			DaysBack:       30,
			MaxSamples:     100,
			MockBatchSize:  5,
			IntervalHours:  6,
			Scheduled:      false,
		},
		Search: SearchConfig{
			Enabled:      true,
			IndexPath:    paths.GetIndexPath(),
			DefaultLimit: 100,
		},
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8080,
			EnableCORS: true,
		},
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	// Start with defaults
	config := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Return defaults if file doesn't exist
		return config, nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate and expand paths
	config.DataDirectory = expandPath(config.DataDirectory)
	config.Database.Path = expandPath(config.Database.Path)
	config.Search.IndexPath = expandPath(config.Search.IndexPath)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configured values that would otherwise fail deep inside a
// discovery run.
func (c *Config) Validate() error {
	if c.Discovery.ENABaseURL == "" {
		return fmt.Errorf("discovery.ena_base_url must not be empty")
	}
	if c.Discovery.TimeoutSeconds <= 0 {
		return fmt.Errorf("discovery.timeout_seconds must be positive, got %d", c.Discovery.TimeoutSeconds)
	}
	if c.Discovery.MaxSamples <= 0 {
		return fmt.Errorf("discovery.max_samples must be positive, got %d", c.Discovery.MaxSamples)
	}
	if c.Discovery.IntervalHours <= 0 {
		return fmt.Errorf("discovery.interval_hours must be positive, got %d", c.Discovery.IntervalHours)
	}
	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv("BIODISC_CONFIG"); path != "" {
		return path
	}

	// Check current directory
	if _, err := os.Stat("biodisc.yaml"); err == nil {
		return "biodisc.yaml"
	}

	// Use default location
	p := paths.GetPaths()
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnsureDirectories creates necessary directories
func (c *Config) EnsureDirectories() error {
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	dirs := []string{
		c.DataDirectory,
		filepath.Dir(c.Database.Path),
		filepath.Dir(c.Search.IndexPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}

	return path
}
