package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/arcanaland/cardtags/internal/catalog"
)

// Config represents the application configuration
type Config struct {
	DefaultCatalog string `toml:"default_catalog" env:"CARDTAGS_CATALOG"`
	FoldTagCase    bool   `toml:"fold_tag_case" env:"CARDTAGS_FOLD_TAG_CASE"`
	ListenAddr     string `toml:"listen_addr" env:"CARDTAGS_LISTEN_ADDR"`
	FetchTimeout   string `toml:"fetch_timeout" env:"CARDTAGS_FETCH_TIMEOUT"`
	LogLevel       string `toml:"log_level" env:"CARDTAGS_LOG_LEVEL"`
}

// Default returns the configuration written on first use
func Default() *Config {
	return &Config{
		DefaultCatalog: catalog.DefaultSource,
		FoldTagCase:    false,
		ListenAddr:     ":8080",
		FetchTimeout:   "30s",
		LogLevel:       "warn",
	}
}

// Timeout parses FetchTimeout, falling back to 30s when unset
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.FetchTimeout) == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch_timeout %q: %w", c.FetchTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid fetch_timeout %q: must be positive", c.FetchTimeout)
	}
	return d, nil
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetCatalogLibraryPath returns the directory holding named catalogs
func GetCatalogLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), "cardtags", "catalogs")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardtags", "config.toml")
}

// GetCacheDir returns the directory for rendered previews
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), "cardtags")
}

// LoadConfig loads the config file, creating it with defaults if missing
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

// Load reads the config file, then applies a .env file from the working
// directory if present, then CARDTAGS_* environment variables
func Load() (*Config, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if _, err := config.Timeout(); err != nil {
		return nil, err
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := writeConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func writeConfig(config *Config) error {
	configPath := GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// ResolveCatalog turns a catalog name into a loadable source: URLs are kept,
// names are looked up in the catalog library, anything else is a path
func ResolveCatalog(name string) (string, error) {
	if catalog.IsRemote(name) {
		return name, nil
	}

	libraryPath := GetCatalogLibraryPath()
	for _, candidate := range []string{name, name + ".json"} {
		path := filepath.Join(libraryPath, candidate)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	return "", fmt.Errorf("catalog not found: %s", name)
}

// SetDefaultCatalog sets the default catalog in the config file
func SetDefaultCatalog(name string) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}

	config.DefaultCatalog = name
	return writeConfig(config)
}
