package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	DecksDir string `toml:"decks_dir"`
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
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

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cards", "config.toml")
}

// defaultConfig returns the configuration used when no config file exists:
// decks/ and public/data/ relative to the working directory, caches under
// the XDG cache home.
func defaultConfig() *Config {
	return &Config{
		DecksDir: "decks",
		DataDir:  filepath.Join("public", "data"),
		CacheDir: filepath.Join(GetXDGCacheHome(), "cards"),
	}
}

// LoadConfig loads the config file. Fields omitted from the file keep
// their defaults.
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	// Create default config if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	config := defaultConfig()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	configDir := filepath.Dir(configPath)

	// Ensure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := defaultConfig()

	// Create the file
	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	// Encode the config to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}

// OCRCacheDir returns the OCR cache location under the cache root.
func (c *Config) OCRCacheDir() string {
	return filepath.Join(c.CacheDir, "ocr")
}

// TranslationCacheDir returns the translation cache location under the
// cache root.
func (c *Config) TranslationCacheDir() string {
	return filepath.Join(c.CacheDir, "translation")
}
