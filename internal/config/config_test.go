package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefaultOnFirstRun(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DecksDir != "decks" {
		t.Errorf("DecksDir = %q, want decks", cfg.DecksDir)
	}
	if cfg.DataDir != filepath.Join("public", "data") {
		t.Errorf("DataDir = %q, want public/data", cfg.DataDir)
	}

	if _, err := os.Stat(GetConfigFilePath()); err != nil {
		t.Errorf("first run must write the default config file: %v", err)
	}

	// A second load reads the file it just wrote.
	again, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *again != *cfg {
		t.Errorf("reloaded config %+v differs from %+v", again, cfg)
	}
}

func TestLoadConfigReadsExistingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	configPath := GetConfigFilePath()
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	raw := "decks_dir = \"my-decks\"\n"
	if err := os.WriteFile(configPath, []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DecksDir != "my-decks" {
		t.Errorf("DecksDir = %q, want my-decks", cfg.DecksDir)
	}
	// Omitted fields keep their defaults.
	if cfg.DataDir != filepath.Join("public", "data") {
		t.Errorf("DataDir = %q, want the default", cfg.DataDir)
	}
}
