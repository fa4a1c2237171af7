package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.Download.Interval.Std() != 340*time.Millisecond {
		t.Errorf("Expected default interval to be 340ms, got %v", config.Download.Interval)
	}

	if config.Download.Timeout.Std() != 30*time.Second {
		t.Errorf("Expected default timeout to be 30s, got %v", config.Download.Timeout)
	}

	if config.Output.Directory != "./box-art" {
		t.Errorf("Expected default output directory to be ./box-art, got %s", config.Output.Directory)
	}

	if config.Target.Filter != "NES_Covers" {
		t.Errorf("Expected default filter to be NES_Covers, got %s", config.Target.Filter)
	}

	if config.Download.Burst != 1 {
		t.Errorf("Expected default burst to be 1, got %d", config.Download.Burst)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("BOXART_TARGET_URL", "https://example.com/games/")
	os.Setenv("BOXART_FILTER", "covers")
	os.Setenv("BOXART_OUTPUT_DIR", "/tmp/test-box-art")
	os.Setenv("BOXART_INTERVAL", "500ms")
	os.Setenv("BOXART_TIMEOUT", "10s")
	os.Setenv("BOXART_BURST", "5")
	os.Setenv("BOXART_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("BOXART_TARGET_URL")
		os.Unsetenv("BOXART_FILTER")
		os.Unsetenv("BOXART_OUTPUT_DIR")
		os.Unsetenv("BOXART_INTERVAL")
		os.Unsetenv("BOXART_TIMEOUT")
		os.Unsetenv("BOXART_BURST")
		os.Unsetenv("BOXART_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Target.URL != "https://example.com/games/" {
		t.Errorf("Expected target URL to be https://example.com/games/, got %s", config.Target.URL)
	}

	if config.Target.Filter != "covers" {
		t.Errorf("Expected filter to be covers, got %s", config.Target.Filter)
	}

	if config.Output.Directory != "/tmp/test-box-art" {
		t.Errorf("Expected output directory to be /tmp/test-box-art, got %s", config.Output.Directory)
	}

	if config.Download.Interval.Std() != 500*time.Millisecond {
		t.Errorf("Expected interval to be 500ms, got %v", config.Download.Interval)
	}

	if config.Download.Timeout.Std() != 10*time.Second {
		t.Errorf("Expected timeout to be 10s, got %v", config.Download.Timeout)
	}

	if config.Download.Burst != 5 {
		t.Errorf("Expected burst to be 5, got %d", config.Download.Burst)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	os.Setenv("BOXART_INTERVAL", "not-a-duration")
	defer os.Unsetenv("BOXART_INTERVAL")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err == nil {
		t.Error("Expected error for invalid BOXART_INTERVAL")
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "config.yaml")
	content := `
target:
  url: https://example.com/list/
  filter: Box_Art
download:
  timeout: 15s
  interval: 1s
output:
  directory: /tmp/art
  progress_file: /tmp/art-progress.json
logging:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Target.URL != "https://example.com/list/" {
		t.Errorf("Expected target URL from file, got %s", config.Target.URL)
	}
	if config.Download.Interval.Std() != time.Second {
		t.Errorf("Expected interval 1s, got %v", config.Download.Interval)
	}
	if config.Output.ProgressFile != "/tmp/art-progress.json" {
		t.Errorf("Expected progress file from file, got %s", config.Output.ProgressFile)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level warn, got %s", config.Logging.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	config := DefaultConfig()
	if err := config.LoadFromFile("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.Target.URL = "" }, true},
		{"non-http url", func(c *Config) { c.Target.URL = "ftp://example.com" }, true},
		{"zero timeout", func(c *Config) { c.Download.Timeout = 0 }, true},
		{"negative interval", func(c *Config) { c.Download.Interval = Duration(-time.Second) }, true},
		{"zero interval allowed", func(c *Config) { c.Download.Interval = 0 }, false},
		{"empty output dir", func(c *Config) { c.Output.Directory = "" }, true},
		{"empty progress file", func(c *Config) { c.Output.ProgressFile = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"zero burst", func(c *Config) { c.Download.Burst = 0 }, true},
		{"negative burst", func(c *Config) { c.Download.Burst = -2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"url":           "https://other.example.com/",
		"output":        "/tmp/flag-art",
		"progress-file": "/tmp/flag-progress.json",
		"interval":      2 * time.Second,
		"timeout":       5 * time.Second,
		"burst":         4,
		"log-level":     "error",
	}
	config.MergeCommandLineFlags(flags)

	if config.Target.URL != "https://other.example.com/" {
		t.Errorf("Expected target URL from flags, got %s", config.Target.URL)
	}
	if config.Output.Directory != "/tmp/flag-art" {
		t.Errorf("Expected output dir from flags, got %s", config.Output.Directory)
	}
	if config.Download.Interval.Std() != 2*time.Second {
		t.Errorf("Expected interval from flags, got %v", config.Download.Interval)
	}
	if config.Download.Timeout.Std() != 5*time.Second {
		t.Errorf("Expected timeout from flags, got %v", config.Download.Timeout)
	}
	if config.Download.Burst != 4 {
		t.Errorf("Expected burst from flags, got %d", config.Download.Burst)
	}
	if config.Logging.Level != "error" {
		t.Errorf("Expected log level from flags, got %s", config.Logging.Level)
	}
}

func TestSaveAndReload(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_save_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configPath := filepath.Join(tempDir, "nested", "config.yaml")

	config := DefaultConfig()
	config.Target.Filter = "SNES_Covers"
	if err := config.Save(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(configPath); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Target.Filter != "SNES_Covers" {
		t.Errorf("Expected filter to round-trip, got %s", reloaded.Target.Filter)
	}
}
