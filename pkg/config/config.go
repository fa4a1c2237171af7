package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use values like "340ms".
type Duration time.Duration

// UnmarshalYAML parses either a duration string ("30s") or a plain integer
// nanosecond count.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if parsed, err := time.ParseDuration(value.Value); err == nil {
		*d = Duration(parsed)
		return nil
	}
	if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	return fmt.Errorf("invalid duration: %q", value.Value)
}

// MarshalYAML renders the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// String renders the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all configuration options for the box art downloader
type Config struct {
	// Target page settings
	Target TargetConfig `yaml:"target" json:"target"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TargetConfig describes the listing page and how to discover images on it
type TargetConfig struct {
	URL           string   `yaml:"url" json:"url"`
	Filter        string   `yaml:"filter" json:"filter"`
	UserAgent     string   `yaml:"user_agent" json:"user_agent"`
	PageTimeout   Duration `yaml:"page_timeout" json:"page_timeout"`
	ChallengeWait Duration `yaml:"challenge_wait" json:"challenge_wait"`
	ScrollPause   Duration `yaml:"scroll_pause" json:"scroll_pause"`
}

// DownloadConfig holds fetch pacing and timeout settings. Burst selects
// the pacing mode: 1 means one download per interval; higher values allow
// bursts of that many downloads per refill window at the same average pace.
type DownloadConfig struct {
	Timeout  Duration `yaml:"timeout" json:"timeout"`
	Interval Duration `yaml:"interval" json:"interval"`
	Burst    int      `yaml:"burst" json:"burst"`
}

// OutputConfig holds output directory and progress file configuration
type OutputConfig struct {
	Directory    string `yaml:"directory" json:"directory"`
	ProgressFile string `yaml:"progress_file" json:"progress_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			URL:           "https://rec0ded88.com/play-nes-games/",
			Filter:        "NES_Covers",
			UserAgent:     "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			PageTimeout:   Duration(60 * time.Second),
			ChallengeWait: Duration(30 * time.Second),
			ScrollPause:   Duration(300 * time.Millisecond),
		},
		Download: DownloadConfig{
			Timeout:  Duration(30 * time.Second),
			Interval: Duration(340 * time.Millisecond), // ~3 downloads per second
			Burst:    1,
		},
		Output: OutputConfig{
			Directory:    "./box-art",
			ProgressFile: "./progress.json",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load builds the effective configuration: defaults, then config file,
// then environment variables, then command line flags.
func Load(path string, flags map[string]interface{}) (*Config, error) {
	// Load .env file if present (optional)
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if url := os.Getenv("BOXART_TARGET_URL"); url != "" {
		c.Target.URL = url
	}
	if filter := os.Getenv("BOXART_FILTER"); filter != "" {
		c.Target.Filter = filter
	}
	if userAgent := os.Getenv("BOXART_USER_AGENT"); userAgent != "" {
		c.Target.UserAgent = userAgent
	}
	if outputDir := os.Getenv("BOXART_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if progressFile := os.Getenv("BOXART_PROGRESS_FILE"); progressFile != "" {
		c.Output.ProgressFile = progressFile
	}
	if interval := os.Getenv("BOXART_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid BOXART_INTERVAL: %w", err)
		}
		c.Download.Interval = Duration(d)
	}
	if timeout := os.Getenv("BOXART_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid BOXART_TIMEOUT: %w", err)
		}
		c.Download.Timeout = Duration(d)
	}
	if burst := os.Getenv("BOXART_BURST"); burst != "" {
		n, err := strconv.Atoi(burst)
		if err != nil {
			return fmt.Errorf("invalid BOXART_BURST: %w", err)
		}
		c.Download.Burst = n
	}
	if logLevel := os.Getenv("BOXART_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".boxart.yaml",
		".boxart.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "boxart", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "boxart", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".boxart.yaml"),
		filepath.Join(os.Getenv("HOME"), ".boxart.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Target.URL == "" {
		errs = append(errs, errors.New("target URL is required"))
	} else if !strings.HasPrefix(c.Target.URL, "http://") && !strings.HasPrefix(c.Target.URL, "https://") {
		errs = append(errs, errors.New("target URL must be http or https"))
	}

	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.Interval < 0 {
		errs = append(errs, errors.New("download interval cannot be negative"))
	}
	if c.Download.Burst < 1 {
		errs = append(errs, errors.New("download burst must be at least 1"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.ProgressFile == "" {
		errs = append(errs, errors.New("progress file path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if url, ok := flags["url"].(string); ok && url != "" {
		c.Target.URL = url
	}
	if filter, ok := flags["filter"].(string); ok && filter != "" {
		c.Target.Filter = filter
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if progressFile, ok := flags["progress-file"].(string); ok && progressFile != "" {
		c.Output.ProgressFile = progressFile
	}
	if interval, ok := flags["interval"].(time.Duration); ok && interval > 0 {
		c.Download.Interval = Duration(interval)
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Download.Timeout = Duration(timeout)
	}
	if burst, ok := flags["burst"].(int); ok && burst > 0 {
		c.Download.Burst = burst
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}
