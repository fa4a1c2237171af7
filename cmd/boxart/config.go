package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"boxart/pkg/config"
	"boxart/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Box Art configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (BOXART_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.boxart.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	// Determine config file path
	configPath := configFile
	if configPath == "" {
		configPath = ".boxart.yaml"
	}

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	// Create example configuration
	exampleConfig := `# Box Art Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with BOXART_
# For example: BOXART_TARGET_URL, BOXART_OUTPUT_DIR

# Target page settings
target:
  # Catalog page to discover covers on
  url: "https://rec0ded88.com/play-nes-games/"

  # Substring an image URL must contain to be treated as a cover.
  # Leave empty to take every image on the page.
  filter: "NES_Covers"

  # User agent for both the browser and the downloads.
  # Leave empty to use default.
  user_agent: ""

  # How long the browser may spend loading and scrolling the page
  page_timeout: 60s

  # How long to wait for the bot challenge to clear
  challenge_wait: 30s

  # Pause between scroll steps while lazy images load
  scroll_pause: 300ms

# Download configuration
download:
  # Per-download HTTP timeout
  timeout: 30s

  # Minimum delay between downloads (roughly 3 per second)
  interval: 340ms

  # Downloads allowed per refill window. 1 paces every download evenly;
  # higher values allow short bursts at the same average rate.
  burst: 1

# Output configuration
output:
  # Directory the images are written to
  directory: "./box-art"

  # Progress record; delete it (or use --force-restart) to start over
  progress_file: "./progress.json"

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	// Write configuration file
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the target URL and pacing if needed")
	fmt.Println("2. Run 'boxart config validate' to check the configuration")
	fmt.Println("3. Start downloading with 'boxart grab'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Convert to YAML for display
	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	// Show configuration sources
	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (BOXART_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	// Check if config file is specified
	if configFile == "" {
		possiblePaths := []string{
			"boxart.yaml",
			"boxart.yml",
			".boxart.yaml",
			".boxart.yml",
			filepath.Join(os.Getenv("HOME"), ".boxart.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "boxart", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	// Try to load and validate configuration
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	errors := []string{}

	// Check paths
	if cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create output directory: %v", err))
		}
	}
	if cfg.Output.ProgressFile != "" {
		dir := filepath.Dir(cfg.Output.ProgressFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create progress record directory: %v", err))
		}
	}
	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	// Display results
	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:", "")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")

	// Show summary
	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Target URL: %s\n", cfg.Target.URL)
	fmt.Printf("  Filter: %s\n", cfg.Target.Filter)
	fmt.Printf("  Output directory: %s\n", cfg.Output.Directory)
	fmt.Printf("  Interval: %s\n", cfg.Download.Interval)
	fmt.Printf("  Timeout: %s\n", cfg.Download.Timeout)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
