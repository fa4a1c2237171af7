package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"boxart/pkg/config"
	"boxart/pkg/progress"
	"boxart/pkg/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the progress record",
	Long: `Show how many covers the progress record already contains and when
it was last updated. Use this to check what a rerun would skip.`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&progressFile, "progress-file", "", "path to the progress record")
}

func runStatus(cmd *cobra.Command, args []string) {
	flags := make(map[string]interface{})
	if progressFile != "" {
		flags["progress-file"] = progressFile
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	records, err := progress.NewManager(cfg.Output.ProgressFile)
	if err != nil {
		ui.PrintError("Failed to open progress record", err.Error())
		os.Exit(1)
	}

	if !records.Exists() {
		ui.PrintWarning("No progress record found", cfg.Output.ProgressFile)
		fmt.Println("\nNothing has been downloaded yet. Start a run with:")
		fmt.Println("  boxart grab")
		return
	}

	info, err := records.Info()
	if err != nil {
		ui.PrintError("Failed to read progress record", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Progress Record")
	ui.PrintInfo("File", cfg.Output.ProgressFile)
	ui.PrintInfo("Completed", fmt.Sprintf("%v covers", info["completed"]))
	if created, ok := info["created_at"].(time.Time); ok {
		ui.PrintInfo("Created", created.Format(time.RFC1123))
	}
	if updated, ok := info["updated_at"].(time.Time); ok {
		ui.PrintInfo("Updated", updated.Format(time.RFC1123))
	}
}
