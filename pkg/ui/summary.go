package ui

import (
	"fmt"
	"time"

	"boxart/pkg/downloader"
)

const summaryRounding = 10 * time.Millisecond

// PrintSummary renders the final run summary with per-failure detail
func PrintSummary(summary downloader.Summary) {
	if IsQuietMode() {
		return
	}

	fmt.Println()
	PrintHighlight("[RUN COMPLETE]")
	fmt.Printf("  %s %d\n", Green("Saved:  "), summary.Saved)
	fmt.Printf("  %s %d\n", Yellow("Skipped:"), summary.Skipped)
	fmt.Printf("  %s %d\n", Red("Failed: "), summary.Failed)
	fmt.Printf("  %s %s\n", Cyan("Elapsed:"), summary.Elapsed.Round(summaryRounding))

	if len(summary.Failures) > 0 {
		fmt.Println()
		PrintWarning("Failures:")
		for _, f := range summary.Failures {
			fmt.Printf("  %s %s (%s)\n", Red("✗"), f.Name, Dim(f.Reason))
		}
	}
}
