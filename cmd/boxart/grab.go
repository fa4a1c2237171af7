package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"boxart/pkg/config"
	"boxart/pkg/discover"
	"boxart/pkg/downloader"
	"boxart/pkg/logger"
	"boxart/pkg/progress"
	"boxart/pkg/ratelimit"
	"boxart/pkg/storage"
	"boxart/pkg/ui"
)

var (
	// Grab command flags
	targetURL    string
	outputDir    string
	progressFile string
	interval     time.Duration
	timeout      time.Duration
	burst        int
	filter       string
	pageFile     string
	forceRestart bool
)

// grabCmd represents the grab command
var grabCmd = &cobra.Command{
	Use:   "grab",
	Short: "Discover and download cover images from the catalog page",
	Long: `Discover cover images on the catalog page and download every one
that is not already recorded as complete.

Discovery drives a headless browser so the page's bot challenge and
lazy-loaded images resolve before extraction. Runs are resumable: each
saved image is recorded immediately, and a rerun skips everything the
record already contains. Individual download failures are logged and
skipped; the run keeps going.`,
	Example: `  # Download with default settings
  boxart grab

  # Download to a specific directory at a slower pace
  boxart grab --output ./covers --interval 1s

  # Extract from a previously saved page instead of the live site
  boxart grab --skip-browser debug_page.html

  # Discard the progress record and start over
  boxart grab --force-restart`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runGrab(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(grabCmd)

	grabCmd.Flags().StringVarP(&targetURL, "url", "u", "", "catalog page URL")
	grabCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for images")
	grabCmd.Flags().StringVar(&progressFile, "progress-file", "", "path to the progress record")
	grabCmd.Flags().DurationVar(&interval, "interval", 0, "minimum delay between downloads")
	grabCmd.Flags().DurationVar(&timeout, "timeout", 0, "per-download HTTP timeout")
	grabCmd.Flags().IntVar(&burst, "burst", 0, "downloads allowed per refill window (1 = steady pacing)")
	grabCmd.Flags().StringVar(&filter, "filter", "", "substring an image URL must contain")
	grabCmd.Flags().StringVar(&pageFile, "skip-browser", "", "extract from a saved HTML file instead of driving the browser")
	grabCmd.Flags().BoolVar(&forceRestart, "force-restart", false, "discard the progress record and start over")
}

func runGrab(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if targetURL != "" {
		flags["url"] = targetURL
	}
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if progressFile != "" {
		flags["progress-file"] = progressFile
	}
	if interval > 0 {
		flags["interval"] = interval
	}
	if timeout > 0 {
		flags["timeout"] = timeout
	}
	if burst > 0 {
		flags["burst"] = burst
	}
	if filter != "" {
		flags["filter"] = filter
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.WithField("version", version)
	log.Info("Box Art starting")

	ui.PrintInfo("Target", cfg.Target.URL)
	ui.PrintInfo("Output", cfg.Output.Directory)

	// Cancel the run on interrupt so the progress record stays intact
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Progress record
	records, err := progress.NewManager(cfg.Output.ProgressFile)
	if err != nil {
		ui.PrintError("Failed to open progress record", err.Error())
		os.Exit(1)
	}
	if forceRestart && records.Exists() {
		if err := records.Delete(); err != nil {
			ui.PrintError("Failed to remove progress record", err.Error())
			os.Exit(1)
		}
		ui.PrintWarning("Progress record discarded, starting over")
	}
	record, err := records.Load()
	if err != nil {
		ui.PrintError("Failed to load progress record", err.Error())
		os.Exit(1)
	}
	if record.Len() > 0 {
		ui.PrintInfo("Resuming", record.UpdatedAt.Format(time.RFC1123))
	}

	// Discovery
	var disc discover.Discoverer
	if pageFile != "" {
		disc = &discover.File{Path: pageFile, BaseURL: cfg.Target.URL, Filter: cfg.Target.Filter}
		ui.PrintInfo("Page source", pageFile)
	} else {
		disc = discover.NewBrowser(cfg.Target, logger.WithField("component", "discover"))
	}

	ui.PrintHighlight("[DISCOVERING COVERS]")
	resources, err := disc.Discover(ctx)
	if err != nil {
		logger.WithError(err).Error("Discovery failed")
		ui.PrintError("DISCOVERY FAILED", err.Error())
		os.Exit(1)
	}
	ui.PrintInfo("Discovered", fmt.Sprintf("%d covers", len(resources)))

	// Storage and download pipeline
	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	client := downloader.NewClient(cfg.Download.Timeout.Std(), cfg.Target.UserAgent, logger.WithField("component", "client"))

	// Steady pacing by default; a burst lets that many downloads through
	// per refill window while keeping the same average rate.
	var limiter ratelimit.Limiter
	if cfg.Download.Burst > 1 {
		refill := cfg.Download.Interval.Std() * time.Duration(cfg.Download.Burst)
		limiter = ratelimit.NewTokenBucket(cfg.Download.Burst, refill)
	} else {
		limiter = ratelimit.NewInterval(cfg.Download.Interval.Std())
	}
	dl := downloader.New(client, store, records, limiter, logger.WithField("component", "downloader"))

	ui.PrintHighlight("[DOWNLOADING]")
	summary, err := dl.Run(ctx, resources, record)
	if err != nil {
		ui.PrintSummary(summary)
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			ui.PrintWarning("Interrupted; rerun to resume")
		} else {
			logger.WithError(err).Error("Run aborted")
			ui.PrintError("RUN ABORTED", err.Error())
		}
		os.Exit(1)
	}

	ui.PrintSummary(summary)
	log.Info("Run completed")
	ui.PrintSuccess("[RUN COMPLETED SUCCESSFULLY]")
}
