package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/yuya-takeyama/s3hop/pkg/executor"
	"github.com/yuya-takeyama/s3hop/pkg/logger"
	"github.com/yuya-takeyama/s3hop/pkg/planner"
	"github.com/yuya-takeyama/s3hop/pkg/progress"
	"github.com/yuya-takeyama/s3hop/pkg/s3client"
	"github.com/yuya-takeyama/s3hop/pkg/s3url"
	"github.com/yuya-takeyama/s3hop/pkg/syncer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

var (
	sourceProfile string
	destProfile   string
	sourceRegion  string
	destRegion    string
	excludes      []string
	quiet         bool
	dryRun        bool
	noProgress    bool
	concurrency   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "s3hop <SourceS3Uri> <DestS3Uri>",
		Short: "Copy new and changed objects between S3 buckets across AWS accounts",
		Long: `s3hop mirrors objects from a source S3 location into a destination
location, possibly in a different account or region, transferring only
objects that are new or changed and streaming them bucket to bucket.`,
		Version:      fmt.Sprintf("%s (commit: %s, built at: %s by %s)", version, commit, date, builtBy),
		Args:         cobra.ExactArgs(2),
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&sourceProfile, "source-profile", "", "AWS profile for the source account")
	rootCmd.Flags().StringVar(&destProfile, "dest-profile", "", "AWS profile for the destination account")
	rootCmd.Flags().StringVar(&sourceRegion, "source-region", "", "AWS region of the source bucket (uses default if not specified)")
	rootCmd.Flags().StringVar(&destRegion, "dest-region", "", "AWS region of the destination bucket (uses default if not specified)")
	rootCmd.Flags().StringSliceVar(&excludes, "exclude", nil, "Exclude patterns (multiple allowed)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")
	rootCmd.Flags().BoolVar(&dryRun, "dryrun", false, "Shows operations without executing")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 8, "Number of concurrent copies")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	srcLoc, err := s3url.Parse(args[0])
	if err != nil {
		return err
	}
	dstLoc, err := s3url.Parse(args[1])
	if err != nil {
		return err
	}

	// Interrupt means graceful drain: in-flight copies settle and the
	// summary is still printed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourceClient, err := newClient(ctx, sourceProfile, sourceRegion)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	destClient, err := newClient(ctx, destProfile, destRegion)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}

	syncLogger := &logger.SyncLogger{
		IsDryRun: dryRun,
		IsQuiet:  quiet,
	}

	opts := syncer.Options{
		Concurrency: concurrency,
		Excludes:    excludes,
		DryRun:      dryRun,
		Logger:      syncLogger,
	}

	var bar *progressbar.ProgressBar
	if !quiet && !dryRun && !noProgress {
		opts.OnPlanReady = func(plan planner.Plan) {
			bar = progressbar.DefaultBytes(plan.TransferBytes, "transferring")
		}
		opts.OnBytesWritten = func(delta int64) {
			if bar != nil {
				bar.Add64(delta)
			}
		}
		opts.Render = func(stats progress.Stats) {
			if bar == nil {
				return
			}
			eta := "calculating..."
			if stats.ETAKnown {
				eta = stats.ETA.Round(time.Second).String()
			}
			bar.Describe(fmt.Sprintf("transferring (%d/%d files, %s/s, ETA %s)",
				stats.ProcessedFiles+stats.SkippedFiles, stats.TotalFiles,
				humanize.Bytes(uint64(stats.Throughput)), eta))
		}
	}

	s := syncer.New(sourceClient, destClient, opts)
	result, runErr := s.Run(ctx, srcLoc, dstLoc)

	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if result != nil && !dryRun && (!quiet || len(result.Stats.FailedKeys) > 0) {
		logger.PrintSummary(os.Stdout, result.Stats)
	}

	if runErr != nil {
		return runErr
	}

	switch result.State {
	case executor.StateCompleted:
		return nil
	case executor.StateCompletedWithFailures:
		return fmt.Errorf("%d transfers failed", len(result.Stats.FailedKeys))
	case executor.StateAborted:
		return fmt.Errorf("transfer interrupted")
	default:
		return fmt.Errorf("unexpected run state: %s", result.State)
	}
}

func newClient(ctx context.Context, profile, region string) (*s3client.AWSClient, error) {
	var configOpts []func(*config.LoadOptions) error
	if profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		configOpts = append(configOpts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3client.NewAWSClient(cfg), nil
}
