// Package syncer orchestrates one end-to-end run: listing both locations,
// planning, and driving the transfer with a concurrent status reporter.
package syncer

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/yuya-takeyama/s3hop/pkg/executor"
	"github.com/yuya-takeyama/s3hop/pkg/logger"
	"github.com/yuya-takeyama/s3hop/pkg/planner"
	"github.com/yuya-takeyama/s3hop/pkg/progress"
	"github.com/yuya-takeyama/s3hop/pkg/s3client"
	"github.com/yuya-takeyama/s3hop/pkg/s3url"
)

// Options configures a Syncer. The zero value is usable: sequential
// transfers, default logger, no reporter, no byte-level progress.
type Options struct {
	Concurrency int
	Excludes    []string
	DryRun      bool
	Logger      logger.Logger
	// OnPlanReady, if non-nil, is invoked once planning is done and a
	// transfer phase is about to start.
	OnPlanReady func(plan planner.Plan)
	// OnBytesWritten receives byte deltas from every copy. Must be safe
	// for concurrent use.
	OnBytesWritten s3client.ProgressFunc
	// Render, if non-nil, is driven once per second with tracker snapshots
	// for the duration of the transfer phase.
	Render progress.RenderFunc
}

// RunResult carries the final tracker snapshot and the terminal run state.
type RunResult struct {
	Stats progress.Stats
	State executor.RunState
}

type Syncer struct {
	source s3client.Client
	dest   s3client.Client
	opts   Options
}

func New(source, dest s3client.Client, opts Options) *Syncer {
	if opts.Logger == nil {
		opts.Logger = &logger.SyncLogger{}
	}
	return &Syncer{
		source: source,
		dest:   dest,
		opts:   opts,
	}
}

// Run executes one sync from srcLoc to dstLoc. A listing failure is fatal
// and returns an error alongside a best-effort RunResult; per-object
// transfer failures are reflected in the result state, not the error.
func (s *Syncer) Run(ctx context.Context, srcLoc, dstLoc s3url.Location) (*RunResult, error) {
	log := s.opts.Logger
	tracker := progress.NewTracker()

	log.Info("Source: bucket=%s, prefix=%s", srcLoc.Bucket, srcLoc.Prefix)
	log.Info("Destination: bucket=%s, prefix=%s", dstLoc.Bucket, dstLoc.Prefix)
	log.Info("Analyzing source and destination buckets...")

	sourceObjects, err := planner.Inventory(ctx, s.source, srcLoc, s.opts.Excludes)
	if err != nil {
		return &RunResult{Stats: tracker.Snapshot(), State: executor.StateAborted},
			fmt.Errorf("source listing failed: %w", err)
	}

	destObjects, err := planner.Inventory(ctx, s.dest, dstLoc, s.opts.Excludes)
	if err != nil {
		return &RunResult{Stats: tracker.Snapshot(), State: executor.StateAborted},
			fmt.Errorf("destination listing failed: %w", err)
	}

	plan := planner.BuildPlan(sourceObjects, destObjects)

	var totalBytes int64
	for _, obj := range sourceObjects {
		totalBytes += obj.Size
	}

	log.Info("Total files in source: %d", len(sourceObjects))
	log.Info("Files already in destination: %d (%s)", len(plan.Existing), humanize.Bytes(uint64(plan.ExistingBytes)))
	log.Info("Files to transfer: %d (%s)", len(plan.Transfers), humanize.Bytes(uint64(plan.TransferBytes)))

	exec := executor.NewExecutor(s.source, s.dest, srcLoc, dstLoc, tracker, log, s.opts.Concurrency)
	exec.OnBytesWritten = s.opts.OnBytesWritten

	if len(plan.Transfers) == 0 {
		state := exec.Execute(ctx, plan, len(sourceObjects), totalBytes)
		log.Info("All files are already up to date in the destination bucket.")
		return &RunResult{Stats: tracker.Snapshot(), State: state}, nil
	}

	if s.opts.DryRun {
		for _, item := range plan.Transfers {
			destKey := item.DestinationKey(srcLoc.Prefix, dstLoc.Prefix)
			log.Copy(
				fmt.Sprintf("s3://%s/%s", srcLoc.Bucket, item.SourceKey),
				fmt.Sprintf("s3://%s/%s", dstLoc.Bucket, destKey),
			)
		}
		return &RunResult{Stats: tracker.Snapshot(), State: executor.StateCompleted}, nil
	}

	if s.opts.OnPlanReady != nil {
		s.opts.OnPlanReady(plan)
	}

	if s.opts.Render != nil {
		reporterCtx, stopReporter := context.WithCancel(ctx)
		reporterDone := make(chan struct{})
		go func() {
			defer close(reporterDone)
			progress.NewReporter(tracker, s.opts.Render).Run(reporterCtx)
		}()
		defer func() {
			stopReporter()
			<-reporterDone
		}()
	}

	state := exec.Execute(ctx, plan, len(sourceObjects), totalBytes)

	return &RunResult{Stats: tracker.Snapshot(), State: state}, nil
}
