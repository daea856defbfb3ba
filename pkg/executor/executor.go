package executor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yuya-takeyama/s3hop/pkg/logger"
	"github.com/yuya-takeyama/s3hop/pkg/planner"
	"github.com/yuya-takeyama/s3hop/pkg/progress"
	"github.com/yuya-takeyama/s3hop/pkg/s3client"
	"github.com/yuya-takeyama/s3hop/pkg/s3url"
)

// RunState is the terminal state of a transfer run.
type RunState string

const (
	// StateCompleted means every object ended up transferred or skipped.
	StateCompleted RunState = "completed"
	// StateCompletedWithFailures means the loop finished but some objects failed.
	StateCompletedWithFailures RunState = "completed_with_failures"
	// StateAborted means the run was cancelled or hit a fatal fault.
	StateAborted RunState = "aborted"
)

// Executor drives a plan: skip accounting for objects already in sync, then
// streamed source-to-destination copies with bounded concurrency. A single
// object's failure is recorded and never aborts the run.
type Executor struct {
	source  s3client.Client
	dest    s3client.Client
	srcLoc  s3url.Location
	dstLoc  s3url.Location
	tracker *progress.Tracker
	logger  logger.Logger

	concurrency int

	// OnBytesWritten, if non-nil, receives byte deltas from every copy so
	// the caller can drive a byte-level progress bar. Must be safe for
	// concurrent use.
	OnBytesWritten s3client.ProgressFunc
}

func NewExecutor(source, dest s3client.Client, srcLoc, dstLoc s3url.Location, tracker *progress.Tracker, log logger.Logger, concurrency int) *Executor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Executor{
		source:      source,
		dest:        dest,
		srcLoc:      srcLoc,
		dstLoc:      dstLoc,
		tracker:     tracker,
		logger:      log,
		concurrency: concurrency,
	}
}

// Execute runs the three phases of a transfer: fix tracker totals, account
// for already-synchronized objects, then copy everything else. Cancellation
// stops dispatching new copies; in-flight copies drain before Execute
// returns.
func (e *Executor) Execute(ctx context.Context, plan planner.Plan, totalFiles int, totalBytes int64) RunState {
	e.tracker.SetTotals(totalFiles, totalBytes)

	for _, item := range plan.Existing {
		e.tracker.RecordSkipped(item.Size)
		e.tracker.RecordStatus(planner.StatusExisting)
		e.tracker.RecordExtension(item.SourceKey, item.Size)
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	cancelled := false

	for _, item := range plan.Transfers {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		wg.Add(1)
		go func(itm planner.Item) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			if err := e.copyObject(ctx, itm); err != nil {
				e.logger.Error("copy", itm.SourceKey, err)
				e.tracker.RecordFailed(itm.SourceKey)
				return
			}

			e.tracker.RecordTransferred(itm.Size)
			e.tracker.RecordExtension(itm.SourceKey, itm.Size)
			e.tracker.RecordStatus(itm.Status)
		}(item)
	}

	wg.Wait()

	switch {
	case cancelled || ctx.Err() != nil:
		return StateAborted
	case len(e.tracker.Snapshot().FailedKeys) > 0:
		return StateCompletedWithFailures
	default:
		return StateCompleted
	}
}

func (e *Executor) copyObject(ctx context.Context, item planner.Item) error {
	destKey := item.DestinationKey(e.srcLoc.Prefix, e.dstLoc.Prefix)

	e.logger.Copy(
		fmt.Sprintf("s3://%s/%s", e.srcLoc.Bucket, item.SourceKey),
		fmt.Sprintf("s3://%s/%s", e.dstLoc.Bucket, destKey),
	)

	body, err := e.source.GetObjectStream(ctx, &s3client.GetObjectRequest{
		Bucket: e.srcLoc.Bucket,
		Key:    item.SourceKey,
	})
	if err != nil {
		return fmt.Errorf("failed to read source object: %w", err)
	}
	defer body.Close()

	var reported int64
	var onBytes s3client.ProgressFunc
	if e.OnBytesWritten != nil {
		onBytes = func(delta int64) {
			atomic.AddInt64(&reported, delta)
			e.OnBytesWritten(delta)
		}
	}

	err = e.dest.PutObjectStream(ctx, &s3client.PutObjectRequest{
		Bucket:         e.dstLoc.Bucket,
		Key:            destKey,
		Body:           body,
		Size:           item.Size,
		ContentType:    guessContentType(item.SourceKey),
		OnBytesWritten: onBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to write destination object: %w", err)
	}

	// Top up whatever the transport did not report so the bar lands on the
	// object's full size.
	if e.OnBytesWritten != nil {
		if rest := item.Size - atomic.LoadInt64(&reported); rest > 0 {
			e.OnBytesWritten(rest)
		}
	}

	return nil
}
