package progress

import (
	"context"
	"time"
)

// RenderFunc renders one snapshot. Rendering itself is a caller concern;
// the reporter only schedules it.
type RenderFunc func(Stats)

// Reporter periodically snapshots a Tracker and hands the result to a
// render callback. It never mutates tracker state and stops when its
// context is cancelled, so its lifetime is tied to the run's.
type Reporter struct {
	tracker  *Tracker
	render   RenderFunc
	interval time.Duration
}

func NewReporter(tracker *Tracker, render RenderFunc) *Reporter {
	return &Reporter{
		tracker:  tracker,
		render:   render,
		interval: time.Second,
	}
}

// Run blocks until ctx is cancelled, rendering a snapshot every interval.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.render(r.tracker.Snapshot())
		}
	}
}
