package progress

import (
	"strings"
	"sync"
	"time"

	"github.com/yuya-takeyama/s3hop/pkg/planner"
)

// NoExtension is the extension-stats key for objects without an extension.
const NoExtension = "no_extension"

// ExtensionStat aggregates count and bytes for one file extension.
type ExtensionStat struct {
	Count int
	Size  int64
}

// Tracker is the single shared mutable aggregate for a run. All methods are
// safe for concurrent use; callers never need external locking. The transfer
// path mutates it while a reporter reads snapshots concurrently.
type Tracker struct {
	mu sync.Mutex

	now       func() time.Time
	startTime time.Time

	totalFiles     int
	totalSize      int64
	processedFiles int
	processedSize  int64
	skippedFiles   int
	skippedSize    int64
	currentSpeed   float64 // bytes per second
	failedKeys     []string
	extensions     map[string]ExtensionStat
	statusCounts   map[planner.Status]int
}

func NewTracker() *Tracker {
	return newTrackerAt(time.Now)
}

func newTrackerAt(now func() time.Time) *Tracker {
	return &Tracker{
		now:        now,
		startTime:  now(),
		extensions: make(map[string]ExtensionStat),
		statusCounts: map[planner.Status]int{
			planner.StatusNew:      0,
			planner.StatusExisting: 0,
			planner.StatusUpdated:  0,
		},
	}
}

// SetTotals fixes the run's total object and byte counts. Called once,
// before any transfer begins, from the full source listing.
func (t *Tracker) SetTotals(files int, size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalFiles = files
	t.totalSize = size
}

// RecordTransferred marks one object as successfully transferred and
// recomputes current throughput.
func (t *Tracker) RecordTransferred(size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.processedFiles++
	t.processedSize += size
	if elapsed := t.now().Sub(t.startTime).Seconds(); elapsed > 0 {
		t.currentSpeed = float64(t.processedSize) / elapsed
	}
}

// RecordSkipped marks one object as already in sync at the destination.
func (t *Tracker) RecordSkipped(size int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skippedFiles++
	t.skippedSize += size
}

// RecordFailed appends a key to the failed-transfer list.
func (t *Tracker) RecordFailed(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failedKeys = append(t.failedKeys, key)
}

// RecordStatus increments the classification histogram.
func (t *Tracker) RecordStatus(status planner.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusCounts[status]++
}

// RecordExtension updates the per-extension breakdown for a key.
func (t *Tracker) RecordExtension(key string, size int64) {
	ext := extensionOf(key)
	t.mu.Lock()
	defer t.mu.Unlock()
	stat := t.extensions[ext]
	stat.Count++
	stat.Size += size
	t.extensions[ext] = stat
}

// Snapshot returns a self-consistent view of the tracker as of a single
// instant, with derived throughput, ETA, and completion percentage.
func (t *Tracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := t.now().Sub(t.startTime)

	stats := Stats{
		StartTime:      t.startTime,
		Elapsed:        elapsed,
		TotalFiles:     t.totalFiles,
		TotalSize:      t.totalSize,
		ProcessedFiles: t.processedFiles,
		ProcessedSize:  t.processedSize,
		SkippedFiles:   t.skippedFiles,
		SkippedSize:    t.skippedSize,
		Throughput:     t.currentSpeed,
		FailedKeys:     append([]string(nil), t.failedKeys...),
		Extensions:     make(map[string]ExtensionStat, len(t.extensions)),
		StatusCounts:   make(map[planner.Status]int, len(t.statusCounts)),
	}
	for ext, stat := range t.extensions {
		stats.Extensions[ext] = stat
	}
	for status, count := range t.statusCounts {
		stats.StatusCounts[status] = count
	}

	if remaining := t.totalSize - t.processedSize - t.skippedSize; remaining > 0 && t.currentSpeed > 0 {
		stats.ETA = time.Duration(float64(remaining) / t.currentSpeed * float64(time.Second))
		stats.ETAKnown = true
	}
	if t.totalSize > 0 {
		stats.Percent = float64(t.processedSize+t.skippedSize) / float64(t.totalSize) * 100
	}

	return stats
}

// Stats is a point-in-time snapshot of a Tracker.
type Stats struct {
	StartTime      time.Time
	Elapsed        time.Duration
	TotalFiles     int
	TotalSize      int64
	ProcessedFiles int
	ProcessedSize  int64
	SkippedFiles   int
	SkippedSize    int64
	Throughput     float64 // bytes per second
	ETA            time.Duration
	ETAKnown       bool
	Percent        float64
	FailedKeys     []string
	Extensions     map[string]ExtensionStat
	StatusCounts   map[planner.Status]int
}

func extensionOf(key string) string {
	base := key
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return NoExtension
	}
	return strings.ToLower(base[i+1:])
}
