package logger

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/yuya-takeyama/s3hop/pkg/planner"
	"github.com/yuya-takeyama/s3hop/pkg/progress"
)

const (
	maxFailedShown     = 10
	maxExtensionsShown = 10
)

// PrintSummary renders the final transfer summary from a tracker snapshot.
func PrintSummary(w io.Writer, stats progress.Stats) {
	heading := color.New(color.Bold)

	heading.Fprintln(w, "\n=== Transfer Summary ===")
	fmt.Fprintf(w, "Start time: %s\n", stats.StartTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "End time: %s\n", stats.StartTime.Add(stats.Elapsed).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration: %s\n", stats.Elapsed.Round(time.Second))

	fmt.Fprintln(w, "\nTransfer Statistics:")
	fmt.Fprintf(w, "  New files: %d\n", stats.StatusCounts[planner.StatusNew])
	fmt.Fprintf(w, "  Updated files: %d\n", stats.StatusCounts[planner.StatusUpdated])
	fmt.Fprintf(w, "  Skipped (already exist): %d\n", stats.StatusCounts[planner.StatusExisting])
	fmt.Fprintf(w, "  Failed transfers: %d\n", len(stats.FailedKeys))

	fmt.Fprintln(w, "\nTotal data processed:")
	fmt.Fprintf(w, "  Transferred: %s\n", humanize.Bytes(uint64(stats.ProcessedSize)))
	fmt.Fprintf(w, "  Skipped: %s\n", humanize.Bytes(uint64(stats.SkippedSize)))
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		fmt.Fprintf(w, "  Average speed: %s/s\n", humanize.Bytes(uint64(float64(stats.ProcessedSize)/secs)))
	}

	if len(stats.FailedKeys) > 0 {
		color.New(color.FgRed).Fprintf(w, "\nFailed transfers (%d):\n", len(stats.FailedKeys))
		for i, key := range stats.FailedKeys {
			if i == maxFailedShown {
				fmt.Fprintf(w, "  ... and %d more\n", len(stats.FailedKeys)-maxFailedShown)
				break
			}
			fmt.Fprintf(w, "  - %s\n", key)
		}
	}

	if len(stats.Extensions) > 0 {
		fmt.Fprintln(w, "\nFile type statistics:")
		for i, ext := range extensionsBySize(stats.Extensions) {
			if i == maxExtensionsShown {
				break
			}
			stat := stats.Extensions[ext]
			fmt.Fprintf(w, "  .%s: %d files, %s\n", ext, stat.Count, humanize.Bytes(uint64(stat.Size)))
		}
	}
}

func extensionsBySize(extensions map[string]progress.ExtensionStat) []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if extensions[exts[i]].Size != extensions[exts[j]].Size {
			return extensions[exts[i]].Size > extensions[exts[j]].Size
		}
		return exts[i] < exts[j]
	})
	return exts
}
