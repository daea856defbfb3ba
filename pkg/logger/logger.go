package logger

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Logger receives operation-level events from the sync engine.
type Logger interface {
	Copy(sourceKey, destPath string)
	Skip(key string)
	Error(operation, key string, err error)
	Info(format string, args ...interface{})
}

// SyncLogger is the default logger. Operation lines go to stdout unless
// quiet; errors always go to stderr.
type SyncLogger struct {
	IsDryRun bool
	IsQuiet  bool
}

func (l *SyncLogger) Copy(sourceKey, destPath string) {
	if l.IsQuiet {
		return
	}
	if l.IsDryRun {
		fmt.Printf("(dryrun) copy: %s to %s\n", sourceKey, destPath)
		return
	}
	fmt.Printf("copy: %s to %s\n", sourceKey, destPath)
}

func (l *SyncLogger) Skip(key string) {}

func (l *SyncLogger) Error(operation, key string, err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %s %s: %v\n", operation, key, err)
}

func (l *SyncLogger) Info(format string, args ...interface{}) {
	if l.IsQuiet {
		return
	}
	fmt.Printf(format+"\n", args...)
}

// NullLogger discards everything.
type NullLogger struct{}

func (l *NullLogger) Copy(sourceKey, destPath string)         {}
func (l *NullLogger) Skip(key string)                         {}
func (l *NullLogger) Error(operation, key string, err error)  {}
func (l *NullLogger) Info(format string, args ...interface{}) {}
