package syncer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yuya-takeyama/s3hop/pkg/executor"
	"github.com/yuya-takeyama/s3hop/pkg/logger"
	"github.com/yuya-takeyama/s3hop/pkg/progress"
	"github.com/yuya-takeyama/s3hop/pkg/s3client"
	"github.com/yuya-takeyama/s3hop/pkg/s3url"
)

var (
	srcLoc = s3url.Location{Bucket: "src-bkt", Prefix: "src/"}
	dstLoc = s3url.Location{Bucket: "dst-bkt", Prefix: "dst/"}
)

func listing(objects ...s3client.Object) func(context.Context, *s3client.ListObjectsRequest) ([]s3client.Object, error) {
	return func(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.Object, error) {
		return objects, nil
	}
}

func TestRunCopiesNewObjects(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	source := &mockS3Client{
		listObjectsFunc: listing(
			s3client.Object{Key: "src/a.txt", Size: 4, ETag: `"X"`, LastModified: modified},
		),
		getObjectStreamFunc: func(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data")), nil
		},
	}

	var mu sync.Mutex
	var putKeys []string
	dest := &mockS3Client{
		listObjectsFunc: listing(),
		putObjectStreamFunc: func(ctx context.Context, req *s3client.PutObjectRequest) error {
			if _, err := io.Copy(io.Discard, req.Body); err != nil {
				return err
			}
			mu.Lock()
			putKeys = append(putKeys, req.Bucket+"/"+req.Key)
			mu.Unlock()
			return nil
		},
	}

	s := New(source, dest, Options{Logger: &logger.NullLogger{}})
	result, err := s.Run(context.Background(), srcLoc, dstLoc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != executor.StateCompleted {
		t.Errorf("State = %q, want %q", result.State, executor.StateCompleted)
	}
	if len(putKeys) != 1 || putKeys[0] != "dst-bkt/dst/a.txt" {
		t.Errorf("putKeys = %v, want [dst-bkt/dst/a.txt]", putKeys)
	}
	if result.Stats.ProcessedFiles != 1 || result.Stats.ProcessedSize != 4 {
		t.Errorf("stats = %+v, want 1 file / 4 bytes processed", result.Stats)
	}
}

func TestRunNothingToTransfer(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	source := &mockS3Client{
		listObjectsFunc: listing(
			s3client.Object{Key: "src/b.csv", Size: 50, ETag: `"Y"`, LastModified: modified},
		),
	}
	dest := &mockS3Client{
		listObjectsFunc: listing(
			s3client.Object{Key: "dst/b.csv", Size: 50, ETag: `"Y"`, LastModified: modified},
		),
	}

	s := New(source, dest, Options{Logger: &logger.NullLogger{}})
	result, err := s.Run(context.Background(), srcLoc, dstLoc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.State != executor.StateCompleted {
		t.Errorf("State = %q, want %q", result.State, executor.StateCompleted)
	}
	if result.Stats.SkippedFiles != 1 || result.Stats.SkippedSize != 50 {
		t.Errorf("stats = %+v, want 1 file / 50 bytes skipped", result.Stats)
	}
	if result.Stats.ProcessedFiles != 0 {
		t.Errorf("ProcessedFiles = %d, want 0", result.Stats.ProcessedFiles)
	}
}

func TestRunSourceListingFailureIsFatal(t *testing.T) {
	listErr := errors.New("unauthorized")
	source := &mockS3Client{
		listObjectsFunc: func(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.Object, error) {
			return nil, listErr
		},
	}
	dest := &mockS3Client{listObjectsFunc: listing()}

	s := New(source, dest, Options{Logger: &logger.NullLogger{}})
	result, err := s.Run(context.Background(), srcLoc, dstLoc)
	if !errors.Is(err, listErr) {
		t.Fatalf("error = %v, want wrapped %v", err, listErr)
	}
	if result == nil || result.State != executor.StateAborted {
		t.Errorf("result = %+v, want best-effort aborted result", result)
	}
}

func TestRunReporterRendersDuringTransfer(t *testing.T) {
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	release := make(chan struct{})
	source := &mockS3Client{
		listObjectsFunc: listing(
			s3client.Object{Key: "src/a.txt", Size: 1, ETag: `"X"`, LastModified: modified},
		),
		getObjectStreamFunc: func(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("x")), nil
		},
	}
	dest := &mockS3Client{
		listObjectsFunc: listing(),
		putObjectStreamFunc: func(ctx context.Context, req *s3client.PutObjectRequest) error {
			<-release
			_, err := io.Copy(io.Discard, req.Body)
			return err
		},
	}

	rendered := make(chan struct{})
	var once sync.Once
	s := New(source, dest, Options{
		Logger: &logger.NullLogger{},
		Render: func(stats progress.Stats) {
			once.Do(func() {
				close(rendered)
				close(release)
			})
		},
	})

	result, err := s.Run(context.Background(), srcLoc, dstLoc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	select {
	case <-rendered:
	default:
		t.Error("reporter never rendered during the transfer")
	}
	if result.State != executor.StateCompleted {
		t.Errorf("State = %q, want %q", result.State, executor.StateCompleted)
	}
}
