package s3client

import (
	"context"
	"io"
	"time"
)

// Object is one listed object as returned by the storage backend.
// ETag is the raw value from the backend and may be surrounded by quotes.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ProgressFunc receives incremental byte deltas as an object's bytes are
// transmitted. Implementations must be safe for concurrent use.
type ProgressFunc func(bytesDelta int64)

// Client is the narrow storage capability the sync engine consumes.
// Implementations must be safe for concurrent use by multiple copy workers.
type Client interface {
	ListObjects(ctx context.Context, req *ListObjectsRequest) ([]Object, error)
	GetObjectStream(ctx context.Context, req *GetObjectRequest) (io.ReadCloser, error)
	PutObjectStream(ctx context.Context, req *PutObjectRequest) error
}

type ListObjectsRequest struct {
	Bucket string
	Prefix string
}

type GetObjectRequest struct {
	Bucket string
	Key    string
}

type PutObjectRequest struct {
	Bucket      string
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	// OnBytesWritten, if non-nil, is invoked with byte deltas as the body
	// is transmitted.
	OnBytesWritten ProgressFunc
}
