package planner

import (
	"context"
	"fmt"
	"io"

	"github.com/yuya-takeyama/s3hop/pkg/s3client"
)

// mockS3Client is a mock implementation of s3client.Client for testing
type mockS3Client struct {
	listObjectsFunc     func(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.Object, error)
	getObjectStreamFunc func(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error)
	putObjectStreamFunc func(ctx context.Context, req *s3client.PutObjectRequest) error
}

func (m *mockS3Client) ListObjects(ctx context.Context, req *s3client.ListObjectsRequest) ([]s3client.Object, error) {
	if m.listObjectsFunc != nil {
		return m.listObjectsFunc(ctx, req)
	}
	return nil, fmt.Errorf("ListObjects not implemented")
}

func (m *mockS3Client) GetObjectStream(ctx context.Context, req *s3client.GetObjectRequest) (io.ReadCloser, error) {
	if m.getObjectStreamFunc != nil {
		return m.getObjectStreamFunc(ctx, req)
	}
	return nil, fmt.Errorf("GetObjectStream not implemented")
}

func (m *mockS3Client) PutObjectStream(ctx context.Context, req *s3client.PutObjectRequest) error {
	if m.putObjectStreamFunc != nil {
		return m.putObjectStreamFunc(ctx, req)
	}
	return fmt.Errorf("PutObjectStream not implemented")
}
