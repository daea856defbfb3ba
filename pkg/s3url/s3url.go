package s3url

import (
	"fmt"
	"strings"
)

// Location identifies a bucket plus a key prefix scoping which objects are
// in view. Prefix is normalized to end with "/" unless empty.
type Location struct {
	Bucket string
	Prefix string
}

func (l Location) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Prefix)
}

// Parse parses an S3 URL of the form s3://bucket-name/prefix/ into a Location.
func Parse(url string) (Location, error) {
	if !strings.HasPrefix(url, "s3://") {
		return Location{}, fmt.Errorf("invalid S3 URL %q: must start with s3://", url)
	}

	rest := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(rest, "/", 2)

	bucket := parts[0]
	if bucket == "" {
		return Location{}, fmt.Errorf("invalid S3 URL %q: missing bucket name", url)
	}

	var prefix string
	if len(parts) > 1 {
		prefix = parts[1]
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
	}

	return Location{Bucket: bucket, Prefix: prefix}, nil
}
