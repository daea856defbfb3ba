package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuya-takeyama/s3hop/pkg/s3client"
	"github.com/yuya-takeyama/s3hop/pkg/s3url"
)

// Inventory enumerates all objects under a location, keyed by relative path.
// The listing is fully paginated by the client; an empty location yields an
// empty map. Raw ETags are commonly quoted by the backend, so surrounding
// quotes are stripped here. Keys whose relative path matches an exclude
// pattern are omitted.
func Inventory(ctx context.Context, client s3client.Client, loc s3url.Location, excludes []string) (map[string]ObjectRecord, error) {
	objects, err := client.ListObjects(ctx, &s3client.ListObjectsRequest{
		Bucket: loc.Bucket,
		Prefix: loc.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", loc, err)
	}

	records := make(map[string]ObjectRecord, len(objects))
	for _, obj := range objects {
		relPath := RelativePath(obj.Key, loc.Prefix)

		excluded, err := isExcluded(relPath, excludes)
		if err != nil {
			return nil, fmt.Errorf("failed to check exclude pattern for %s: %w", relPath, err)
		}
		if excluded {
			continue
		}

		records[relPath] = ObjectRecord{
			FullKey:      obj.Key,
			RelPath:      relPath,
			Size:         obj.Size,
			ETag:         strings.Trim(obj.ETag, `"`),
			LastModified: obj.LastModified,
		}
	}

	return records, nil
}

func isExcluded(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
