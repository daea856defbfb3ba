package planner

import (
	"time"
)

// Status classifies a source object relative to the destination.
type Status string

const (
	StatusNew      Status = "new"
	StatusUpdated  Status = "updated"
	StatusExisting Status = "existing"
)

// ObjectRecord is one listed object. Immutable once produced by Inventory.
type ObjectRecord struct {
	FullKey      string
	RelPath      string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Item is one object requiring transfer. DestKey is empty for new objects;
// the executor computes it from the destination prefix and the relative path.
type Item struct {
	SourceKey string
	DestKey   string
	Size      int64
	Status    Status
}

// DestinationKey resolves where the item will be written: updates reuse the
// destination's existing key, new objects join the destination prefix with
// the source-relative path.
func (i Item) DestinationKey(srcPrefix, dstPrefix string) string {
	if i.DestKey != "" {
		return i.DestKey
	}
	return dstPrefix + RelativePath(i.SourceKey, srcPrefix)
}

// ExistingItem is an object already identical at the destination. Used only
// for skip accounting, never transferred.
type ExistingItem struct {
	SourceKey string
	DestKey   string
	Size      int64
}

// Plan partitions the source listing into objects to transfer and objects
// already in sync, with aggregate byte totals for each.
type Plan struct {
	Transfers     []Item
	Existing      []ExistingItem
	TransferBytes int64
	ExistingBytes int64
}
