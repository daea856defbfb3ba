package planner

// BuildPlan reconciles a source listing against a destination listing,
// matching objects by relative path. A source object missing from the
// destination is new; one present with a differing ETag or a strictly newer
// modification time needs updating and carries the destination's existing
// key so the transfer overwrites in place; anything else is already in sync.
// ETag divergence alone is sufficient to trigger an update regardless of
// timestamp ordering.
//
// Objects present only in the destination are never inspected: deletions do
// not propagate. Duplicate relative paths collapse to the last-seen source
// object, matching how the listing map is built. Deterministic, no I/O.
func BuildPlan(source, dest map[string]ObjectRecord) Plan {
	plan := Plan{
		Transfers: []Item{},
		Existing:  []ExistingItem{},
	}

	for relPath, src := range source {
		dst, exists := dest[relPath]
		if !exists {
			plan.Transfers = append(plan.Transfers, Item{
				SourceKey: src.FullKey,
				Size:      src.Size,
				Status:    StatusNew,
			})
			plan.TransferBytes += src.Size
			continue
		}

		if src.ETag != dst.ETag || src.LastModified.After(dst.LastModified) {
			plan.Transfers = append(plan.Transfers, Item{
				SourceKey: src.FullKey,
				DestKey:   dst.FullKey,
				Size:      src.Size,
				Status:    StatusUpdated,
			})
			plan.TransferBytes += src.Size
		} else {
			plan.Existing = append(plan.Existing, ExistingItem{
				SourceKey: src.FullKey,
				DestKey:   dst.FullKey,
				Size:      src.Size,
			})
			plan.ExistingBytes += src.Size
		}
	}

	return plan
}
