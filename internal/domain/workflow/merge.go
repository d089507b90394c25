package workflow

import "time"

// Stamp is applied to every record of one incoming batch.
type Stamp struct {
	At     time.Time
	Source Source
}

// MergeResult is the outcome of merging a batch into a collection.
type MergeResult struct {
	Merged        Collection
	IncomingCount int
	NewCount      int
	UpdatedCount  int
}

// Merge folds incoming into existing keyed by IdentityKey. Existing records
// keep their position, new keys are appended in batch order, and a later
// record with the same key replaces an earlier one. Records without a key
// are dropped from both sides. Neither input is modified.
//
// NewCount counts incoming records whose key was not in existing, so a key
// repeated within one new batch is counted once per record. Without such
// repeats len(Merged) == len(existing deduplicated) + NewCount.
func Merge(existing Collection, incoming []Record, stamp Stamp) MergeResult {
	ts := FormatTimestamp(stamp.At)
	index := make(map[string]int, len(existing)+len(incoming))
	merged := make(Collection, 0, len(existing)+len(incoming))

	for _, rec := range existing {
		key, ok := Key(rec)
		if !ok {
			continue
		}
		if i, seen := index[key]; seen {
			merged[i] = rec
			continue
		}
		index[key] = len(merged)
		merged = append(merged, rec)
	}

	stored := len(merged)

	var result MergeResult
	for _, rec := range incoming {
		key, ok := Key(rec)
		if !ok {
			continue
		}
		result.IncomingCount++

		stamped := rec.Clone()
		stamped[FieldTimestamp] = ts
		stamped[FieldLastUpdated] = ts
		if stamp.Source != "" {
			stamped[FieldSource] = string(stamp.Source)
		}

		i, seen := index[key]
		if !seen || i >= stored {
			result.NewCount++
		}
		if seen {
			merged[i] = stamped
			continue
		}
		index[key] = len(merged)
		merged = append(merged, stamped)
	}

	result.Merged = merged
	result.UpdatedCount = result.IncomingCount - result.NewCount
	return result
}
