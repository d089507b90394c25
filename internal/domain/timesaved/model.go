package timesaved

// Key is the blob holding the counter.
const Key = "rbm-time-saved.json"

// DefaultMinutesPerItem is the time one automated item is assumed to save.
const DefaultMinutesPerItem = 15

// Counter is the running time-saved estimate.
type Counter struct {
	TotalMinutes   int    `json:"totalMinutes"`
	ExecutionCount int    `json:"executionCount"`
	LastUpdated    string `json:"lastUpdated,omitempty"`
}

// Update describes one applied increment.
type Update struct {
	TotalMinutes   int `json:"totalMinutes"`
	AddedMinutes   int `json:"addedMinutes"`
	ExecutionCount int `json:"executionCount"`
}

// Options tunes how increments are applied.
type Options struct {
	MinutesPerItem int
	// CountEmptyRuns increments ExecutionCount even when no items were processed.
	CountEmptyRuns bool
}
