package workflow

import (
	"context"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
)

// TimeSavedRecorder is told how many records each upload processed.
type TimeSavedRecorder interface {
	Record(ctx context.Context, count int) (timesaved.Update, error)
}

// ActivityLogger records successful writes.
type ActivityLogger interface {
	Log(ctx context.Context, entry activity.Entry) error
}
