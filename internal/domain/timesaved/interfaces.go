package timesaved

import (
	"context"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
)

// ActivityLogger records successful updates.
type ActivityLogger interface {
	Log(ctx context.Context, entry activity.Entry) error
}
