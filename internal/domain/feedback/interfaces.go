package feedback

import (
	"context"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
)

// ActivityLogger records submitted feedback.
type ActivityLogger interface {
	Log(ctx context.Context, entry activity.Entry) error
}
