package timesaved

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/repository"
)

// Service maintains the time-saved counter.
type Service struct {
	docs       *repository.DocumentStore
	opts       Options
	activities ActivityLogger
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a counter service. activities may be nil.
func NewService(docs *repository.DocumentStore, opts Options, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MinutesPerItem <= 0 {
		opts.MinutesPerItem = DefaultMinutesPerItem
	}
	return &Service{
		docs:       docs,
		opts:       opts,
		activities: activities,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns the stored counter, or a zero counter if none exists.
func (s *Service) Get(ctx context.Context) (Counter, error) {
	counter, _, err := repository.Load[Counter](ctx, s.docs, Key)
	if err != nil {
		return Counter{}, fmt.Errorf("reading time saved: %w", err)
	}
	return counter, nil
}

// Record adds count items worth of minutes and bumps the execution count.
func (s *Service) Record(ctx context.Context, count int) (Update, error) {
	if count < 0 {
		return Update{}, ErrInvalidCount
	}

	added := count * s.opts.MinutesPerItem
	counter, err := repository.Update(ctx, s.docs, Key, func(c Counter, _ bool) (Counter, error) {
		if count == 0 && !s.opts.CountEmptyRuns {
			return c, nil
		}
		c.TotalMinutes += added
		c.ExecutionCount++
		c.LastUpdated = s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
		return c, nil
	})
	if err != nil {
		return Update{}, fmt.Errorf("recording time saved: %w", err)
	}

	s.logActivity(ctx, count, added)

	return Update{
		TotalMinutes:   counter.TotalMinutes,
		AddedMinutes:   added,
		ExecutionCount: counter.ExecutionCount,
	}, nil
}

func (s *Service) logActivity(ctx context.Context, count, added int) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, activity.Entry{
		Type:    activity.TypeTimeSavedRecorded,
		Summary: fmt.Sprintf("Recorded %d minutes for %d items", added, count),
		Details: map[string]any{"items": count, "addedMinutes": added},
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "type", activity.TypeTimeSavedRecorded, "error", err)
	}
}
