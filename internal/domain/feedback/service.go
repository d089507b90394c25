package feedback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/repository"
	"go.jetify.com/typeid"
)

// Service manages the append-only feedback log.
type Service struct {
	docs       *repository.DocumentStore
	activities ActivityLogger
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a feedback service. activities may be nil.
func NewService(docs *repository.DocumentStore, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		docs:       docs,
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

// Submit appends entry with a fresh ID and submission time. Entries are
// never deduplicated.
func (s *Service) Submit(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Type != "" && entry.Type != KindPositive && entry.Type != KindNegative {
		return Entry{}, ErrInvalidType
	}

	id, err := typeid.WithPrefix("fb")
	if err != nil {
		return Entry{}, fmt.Errorf("generating feedback id: %w", err)
	}
	entry.ID = id.String()
	entry.SubmittedAt = s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")

	_, err = repository.Update(ctx, s.docs, Key, func(entries []Entry, _ bool) ([]Entry, error) {
		return append(entries, entry), nil
	})
	if err != nil {
		return Entry{}, fmt.Errorf("saving feedback: %w", err)
	}

	if s.activities != nil {
		err := s.activities.Log(ctx, activity.Entry{
			Type:    activity.TypeFeedbackSubmitted,
			Summary: fmt.Sprintf("%s feedback for %s", entry.Type, entry.ASIN),
			Details: map[string]any{"id": entry.ID, "asin": entry.ASIN},
		})
		if err != nil {
			s.logger.Warn("failed to log activity", "type", activity.TypeFeedbackSubmitted, "error", err)
		}
	}

	return entry, nil
}

// List returns every stored entry in submission order.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, _, err := repository.Load[[]Entry](ctx, s.docs, Key)
	if err != nil {
		return nil, fmt.Errorf("reading feedback: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}
