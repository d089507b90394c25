package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/google/uuid"
)

const defaultMaxEntries = 200

// Service handles activity log operations.
type Service struct {
	docs       *repository.DocumentStore
	maxEntries int
	notifier   Notifier
	now        func() time.Time
	logger     *slog.Logger
}

// NewService creates a new activity service keeping at most maxEntries.
func NewService(docs *repository.DocumentStore, maxEntries int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Service{
		docs:       docs,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
}

// SetNotifier registers where stored entries are published.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Log appends an entry, assigning its ID and time when missing. The oldest
// entries are dropped once the log is full.
func (s *Service) Log(ctx context.Context, entry Entry) error {
	if entry.Type == "" {
		return ErrInvalidInput
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}

	_, err := repository.Update(ctx, s.docs, LogKey, func(entries []Entry, _ bool) ([]Entry, error) {
		entries = append(entries, entry)
		if over := len(entries) - s.maxEntries; over > 0 {
			entries = entries[over:]
		}
		return entries, nil
	})
	if err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Publish(entry)
	}
	return nil
}

// Recent lists entries newest first.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Entry, error) {
	entries, _, err := repository.Load[[]Entry](ctx, s.docs, LogKey)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	out := make([]Entry, 0, min(limit, len(entries)))
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		if opts.Type != nil && entries[i].Type != *opts.Type {
			continue
		}
		out = append(out, entries[i])
	}
	return out, nil
}
