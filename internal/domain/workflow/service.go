package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/repository"
)

// Result reports what a merge did.
type Result struct {
	RecordCount  int `json:"recordCount"`
	TotalRecords int `json:"totalRecords"`
	NewCount     int `json:"newASINs"`
	UpdatedCount int `json:"updatedASINs"`
}

// Service runs the read-merge-write cycle over the stored collection.
type Service struct {
	docs       *repository.DocumentStore
	timeSaved  TimeSavedRecorder
	activities ActivityLogger
	now        func() time.Time
	logger     *slog.Logger
	tasks      sync.WaitGroup
}

// NewService creates a workflow service. timeSaved and activities may be nil.
func NewService(docs *repository.DocumentStore, timeSaved TimeSavedRecorder, activities ActivityLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		docs:       docs,
		timeSaved:  timeSaved,
		activities: activities,
		now:        time.Now,
		logger:     logger,
	}
}

// WithClock replaces the time source used for record stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Ingest merges a JSON batch submitted by the pipeline.
func (s *Service) Ingest(ctx context.Context, payload []byte) (Result, error) {
	records, err := DecodePayload(payload)
	if err != nil {
		return Result{}, err
	}
	return s.IngestRecords(ctx, records)
}

// IngestRecords merges already decoded pipeline records.
func (s *Service) IngestRecords(ctx context.Context, records []Record) (Result, error) {
	result, err := s.merge(ctx, records, SourcePipeline)
	if err != nil {
		return Result{}, err
	}
	s.logActivity(ctx, activity.TypeWorkflowIngested, string(SourcePipeline), result)
	return result, nil
}

// Upload parses a CSV or JSON file and merges its records. On success the
// time-saved counter is updated in the background; its failure is logged
// and never reported to the caller.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (Result, error) {
	records, err := ParseUpload(filename, r)
	if err != nil {
		return Result{}, err
	}

	result, err := s.merge(ctx, records, SourceManualUpload)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("upload merged",
		"file", filename,
		"records", result.RecordCount,
		"new", result.NewCount,
		"updated", result.UpdatedCount,
		"total", result.TotalRecords,
	)
	s.logActivity(ctx, activity.TypeWorkflowUploaded, filename, result)
	s.recordTimeSaved(ctx, result.RecordCount)
	return result, nil
}

// List returns the stored collection, empty when nothing is stored.
func (s *Service) List(ctx context.Context) (Collection, error) {
	records, _, err := repository.Load[Collection](ctx, s.docs, DataKey)
	if err != nil {
		return nil, fmt.Errorf("reading workflow data: %w", err)
	}
	if records == nil {
		records = Collection{}
	}
	return records, nil
}

// Get returns the record stored under key.
func (s *Service) Get(ctx context.Context, key string) (Record, bool, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range records {
		if k, ok := Key(rec); ok && k == key {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// Clear replaces the stored collection with an empty one.
func (s *Service) Clear(ctx context.Context) error {
	_, err := repository.Update(ctx, s.docs, DataKey, func(Collection, bool) (Collection, error) {
		return Collection{}, nil
	})
	if err != nil {
		return fmt.Errorf("clearing workflow data: %w", err)
	}
	s.logActivity(ctx, activity.TypeWorkflowCleared, "", Result{})
	return nil
}

// Stats aggregates the stored collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return AggregateStats(records), nil
}

// Wait blocks until background counter updates have finished.
func (s *Service) Wait() {
	s.tasks.Wait()
}

func (s *Service) merge(ctx context.Context, records []Record, source Source) (Result, error) {
	stamp := Stamp{At: s.now(), Source: source}

	var merged MergeResult
	_, err := repository.Update(ctx, s.docs, DataKey, func(current Collection, _ bool) (Collection, error) {
		merged = Merge(current, records, stamp)
		return merged.Merged, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("merging workflow data: %w", err)
	}

	return Result{
		RecordCount:  merged.IncomingCount,
		TotalRecords: len(merged.Merged),
		NewCount:     merged.NewCount,
		UpdatedCount: merged.UpdatedCount,
	}, nil
}

func (s *Service) recordTimeSaved(ctx context.Context, count int) {
	if s.timeSaved == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()
		if _, err := s.timeSaved.Record(ctx, count); err != nil {
			s.logger.Warn("time saved update failed", "count", count, "error", err)
		}
	}()
}

func (s *Service) logActivity(ctx context.Context, typ activity.Type, source string, result Result) {
	if s.activities == nil {
		return
	}

	summary := fmt.Sprintf("Merged %d records (%d new, %d updated)", result.RecordCount, result.NewCount, result.UpdatedCount)
	if typ == activity.TypeWorkflowCleared {
		summary = "Cleared workflow data"
	}
	err := s.activities.Log(ctx, activity.Entry{
		Type:    typ,
		Summary: summary,
		Source:  source,
		Details: map[string]any{
			"recordCount":  result.RecordCount,
			"totalRecords": result.TotalRecords,
			"newASINs":     result.NewCount,
			"updatedASINs": result.UpdatedCount,
		},
	})
	if err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "error", err)
	}
}
