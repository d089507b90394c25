// Package app assembles the storage, services and transports from config.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rbm-dashboard/internal/config"
	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/filestore"
	"github.com/ganot/rbm-dashboard/internal/mcp"
	"github.com/ganot/rbm-dashboard/internal/postgres"
	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/ganot/rbm-dashboard/internal/s3store"
	"github.com/ganot/rbm-dashboard/internal/sqlite"
	"github.com/ganot/rbm-dashboard/internal/transport"
)

// Version is reported to MCP clients.
var Version = "dev"

// App holds one process's services. Everything shares a single document
// store and therefore a single write guard.
type App struct {
	Config config.Config
	Logger *slog.Logger

	Docs      *repository.DocumentStore
	Activity  *activity.Service
	TimeSaved *timesaved.Service
	Workflow  *workflow.Service
	Feedback  *feedback.Service
	Hub       *transport.Hub
	MCP       *sdkmcp.Server

	closers []func() error
}

// New opens the configured blob store and builds the services on it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	blobs, closeBlobs, err := OpenBlobStore(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	logger.Info("storage ready",
		"backend", cfg.Storage.Backend,
		"conditional_writes", cfg.Storage.ConditionalWrites,
	)

	return Build(cfg, blobs, logger, closeBlobs), nil
}

// Build wires services over an already opened blob store. closers run on
// Close in order.
func Build(cfg config.Config, blobs repository.BlobStore, logger *slog.Logger, closers ...func() error) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	docs := repository.NewDocumentStore(blobs, repository.DocumentOptions{
		ConditionalWrites: cfg.Storage.ConditionalWrites,
		MaxAttempts:       cfg.Storage.MaxWriteAttempts,
	}, logger)

	activitySvc := activity.NewService(docs, cfg.Activity.MaxEntries, logger)
	timeSavedSvc := timesaved.NewService(docs, timesaved.Options{
		MinutesPerItem: cfg.TimeSaved.MinutesPerItem,
		CountEmptyRuns: cfg.TimeSaved.CountEmptyRuns,
	}, activitySvc, logger)
	workflowSvc := workflow.NewService(docs, timeSavedSvc, activitySvc, logger)
	feedbackSvc := feedback.NewService(docs, activitySvc, logger)

	hub := transport.NewHub(logger)
	activitySvc.SetNotifier(hub)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Docs:      docs,
		Activity:  activitySvc,
		TimeSaved: timeSavedSvc,
		Workflow:  workflowSvc,
		Feedback:  feedbackSvc,
		Hub:       hub,
	}
	for _, c := range closers {
		if c != nil {
			a.closers = append(a.closers, c)
		}
	}

	if cfg.MCP.Enabled {
		a.MCP = mcp.NewServer(mcp.Config{
			Services: mcp.Services{
				Workflow:  workflowSvc,
				TimeSaved: timeSavedSvc,
				Feedback:  feedbackSvc,
				Activity:  activitySvc,
			},
			Version: Version,
			Logger:  logger,
		})
	}
	return a
}

// Handler returns the HTTP router for the dashboard API.
func (a *App) Handler() http.Handler {
	var mcpHandler http.Handler
	if a.MCP != nil {
		mcpHandler = mcp.NewHTTPHandler(a.MCP)
	}
	return transport.NewServer(transport.Services{
		Workflow:  a.Workflow,
		TimeSaved: a.TimeSaved,
		Feedback:  a.Feedback,
		Activity:  a.Activity,
	}, transport.Options{
		MaxUploadBytes: a.Config.Upload.MaxBytes,
		Status:         Status(a.Config.Storage),
		Events:         a.Hub,
		MCP:            mcpHandler,
		Logger:         a.Logger,
	})
}

// Close waits for background counter updates, disconnects event clients
// and releases storage.
func (a *App) Close() error {
	a.Workflow.Wait()
	a.Hub.Close()

	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Status summarises storage settings without exposing secrets.
func Status(cfg config.StorageConfig) transport.ConfigStatus {
	status := transport.ConfigStatus{
		Backend:           cfg.Backend,
		ConditionalWrites: cfg.ConditionalWrites,
	}
	if cfg.Backend == config.BackendS3 {
		status.Bucket = cfg.Bucket
		status.Region = cfg.Region
		status.HasAccessKey = cfg.AccessKeyID != ""
		status.HasSecretKey = cfg.SecretAccessKey != ""
	}
	return status
}

// OpenBlobStore opens the backend named by cfg.Backend. The returned close
// function may be nil.
func OpenBlobStore(ctx context.Context, cfg config.StorageConfig) (repository.BlobStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil, nil

	case config.BackendFile:
		store, err := filestore.New(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.BackendSQLite:
		if err := ensureDBDir(cfg.SQLitePath); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewBlobStore(db), db.Close, nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewBlobStore(db), db.Close, nil

	case config.BackendS3:
		store, err := s3store.New(ctx, s3store.Options{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			Prefix:          cfg.Prefix,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
