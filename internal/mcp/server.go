package mcp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
)

// WorkflowService defines workflow operations needed by MCP.
type WorkflowService interface {
	IngestRecords(ctx context.Context, records []workflow.Record) (workflow.Result, error)
	List(ctx context.Context) (workflow.Collection, error)
	Stats(ctx context.Context) (workflow.Stats, error)
}

// TimeSavedService defines counter operations needed by MCP.
type TimeSavedService interface {
	Get(ctx context.Context) (timesaved.Counter, error)
	Record(ctx context.Context, count int) (timesaved.Update, error)
}

// FeedbackService defines feedback operations needed by MCP.
type FeedbackService interface {
	Submit(ctx context.Context, entry feedback.Entry) (feedback.Entry, error)
	List(ctx context.Context) ([]feedback.Entry, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Workflow  WorkflowService
	TimeSaved TimeSavedService
	Feedback  FeedbackService
	Activity  ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "rbm-dashboard",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.Logger)

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
}
