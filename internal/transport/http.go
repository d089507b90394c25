package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ganot/rbm-dashboard/docs"
	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
)

// WorkflowService defines the workflow operations served over HTTP.
type WorkflowService interface {
	Ingest(ctx context.Context, payload []byte) (workflow.Result, error)
	Upload(ctx context.Context, filename string, r io.Reader) (workflow.Result, error)
	List(ctx context.Context) (workflow.Collection, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (workflow.Stats, error)
}

// TimeSavedService defines counter operations served over HTTP.
type TimeSavedService interface {
	Get(ctx context.Context) (timesaved.Counter, error)
	Record(ctx context.Context, count int) (timesaved.Update, error)
}

// FeedbackService defines feedback operations served over HTTP.
type FeedbackService interface {
	Submit(ctx context.Context, entry feedback.Entry) (feedback.Entry, error)
	List(ctx context.Context) ([]feedback.Entry, error)
}

// ActivityService defines activity operations served over HTTP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains the domain services behind the REST routes.
type Services struct {
	Workflow  WorkflowService
	TimeSaved TimeSavedService
	Feedback  FeedbackService
	Activity  ActivityService
}

// ConfigStatus is what GET /config-status reports. It never carries secrets.
type ConfigStatus struct {
	Backend           string `json:"backend"`
	Bucket            string `json:"bucket,omitempty"`
	Region            string `json:"region,omitempty"`
	HasAccessKey      bool   `json:"hasS3AccessKey"`
	HasSecretKey      bool   `json:"hasS3SecretKey"`
	ConditionalWrites bool   `json:"conditionalWrites"`
}

// Options tunes the router. Zero values are usable.
type Options struct {
	MaxUploadBytes int64
	Status         ConfigStatus
	// Events serves the websocket change feed when set.
	Events http.Handler
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

const defaultMaxUploadBytes = 32 << 20

// Server wires HTTP handlers.
type Server struct {
	services Services
	opts     Options
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware. Every dashboard
// route is served both at the root and under /api.
func NewServer(services Services, opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	srv := &Server{services: services, opts: opts, logger: opts.Logger}

	srv.routes(r)
	r.Route("/api", srv.routes)

	r.Get("/health", srv.handleHealth)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) routes(r chi.Router) {
	r.Get("/workflow-data", s.handleListWorkflow)
	r.Post("/workflow-data", s.handleIngestWorkflow)
	r.Delete("/workflow-data", s.handleClearWorkflow)
	r.Post("/upload-data", s.handleUpload)
	r.Get("/workflow-stats", s.handleWorkflowStats)

	r.Get("/rbm-time-saved", s.handleGetTimeSaved)
	r.Post("/rbm-time-saved", s.handleRecordTimeSaved)

	r.Get("/feedback", s.handleListFeedback)
	r.Post("/feedback", s.handleSubmitFeedback)

	r.Get("/activity", s.handleActivity)
	r.Get("/config-status", s.handleConfigStatus)
	if s.opts.Events != nil {
		r.Handle("/events", s.opts.Events)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
