package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
)

// MergeResponse is returned by both ingestion routes.
type MergeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	workflow.Result
}

// WorkflowDataResponse wraps the stored collection.
type WorkflowDataResponse struct {
	Data workflow.Collection `json:"data"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// TimeSavedRequest is the body of POST /rbm-time-saved.
type TimeSavedRequest struct {
	ASINCount int `json:"asinCount"`
}

// TimeSavedResponse reports an applied counter increment.
type TimeSavedResponse struct {
	Success bool `json:"success"`
	timesaved.Update
}

// FeedbackResponse acknowledges stored feedback.
type FeedbackResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// handleIngestWorkflow merges a batch pushed by the pipeline.
// @Summary Ingest workflow records
// @Description Merge an array, object, or {"data": ...} wrapper into the stored collection keyed by PB C-ASIN
// @Tags workflow
// @Accept json
// @Produce json
// @Success 200 {object} MergeResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /workflow-data [post]
func (s *Server) handleIngestWorkflow(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes))
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to process data")
		return
	}

	result, err := s.services.Workflow.Ingest(r.Context(), body)
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to process data")
		return
	}

	respond(w, http.StatusOK, MergeResponse{
		Success: true,
		Message: "Workflow data received and merged",
		Result:  result,
	})
}

// handleListWorkflow returns the stored collection.
// @Summary List workflow records
// @Tags workflow
// @Produce json
// @Success 200 {object} WorkflowDataResponse
// @Router /workflow-data [get]
func (s *Server) handleListWorkflow(w http.ResponseWriter, r *http.Request) {
	records, err := s.services.Workflow.List(r.Context())
	if err != nil {
		s.logger.Warn("reading workflow data failed, serving empty collection", "error", err)
		records = workflow.Collection{}
	}
	respond(w, http.StatusOK, WorkflowDataResponse{Data: records})
}

// handleClearWorkflow empties the stored collection.
// @Summary Clear workflow records
// @Tags workflow
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} errorResponse
// @Router /workflow-data [delete]
func (s *Server) handleClearWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Workflow.Clear(r.Context()); err != nil {
		respondError(w, r, s.logger, err, "Failed to clear data")
		return
	}
	respond(w, http.StatusOK, MessageResponse{Success: true, Message: "All workflow data cleared"})
}

// handleUpload merges an uploaded CSV or JSON file.
// @Summary Upload workflow file
// @Description Parse a .csv or .json file and merge its records; the time-saved counter is updated in the background
// @Tags workflow
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or JSON file"
// @Success 200 {object} MergeResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /upload-data [post]
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: %v", workflow.ErrMissingFile, err)
		}
		respondError(w, r, s.logger, err, "Failed to process file")
		return
	}
	defer file.Close()

	result, err := s.services.Workflow.Upload(r.Context(), header.Filename, file)
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to process file")
		return
	}

	respond(w, http.StatusOK, MergeResponse{
		Success: true,
		Message: "File uploaded and data merged successfully",
		Result:  result,
	})
}

// handleWorkflowStats summarises the stored collection.
// @Summary Workflow statistics
// @Tags workflow
// @Produce json
// @Success 200 {object} workflow.Stats
// @Failure 500 {object} errorResponse
// @Router /workflow-stats [get]
func (s *Server) handleWorkflowStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Workflow.Stats(r.Context())
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to compute statistics")
		return
	}
	respond(w, http.StatusOK, stats)
}

// handleGetTimeSaved returns the time-saved counter.
// @Summary Get time saved
// @Tags time-saved
// @Produce json
// @Success 200 {object} timesaved.Counter
// @Router /rbm-time-saved [get]
func (s *Server) handleGetTimeSaved(w http.ResponseWriter, r *http.Request) {
	counter, err := s.services.TimeSaved.Get(r.Context())
	if err != nil {
		s.logger.Warn("reading time saved failed, serving zero counter", "error", err)
		counter = timesaved.Counter{}
	}
	respond(w, http.StatusOK, counter)
}

// handleRecordTimeSaved adds a run's items to the counter.
// @Summary Record time saved
// @Tags time-saved
// @Accept json
// @Produce json
// @Param request body TimeSavedRequest true "Processed item count"
// @Success 200 {object} TimeSavedResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /rbm-time-saved [post]
func (s *Server) handleRecordTimeSaved(w http.ResponseWriter, r *http.Request) {
	var req TimeSavedRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, s.logger, err, "Failed to update RBM time saved")
		return
	}

	update, err := s.services.TimeSaved.Record(r.Context(), req.ASINCount)
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to update RBM time saved")
		return
	}
	respond(w, http.StatusOK, TimeSavedResponse{Success: true, Update: update})
}

// handleListFeedback returns all feedback in submission order.
// @Summary List feedback
// @Tags feedback
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} errorResponse
// @Router /feedback [get]
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Feedback.List(r.Context())
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to read feedback")
		return
	}
	respond(w, http.StatusOK, entries)
}

// handleSubmitFeedback appends one feedback entry.
// @Summary Submit feedback
// @Tags feedback
// @Accept json
// @Produce json
// @Success 200 {object} FeedbackResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /feedback [post]
func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var entry feedback.Entry
	if err := decodeBody(r, &entry); err != nil {
		respondError(w, r, s.logger, err, "Failed to save feedback")
		return
	}

	saved, err := s.services.Feedback.Submit(r.Context(), entry)
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to save feedback")
		return
	}
	respond(w, http.StatusOK, FeedbackResponse{Success: true, ID: saved.ID})
}

// handleActivity lists recent writes, newest first.
// @Summary Recent activity
// @Tags activity
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Param type query string false "Only entries of this type"
// @Success 200 {array} activity.Entry
// @Failure 400 {object} errorResponse
// @Router /activity [get]
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	var opts activity.ListOptions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, r, s.logger, fmt.Errorf("%w: limit must be a non-negative integer", errInvalidBody), "")
			return
		}
		opts.Limit = limit
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ := activity.Type(raw)
		opts.Type = &typ
	}

	entries, err := s.services.Activity.Recent(r.Context(), opts)
	if err != nil {
		respondError(w, r, s.logger, err, "Failed to read activity")
		return
	}
	respond(w, http.StatusOK, entries)
}

// handleConfigStatus reports how storage is configured.
// @Summary Storage configuration status
// @Tags system
// @Produce json
// @Success 200 {object} ConfigStatus
// @Router /config-status [get]
func (s *Server) handleConfigStatus(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, s.opts.Status)
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
