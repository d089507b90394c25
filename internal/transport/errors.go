package transport

import (
	"context"
	"errors"
	"net/http"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/repository"
)

// errInvalidBody is returned when a request body can't be decoded.
var errInvalidBody = errors.New("invalid request body")

var badRequest = []error{
	errInvalidBody,
	workflow.ErrMissingFile,
	workflow.ErrUnsupportedFileType,
	workflow.ErrInvalidCSV,
	workflow.ErrInvalidJSON,
	timesaved.ErrInvalidCount,
	feedback.ErrInvalidType,
	activity.ErrInvalidInput,
	repository.ErrInvalidInput,
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
