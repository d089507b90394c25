package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps err to a status. Client errors carry the error text;
// server errors carry fallback and are logged.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusConflict:
		message = "data was modified concurrently, please retry"
	case http.StatusServiceUnavailable:
		message = "request cancelled while waiting for storage"
	case http.StatusInternalServerError:
		message = fallback
	}

	if status >= http.StatusInternalServerError || status == http.StatusConflict {
		logger.Error(fallback, "error", err, "request_id", RequestIDFromContext(r.Context()))
	}
	respond(w, status, errorResponse{Success: false, Error: message})
}
