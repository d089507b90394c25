package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, workflow.ErrInvalidJSON),
		errors.Is(err, workflow.ErrInvalidCSV),
		errors.Is(err, workflow.ErrUnsupportedFileType):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Send objects that carry a \"PB C-ASIN\" field"}
	case errors.Is(err, timesaved.ErrInvalidCount):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Use a count of zero or more"}
	case errors.Is(err, feedback.ErrInvalidType):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Use \"positive\" or \"negative\""}
	case errors.Is(err, repository.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "data was modified concurrently", RecoveryHint: "Retry the call"}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &APIError{Code: "UNAVAILABLE", Message: "storage is busy", RecoveryHint: "Retry the call"}
	default:
		return nil
	}
}

// ErrorResult creates a tool error result with optional recovery hint.
func ErrorResult(msg, hint string) *sdkmcp.CallToolResult {
	text := msg
	if hint != "" {
		text = msg + ". " + hint
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
		IsError: true,
	}
}

// TextResult creates a success result with text content.
func TextResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}},
	}
}

// JSONResult renders v as indented JSON text.
func JSONResult(v any) *sdkmcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ErrorResult("Failed to encode result", "")
	}
	return TextResult(string(data))
}
