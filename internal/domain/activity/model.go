package activity

import "time"

// LogKey is the blob holding the activity log.
const LogKey = "activity-log.json"

// Type represents the kind of write that happened
type Type string

const (
	TypeWorkflowIngested  Type = "workflow_ingested"
	TypeWorkflowUploaded  Type = "workflow_uploaded"
	TypeWorkflowCleared   Type = "workflow_cleared"
	TypeTimeSavedRecorded Type = "time_saved_recorded"
	TypeFeedbackSubmitted Type = "feedback_submitted"
)

// Entry represents an event in the activity log
type Entry struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Summary   string         `json:"summary"`
	Source    string         `json:"source,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
