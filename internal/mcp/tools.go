package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
)

const defaultRecordLimit = 100

type emptyInput struct{}

type ListWorkflowRecordsInput struct {
	ASIN  string `json:"asin,omitempty" jsonschema:"Only return the record with this PB C-ASIN"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum records to return (default 100)"`
}

type ListWorkflowRecordsResult struct {
	Records workflow.Collection `json:"records"`
	Total   int                 `json:"total"`
}

type IngestWorkflowRecordsInput struct {
	Records []map[string]any `json:"records" jsonschema:"Records to merge; each needs a PB C-ASIN field"`
}

type RecordTimeSavedInput struct {
	ASINCount int `json:"asin_count" jsonschema:"Number of items processed by the run"`
}

type ListFeedbackInput struct {
	ASIN string `json:"asin,omitempty" jsonschema:"Only return feedback for this ASIN"`
}

type SubmitFeedbackInput struct {
	ASIN string `json:"asin" jsonschema:"ASIN the feedback is about"`
	Type string `json:"type" jsonschema:"positive or negative"`
	Text string `json:"text,omitempty" jsonschema:"Free-form comment"`
}

type SubmitFeedbackResult struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submittedAt"`
}

type RecentActivityInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 50)"`
	Type  string `json:"type,omitempty" jsonschema:"Only entries of this type"`
}

func registerTools(server *sdkmcp.Server, services Services, logger *slog.Logger) {
	t := &toolHandlers{services: services, logger: logger}

	if services.Workflow != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_workflow_records",
			Description: "List stored workflow records, optionally a single ASIN",
		}, t.listWorkflowRecords)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "ingest_workflow_records",
			Description: "Merge records into the stored collection keyed by PB C-ASIN; later records replace earlier ones",
		}, t.ingestWorkflowRecords)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "workflow_stats",
			Description: "Count price recommendations and spec positioning across stored records",
		}, t.workflowStats)
	}

	if services.TimeSaved != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_time_saved",
			Description: "Get the running time-saved counter",
		}, t.getTimeSaved)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "record_time_saved",
			Description: "Add a run's processed item count to the time-saved counter",
		}, t.recordTimeSaved)
	}

	if services.Feedback != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_feedback",
			Description: "List reviewer feedback in submission order",
		}, t.listFeedback)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "submit_feedback",
			Description: "Record positive or negative feedback on an ASIN's recommendation",
		}, t.submitFeedback)
	}

	if services.Activity != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "recent_activity",
			Description: "List recent writes, newest first",
		}, t.recentActivity)
	}
}

type toolHandlers struct {
	services Services
	logger   *slog.Logger
}

func (t *toolHandlers) listWorkflowRecords(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListWorkflowRecordsInput) (*sdkmcp.CallToolResult, any, error) {
	records, err := t.services.Workflow.List(ctx)
	if err != nil {
		return t.failure("list_workflow_records", err), nil, nil
	}

	if in.ASIN != "" {
		matched := workflow.Collection{}
		for _, rec := range records {
			if key, ok := workflow.Key(rec); ok && key == in.ASIN {
				matched = append(matched, rec)
			}
		}
		records = matched
	}

	total := len(records)
	limit := in.Limit
	if limit <= 0 {
		limit = defaultRecordLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return JSONResult(ListWorkflowRecordsResult{Records: records, Total: total}), nil, nil
}

func (t *toolHandlers) ingestWorkflowRecords(ctx context.Context, _ *sdkmcp.CallToolRequest, in IngestWorkflowRecordsInput) (*sdkmcp.CallToolResult, any, error) {
	if len(in.Records) == 0 {
		return ErrorResult("At least one record is required", "Provide a records array"), nil, nil
	}

	records := make([]workflow.Record, 0, len(in.Records))
	for _, rec := range in.Records {
		records = append(records, workflow.Record(rec))
	}

	result, err := t.services.Workflow.IngestRecords(ctx, records)
	if err != nil {
		return t.failure("ingest_workflow_records", err), nil, nil
	}
	return JSONResult(result), nil, nil
}

func (t *toolHandlers) workflowStats(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	stats, err := t.services.Workflow.Stats(ctx)
	if err != nil {
		return t.failure("workflow_stats", err), nil, nil
	}
	return JSONResult(stats), nil, nil
}

func (t *toolHandlers) getTimeSaved(ctx context.Context, _ *sdkmcp.CallToolRequest, _ emptyInput) (*sdkmcp.CallToolResult, any, error) {
	counter, err := t.services.TimeSaved.Get(ctx)
	if err != nil {
		return t.failure("get_time_saved", err), nil, nil
	}
	return JSONResult(counter), nil, nil
}

func (t *toolHandlers) recordTimeSaved(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordTimeSavedInput) (*sdkmcp.CallToolResult, any, error) {
	update, err := t.services.TimeSaved.Record(ctx, in.ASINCount)
	if err != nil {
		return t.failure("record_time_saved", err), nil, nil
	}
	return JSONResult(update), nil, nil
}

func (t *toolHandlers) listFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListFeedbackInput) (*sdkmcp.CallToolResult, any, error) {
	entries, err := t.services.Feedback.List(ctx)
	if err != nil {
		return t.failure("list_feedback", err), nil, nil
	}
	if in.ASIN != "" {
		matched := []feedback.Entry{}
		for _, e := range entries {
			if e.ASIN == in.ASIN {
				matched = append(matched, e)
			}
		}
		entries = matched
	}
	return JSONResult(entries), nil, nil
}

func (t *toolHandlers) submitFeedback(ctx context.Context, _ *sdkmcp.CallToolRequest, in SubmitFeedbackInput) (*sdkmcp.CallToolResult, any, error) {
	if in.ASIN == "" {
		return ErrorResult("asin is required", ""), nil, nil
	}

	saved, err := t.services.Feedback.Submit(ctx, feedback.Entry{
		ASIN: in.ASIN,
		Type: feedback.Kind(in.Type),
		Text: in.Text,
	})
	if err != nil {
		return t.failure("submit_feedback", err), nil, nil
	}
	return JSONResult(SubmitFeedbackResult{ID: saved.ID, SubmittedAt: saved.SubmittedAt}), nil, nil
}

func (t *toolHandlers) recentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityInput) (*sdkmcp.CallToolResult, any, error) {
	opts := activity.ListOptions{Limit: in.Limit}
	if in.Type != "" {
		typ := activity.Type(in.Type)
		opts.Type = &typ
	}

	entries, err := t.services.Activity.Recent(ctx, opts)
	if err != nil {
		return t.failure("recent_activity", err), nil, nil
	}
	return JSONResult(entries), nil, nil
}

// failure turns err into a tool error the model can read.
func (t *toolHandlers) failure(tool string, err error) *sdkmcp.CallToolResult {
	if apiErr := MapError(err); apiErr != nil {
		return ErrorResult(fmt.Sprintf("%s: %s", apiErr.Code, apiErr.Message), apiErr.RecoveryHint)
	}
	t.logger.Error("tool failed", "tool", tool, "error", err)
	return ErrorResult("Storage error", "The data store may be unavailable")
}
