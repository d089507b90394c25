package integration_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/testserver"
	"github.com/ganot/rbm-dashboard/internal/transport"
)

func uploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIntegration_PipelineThenUpload(t *testing.T) {
	ts := testserver.New(t)

	var merged transport.MergeResponse
	status := ts.PostJSON(t, "/api/workflow-data", `[
		{"PB C-ASIN":"B001","Status":"Price Match","positioning":"Comparable"},
		{"PB C-ASIN":"B002","Status":"Revert to Base"}
	]`, &merged)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, merged.Success)
	assert.Equal(t, 2, merged.NewCount)
	assert.Equal(t, 2, merged.TotalRecords)

	req := uploadRequest(t, ts.URL("/upload-data"), "review.csv",
		"PB C-ASIN,Status,Notes\nB002,Price Match,\"reviewed, ok\"\nB003,Revert to Base,\n")
	status = ts.Do(t, req, &merged)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "File uploaded and data merged successfully", merged.Message)
	assert.Equal(t, 2, merged.RecordCount)
	assert.Equal(t, 1, merged.NewCount)
	assert.Equal(t, 1, merged.UpdatedCount)
	assert.Equal(t, 3, merged.TotalRecords)

	var data transport.WorkflowDataResponse
	require.Equal(t, http.StatusOK, ts.Get(t, "/workflow-data", &data))
	require.Len(t, data.Data, 3)
	assert.Equal(t, "B001", data.Data[0]["PB C-ASIN"])
	assert.Equal(t, "B002", data.Data[1]["PB C-ASIN"])
	assert.Equal(t, "reviewed, ok", data.Data[1]["Notes"])
	assert.Equal(t, string(workflow.SourceManualUpload), data.Data[1]["_source"])
	assert.Equal(t, string(workflow.SourcePipeline), data.Data[0]["_source"])

	var stats workflow.Stats
	require.Equal(t, http.StatusOK, ts.Get(t, "/api/workflow-stats", &stats))
	assert.Equal(t, workflow.Stats{TotalRecords: 3, PriceMatch: 2, RevertToBase: 1, Comparable: 1}, stats)

	// Only the file upload bumps the counter, in the background.
	ts.App.Workflow.Wait()
	var counter timesaved.Counter
	require.Equal(t, http.StatusOK, ts.Get(t, "/rbm-time-saved", &counter))
	assert.Equal(t, 2*15, counter.TotalMinutes)
	assert.Equal(t, 1, counter.ExecutionCount)
}

func TestIntegration_TimeSavedAndFeedback(t *testing.T) {
	ts := testserver.New(t)

	var update transport.TimeSavedResponse
	require.Equal(t, http.StatusOK, ts.PostJSON(t, "/rbm-time-saved", map[string]any{"asinCount": 4}, &update))
	assert.Equal(t, 60, update.AddedMinutes)
	assert.Equal(t, 60, update.TotalMinutes)

	var apiErr map[string]any
	require.Equal(t, http.StatusBadRequest, ts.PostJSON(t, "/rbm-time-saved", map[string]any{"asinCount": -1}, &apiErr))

	var ack transport.FeedbackResponse
	require.Equal(t, http.StatusOK, ts.PostJSON(t, "/feedback", map[string]any{
		"asin":     "B001",
		"type":     "negative",
		"text":     "price too low",
		"reviewer": "ops",
	}, &ack))
	assert.True(t, ack.Success)
	assert.Contains(t, ack.ID, "fb_")

	var entries []map[string]any
	require.Equal(t, http.StatusOK, ts.Get(t, "/feedback", &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ack.ID, entries[0]["id"])
	assert.Equal(t, "ops", entries[0]["reviewer"])
	assert.NotEmpty(t, entries[0]["submittedAt"])

	var acts []activity.Entry
	require.Equal(t, http.StatusOK, ts.Get(t, "/activity?type=feedback_submitted", &acts))
	require.Len(t, acts, 1)
	assert.Equal(t, activity.TypeFeedbackSubmitted, acts[0].Type)
}

func TestIntegration_ClearKeepsCounter(t *testing.T) {
	ts := testserver.New(t)

	require.Equal(t, http.StatusOK, ts.PostJSON(t, "/workflow-data", `[{"PB C-ASIN":"B001"}]`, nil))
	require.Equal(t, http.StatusOK, ts.PostJSON(t, "/rbm-time-saved", map[string]any{"asinCount": 1}, nil))

	req, err := http.NewRequest(http.MethodDelete, ts.URL("/workflow-data"), nil)
	require.NoError(t, err)
	var msg transport.MessageResponse
	require.Equal(t, http.StatusOK, ts.Do(t, req, &msg))
	assert.Equal(t, "All workflow data cleared", msg.Message)

	var data transport.WorkflowDataResponse
	require.Equal(t, http.StatusOK, ts.Get(t, "/workflow-data", &data))
	assert.Empty(t, data.Data)

	var counter timesaved.Counter
	require.Equal(t, http.StatusOK, ts.Get(t, "/rbm-time-saved", &counter))
	assert.Equal(t, 15, counter.TotalMinutes)
}

func TestIntegration_BadInput(t *testing.T) {
	ts := testserver.New(t)

	var apiErr map[string]any
	assert.Equal(t, http.StatusBadRequest, ts.PostJSON(t, "/workflow-data", `{not json`, &apiErr))

	req := uploadRequest(t, ts.URL("/upload-data"), "notes.txt", "PB C-ASIN\nB001\n")
	assert.Equal(t, http.StatusBadRequest, ts.Do(t, req, &apiErr))

	var data transport.WorkflowDataResponse
	require.Equal(t, http.StatusOK, ts.Get(t, "/workflow-data", &data))
	assert.Empty(t, data.Data)
}

func TestIntegration_ConfigStatusAndHealth(t *testing.T) {
	ts := testserver.New(t)

	resp, err := http.Get(ts.URL("/health"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status transport.ConfigStatus
	require.Equal(t, http.StatusOK, ts.Get(t, "/config-status", &status))
}
