package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/feedback"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server   *httptest.Server
	workflow *workflow.Service
	activity *activity.Service
	hub      *Hub
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	docs := repository.NewDocumentStore(repository.NewMemoryStore(), repository.DocumentOptions{}, nil)
	acts := activity.NewService(docs, 100, nil)
	saved := timesaved.NewService(docs, timesaved.Options{MinutesPerItem: 15, CountEmptyRuns: true}, acts, nil)
	wf := workflow.NewService(docs, saved, acts, nil)
	fb := feedback.NewService(docs, acts, nil)
	hub := NewHub(nil)
	acts.SetNotifier(hub)

	router := NewServer(Services{
		Workflow:  wf,
		TimeSaved: saved,
		Feedback:  fb,
		Activity:  acts,
	}, Options{
		Status: ConfigStatus{Backend: "memory", Region: "us-east-2"},
		Events: hub,
	})
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
		wf.Wait()
	})
	return testEnv{server: server, workflow: wf, activity: acts, hub: hub}
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func upload(t *testing.T, url, field, filename, content string, out any) int {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHTTPServer_Health(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, "ok", string(body))
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_RequestIDEchoed(t *testing.T) {
	env := newTestEnv(t)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestID_GeneratedIDVisibleDownstream(t *testing.T) {
	var seenHeader, seenCtx string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenHeader = r.Header.Get(RequestIDHeader)
		seenCtx = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))

	require.NotEmpty(t, seenHeader)
	require.Equal(t, seenHeader, seenCtx)
	require.Equal(t, seenHeader, rec.Header().Get(RequestIDHeader))
}

func TestHTTPServer_IngestAndList(t *testing.T) {
	env := newTestEnv(t)

	var merged MergeResponse
	status := doJSON(t, http.MethodPost, env.server.URL+"/workflow-data",
		`{"data":[{"PB C-ASIN":"A1","Status":"Price Match"},{"PB C-ASIN":"A2"}]}`, &merged)
	require.Equal(t, http.StatusOK, status)
	require.True(t, merged.Success)
	require.Equal(t, "Workflow data received and merged", merged.Message)
	require.Equal(t, workflow.Result{RecordCount: 2, TotalRecords: 2, NewCount: 2}, merged.Result)

	status = doJSON(t, http.MethodPost, env.server.URL+"/api/workflow-data", `{"PB C-ASIN":"A1"}`, &merged)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, workflow.Result{RecordCount: 1, TotalRecords: 2, UpdatedCount: 1}, merged.Result)

	var list struct {
		Data []map[string]any `json:"data"`
	}
	status = doJSON(t, http.MethodGet, env.server.URL+"/api/workflow-data", "", &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Data, 2)
	require.Equal(t, "A1", list.Data[0]["PB C-ASIN"])
	require.Equal(t, "pipeline", list.Data[0]["_source"])
	require.NotContains(t, list.Data[0], "Status", "re-ingest replaces the whole record")
}

func TestHTTPServer_ListEmpty(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/workflow-data")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.JSONEq(t, `{"data":[]}`, string(body))
}

func TestHTTPServer_IngestMalformed(t *testing.T) {
	env := newTestEnv(t)

	var errBody errorResponse
	status := doJSON(t, http.MethodPost, env.server.URL+"/workflow-data", `{"data":`, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.False(t, errBody.Success)
	require.Contains(t, errBody.Error, "invalid JSON payload")
}

func TestHTTPServer_UploadCSVUpdatesCounter(t *testing.T) {
	env := newTestEnv(t)

	var merged MergeResponse
	csv := "PB C-ASIN,Title\nA1,\"Widget, large\"\nA2,Gadget\n,orphan\n"
	status := upload(t, env.server.URL+"/upload-data", "file", "batch.csv", csv, &merged)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "File uploaded and data merged successfully", merged.Message)
	require.Equal(t, workflow.Result{RecordCount: 2, TotalRecords: 2, NewCount: 2}, merged.Result)

	env.workflow.Wait()

	var counter timesaved.Counter
	status = doJSON(t, http.MethodGet, env.server.URL+"/rbm-time-saved", "", &counter)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 30, counter.TotalMinutes)
	require.Equal(t, 1, counter.ExecutionCount)
}

func TestHTTPServer_UploadRejected(t *testing.T) {
	cases := []struct {
		name     string
		field    string
		filename string
		content  string
		contains string
	}{
		{"missing file", "", "", "", "no file provided"},
		{"wrong field", "upload", "batch.csv", "PB C-ASIN\nA1\n", "no file provided"},
		{"unsupported", "file", "batch.xlsx", "data", "unsupported file type"},
		{"header only", "file", "batch.csv", "PB C-ASIN,Title\n", "CSV file is empty or invalid"},
		{"bad json", "file", "batch.json", "[{", "invalid JSON payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			var errBody errorResponse
			status := upload(t, env.server.URL+"/upload-data", tc.field, tc.filename, tc.content, &errBody)
			require.Equal(t, http.StatusBadRequest, status)
			require.False(t, errBody.Success)
			require.Contains(t, errBody.Error, tc.contains)
		})
	}
}

func TestHTTPServer_Clear(t *testing.T) {
	env := newTestEnv(t)
	doJSON(t, http.MethodPost, env.server.URL+"/workflow-data", `[{"PB C-ASIN":"A1"}]`, nil)

	var msg MessageResponse
	status := doJSON(t, http.MethodDelete, env.server.URL+"/workflow-data", "", &msg)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, MessageResponse{Success: true, Message: "All workflow data cleared"}, msg)

	var list WorkflowDataResponse
	doJSON(t, http.MethodGet, env.server.URL+"/workflow-data", "", &list)
	require.Empty(t, list.Data)
}

func TestHTTPServer_RecordTimeSaved(t *testing.T) {
	env := newTestEnv(t)

	var resp TimeSavedResponse
	status := doJSON(t, http.MethodPost, env.server.URL+"/api/rbm-time-saved", `{"asinCount":4}`, &resp)
	require.Equal(t, http.StatusOK, status)
	require.True(t, resp.Success)
	require.Equal(t, timesaved.Update{TotalMinutes: 60, AddedMinutes: 60, ExecutionCount: 1}, resp.Update)

	var errBody errorResponse
	status = doJSON(t, http.MethodPost, env.server.URL+"/rbm-time-saved", `{"asinCount":-1}`, &errBody)
	require.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, http.MethodPost, env.server.URL+"/rbm-time-saved", `not json`, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, errBody.Error, "invalid request body")
}

func TestHTTPServer_GetTimeSavedDefault(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/rbm-time-saved")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.JSONEq(t, `{"totalMinutes":0,"executionCount":0}`, string(body))
}

func TestHTTPServer_Feedback(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/feedback")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.JSONEq(t, `[]`, string(body))

	var ack FeedbackResponse
	status := doJSON(t, http.MethodPost, env.server.URL+"/feedback",
		`{"asin":"A1","type":"negative","text":"price too low","reviewer":"ops"}`, &ack)
	require.Equal(t, http.StatusOK, status)
	require.True(t, ack.Success)
	require.True(t, strings.HasPrefix(ack.ID, "fb_"))

	var entries []map[string]any
	status = doJSON(t, http.MethodGet, env.server.URL+"/api/feedback", "", &entries)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)
	require.Equal(t, ack.ID, entries[0]["id"])
	require.Equal(t, "ops", entries[0]["reviewer"])
	require.NotEmpty(t, entries[0]["submittedAt"])

	var errBody errorResponse
	status = doJSON(t, http.MethodPost, env.server.URL+"/feedback", `{"asin":"A1","type":"meh"}`, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestHTTPServer_StatsActivityAndStatus(t *testing.T) {
	env := newTestEnv(t)
	doJSON(t, http.MethodPost, env.server.URL+"/workflow-data",
		`[{"PB C-ASIN":"A1","Status":"Price Match","positioning":"Over-spec"},{"PB C-ASIN":"A2","Price Action":"Revert to Base"}]`, nil)
	doJSON(t, http.MethodDelete, env.server.URL+"/workflow-data", "", nil)
	doJSON(t, http.MethodPost, env.server.URL+"/workflow-data", `[{"PB C-ASIN":"A3","Spec Check":"comparable"}]`, nil)

	var stats workflow.Stats
	status := doJSON(t, http.MethodGet, env.server.URL+"/workflow-stats", "", &stats)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, workflow.Stats{TotalRecords: 1, Comparable: 1}, stats)

	var entries []activity.Entry
	status = doJSON(t, http.MethodGet, env.server.URL+"/activity?limit=2", "", &entries)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeWorkflowIngested, entries[0].Type)
	require.Equal(t, activity.TypeWorkflowCleared, entries[1].Type)

	status = doJSON(t, http.MethodGet, env.server.URL+"/activity?type=workflow_cleared", "", &entries)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)

	status = doJSON(t, http.MethodGet, env.server.URL+"/activity?limit=lots", "", nil)
	require.Equal(t, http.StatusBadRequest, status)

	var cfg ConfigStatus
	status = doJSON(t, http.MethodGet, env.server.URL+"/api/config-status", "", &cfg)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, ConfigStatus{Backend: "memory", Region: "us-east-2"}, cfg)
}

type failingWorkflow struct {
	err error
}

func (f failingWorkflow) Ingest(context.Context, []byte) (workflow.Result, error) {
	return workflow.Result{}, f.err
}

func (f failingWorkflow) Upload(context.Context, string, io.Reader) (workflow.Result, error) {
	return workflow.Result{}, f.err
}

func (f failingWorkflow) List(context.Context) (workflow.Collection, error) { return nil, f.err }
func (f failingWorkflow) Clear(context.Context) error                         { return f.err }
func (f failingWorkflow) Stats(context.Context) (workflow.Stats, error) { return workflow.Stats{}, f.err }

type failingTimeSaved struct {
	err error
}

func (f failingTimeSaved) Get(context.Context) (timesaved.Counter, error) {
	return timesaved.Counter{}, f.err
}

func (f failingTimeSaved) Record(context.Context, int) (timesaved.Update, error) {
	return timesaved.Update{}, f.err
}

type failingFeedback struct {
	err error
}

func (f failingFeedback) Submit(context.Context, feedback.Entry) (feedback.Entry, error) {
	return feedback.Entry{}, f.err
}

func (f failingFeedback) List(context.Context) ([]feedback.Entry, error) { return nil, f.err }

func TestHTTPServer_StorageFailures(t *testing.T) {
	storageErr := errors.New("reading workflow-data.json: access denied")
	server := httptest.NewServer(NewServer(Services{
		Workflow:  failingWorkflow{err: storageErr},
		TimeSaved: failingTimeSaved{err: storageErr},
		Feedback:  failingFeedback{err: storageErr},
	}, Options{}))
	t.Cleanup(server.Close)

	var list WorkflowDataResponse
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, server.URL+"/workflow-data", "", &list))
	require.NotNil(t, list.Data)
	require.Empty(t, list.Data)

	var counter timesaved.Counter
	require.Equal(t, http.StatusOK, doJSON(t, http.MethodGet, server.URL+"/rbm-time-saved", "", &counter))
	require.Zero(t, counter)

	var errBody errorResponse
	require.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodGet, server.URL+"/feedback", "", &errBody))
	require.Equal(t, errorResponse{Success: false, Error: "Failed to read feedback"}, errBody)

	require.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodPost, server.URL+"/workflow-data", `[]`, &errBody))
	require.Equal(t, "Failed to process data", errBody.Error)

	require.Equal(t, http.StatusInternalServerError, doJSON(t, http.MethodDelete, server.URL+"/workflow-data", "", &errBody))
	require.Equal(t, "Failed to clear data", errBody.Error)
}

func TestHTTPServer_ConflictAndCancellation(t *testing.T) {
	conflict := httptest.NewServer(NewServer(Services{
		Workflow: failingWorkflow{err: errors.Join(errors.New("merging workflow data"), repository.ErrConflict)},
	}, Options{}))
	t.Cleanup(conflict.Close)

	var errBody errorResponse
	require.Equal(t, http.StatusConflict, doJSON(t, http.MethodPost, conflict.URL+"/workflow-data", `[]`, &errBody))
	require.Contains(t, errBody.Error, "retry")

	cancelled := httptest.NewServer(NewServer(Services{
		Workflow: failingWorkflow{err: errors.Join(errors.New("waiting for write guard"), context.Canceled)},
	}, Options{}))
	t.Cleanup(cancelled.Close)

	require.Equal(t, http.StatusServiceUnavailable, doJSON(t, http.MethodPost, cancelled.URL+"/workflow-data", `[]`, &errBody))
}

func TestHTTPServer_UploadTooLarge(t *testing.T) {
	docs := repository.NewDocumentStore(repository.NewMemoryStore(), repository.DocumentOptions{}, nil)
	wf := workflow.NewService(docs, nil, nil, nil)
	server := httptest.NewServer(NewServer(Services{Workflow: wf}, Options{MaxUploadBytes: 64}))
	t.Cleanup(server.Close)

	status := upload(t, server.URL+"/upload-data", "file", "batch.csv", "PB C-ASIN\n"+strings.Repeat("A1\n", 100), nil)
	require.Contains(t, []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge}, status)

	records, err := wf.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{workflow.ErrMissingFile, http.StatusBadRequest},
		{workflow.ErrInvalidCSV, http.StatusBadRequest},
		{timesaved.ErrInvalidCount, http.StatusBadRequest},
		{feedback.ErrInvalidType, http.StatusBadRequest},
		{repository.ErrConflict, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
