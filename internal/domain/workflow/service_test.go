package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ganot/rbm-dashboard/internal/domain/activity"
	"github.com/ganot/rbm-dashboard/internal/domain/timesaved"
	"github.com/ganot/rbm-dashboard/internal/domain/workflow"
	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/ganot/rbm-dashboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 2, 3, 4, 5, 6, 789_000_000, time.UTC)

type countRecorder struct {
	mu     sync.Mutex
	counts []int
	err    error
}

func (r *countRecorder) Record(_ context.Context, count int) (timesaved.Update, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, count)
	return timesaved.Update{}, r.err
}

type activityRecorder struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (a *activityRecorder) Log(_ context.Context, entry activity.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

type fixture struct {
	svc   *workflow.Service
	blobs *repository.MemoryStore
	saved *countRecorder
	acts  *activityRecorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	blobs := repository.NewMemoryStore()
	docs := repository.NewDocumentStore(blobs, repository.DocumentOptions{}, nil)
	saved := &countRecorder{}
	acts := &activityRecorder{}
	svc := workflow.NewService(docs, saved, acts, nil).WithClock(func() time.Time { return fixedNow })
	return fixture{svc: svc, blobs: blobs, saved: saved, acts: acts}
}

func TestWorkflowService_ListEmpty(t *testing.T) {
	f := newFixture(t)
	records, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestWorkflowService_Ingest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.svc.Ingest(ctx, []byte(`{"data":[{"PB C-ASIN":"A1","x":1},{"PB C-ASIN":"A2"}]}`))
	require.NoError(t, err)
	require.Equal(t, workflow.Result{RecordCount: 2, TotalRecords: 2, NewCount: 2}, result)

	result, err = f.svc.Ingest(ctx, []byte(`{"PB C-ASIN":"A1","x":2}`))
	require.NoError(t, err)
	require.Equal(t, workflow.Result{RecordCount: 1, TotalRecords: 2, NewCount: 0, UpdatedCount: 1}, result)

	records, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2", records[0].String("x"))
	require.Equal(t, "pipeline", records[0][workflow.FieldSource])
	require.Equal(t, "2026-02-03T04:05:06.789Z", records[0][workflow.FieldLastUpdated])

	f.svc.Wait()
	require.Empty(t, f.saved.counts, "pipeline ingest does not touch the time saved counter")
	require.Len(t, f.acts.entries, 2)
	require.Equal(t, activity.TypeWorkflowIngested, f.acts.entries[0].Type)
}

func TestWorkflowService_IngestMalformed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Ingest(ctx, []byte(`{"data":`))
	require.ErrorIs(t, err, workflow.ErrInvalidJSON)

	_, err = f.blobs.Get(ctx, workflow.DataKey)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWorkflowService_UploadCSV(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Ingest(ctx, []byte(`[{"PB C-ASIN":"A1","x":1}]`))
	require.NoError(t, err)

	csv := "PB C-ASIN,x\nA2,2\nA1,9\n,7\n"
	result, err := f.svc.Upload(ctx, "batch.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Equal(t, workflow.Result{RecordCount: 2, TotalRecords: 2, NewCount: 1, UpdatedCount: 1}, result)

	f.svc.Wait()
	require.Equal(t, []int{2}, f.saved.counts)

	records, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "A1", records[0][workflow.IdentityKey])
	require.Equal(t, "9", records[0]["x"])
	require.Equal(t, "manual_upload", records[0][workflow.FieldSource])
	require.Equal(t, "A2", records[1][workflow.IdentityKey])
}

func TestWorkflowService_UploadJSON(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.svc.Upload(ctx, "batch.json", strings.NewReader(`{"PB C-ASIN":"A1"}`))
	require.NoError(t, err)
	require.Equal(t, 1, result.NewCount)
	f.svc.Wait()
	require.Equal(t, []int{1}, f.saved.counts)
}

func TestWorkflowService_UploadRejectedInputsLeaveDataUntouched(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name     string
		filename string
		body     string
		want     error
	}{
		{"unsupported", "batch.txt", "PB C-ASIN\nA1\n", workflow.ErrUnsupportedFileType},
		{"header only", "batch.csv", "PB C-ASIN,x\n", workflow.ErrInvalidCSV},
		{"bad json", "batch.json", "[{", workflow.ErrInvalidJSON},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Upload(ctx, tc.filename, strings.NewReader(tc.body))
			require.ErrorIs(t, err, tc.want)

			_, err = f.blobs.Get(ctx, workflow.DataKey)
			require.ErrorIs(t, err, repository.ErrNotFound)
			f.svc.Wait()
			require.Empty(t, f.saved.counts)
		})
	}
}

func TestWorkflowService_CounterFailureDoesNotFailUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.saved.err = errors.New("counter unavailable")

	result, err := f.svc.Upload(ctx, "batch.csv", strings.NewReader("PB C-ASIN\nA1\n"))
	require.NoError(t, err)
	require.Equal(t, 1, result.RecordCount)
	f.svc.Wait()
	require.Equal(t, []int{1}, f.saved.counts)
}

func TestWorkflowService_CounterSurvivesRequestCancellation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := f.svc.Upload(ctx, "batch.csv", strings.NewReader("PB C-ASIN\nA1\nA2\n"))
	require.NoError(t, err)
	cancel()

	f.svc.Wait()
	require.Equal(t, []int{2}, f.saved.counts)
}

func TestWorkflowService_Clear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Ingest(ctx, []byte(`[{"PB C-ASIN":"A1"}]`))
	require.NoError(t, err)

	require.NoError(t, f.svc.Clear(ctx))

	obj, err := f.blobs.Get(ctx, workflow.DataKey)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(obj.Body))
	require.Equal(t, activity.TypeWorkflowCleared, f.acts.entries[len(f.acts.entries)-1].Type)
}

func TestWorkflowService_GetAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Ingest(ctx, []byte(`[{"PB C-ASIN":"A1","positioning":"Comparable"},{"PB C-ASIN":"A2","Status":"Price Match"}]`))
	require.NoError(t, err)

	rec, found, err := f.svc.Get(ctx, "A2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Price Match", rec["Status"])

	_, found, err = f.svc.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, workflow.Stats{TotalRecords: 2, PriceMatch: 1, Comparable: 1}, stats)
}

func TestWorkflowService_WriteFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	blobs := &mocks.BlobStore{}
	blobs.On("Get", ctx, workflow.DataKey).Return(nil, repository.ErrNotFound)
	blobs.On("Put", ctx, workflow.DataKey, mock.Anything, repository.PutOptions{}).Return("", errors.New("denied"))
	saved := &countRecorder{}
	svc := workflow.NewService(repository.NewDocumentStore(blobs, repository.DocumentOptions{}, nil), saved, nil, nil)

	_, err := svc.Upload(ctx, "batch.csv", strings.NewReader("PB C-ASIN\nA1\n"))
	require.Error(t, err)
	svc.Wait()
	require.Empty(t, saved.counts)
}

func TestWorkflowService_ReadFailureOnWritePathSurfaces(t *testing.T) {
	ctx := context.Background()
	blobs := &mocks.BlobStore{}
	boom := errors.New("throttled")
	blobs.On("Get", ctx, workflow.DataKey).Return(nil, boom)
	svc := workflow.NewService(repository.NewDocumentStore(blobs, repository.DocumentOptions{}, nil), nil, nil, nil)

	_, err := svc.Ingest(ctx, []byte(`[{"PB C-ASIN":"A1"}]`))
	require.ErrorIs(t, err, boom)
	blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkflowService_ConcurrentIngestsAllLand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := []byte(`{"PB C-ASIN":"A` + string(rune('a'+i)) + `"}`)
			_, err := f.svc.Ingest(ctx, payload)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 25)
}
