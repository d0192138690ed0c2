package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/db"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/queue"
	"fieldlex-client/internal/remote"
	"fieldlex-client/internal/store"
	"fieldlex-client/internal/token"
	"fieldlex-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipeline struct {
	svc   *Service
	queue *queue.Offline
	store *store.Submissions
}

func newTestPipeline(t *testing.T, srvURL string) *pipeline {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	repo := db.NewRepository(database)
	q := queue.NewOffline(repo)
	st := store.NewSubmissions(repo)

	cfg := &config.Config{}
	cfg.Remote.BaseURL = srvURL
	cfg.Remote.Timeout = 2 * time.Second
	cfg.Remote.RetryAttempts = 1
	cfg.Remote.RetryDelay = time.Millisecond
	cfg.Remote.SubmissionsEndpoint = "/api/v1/submissions"
	cfg.Remote.UploadEndpoint = "/api/v1/submissions/upload"

	tokens := token.NewStore(filepath.Join(t.TempDir(), "token.json"))
	exec := remote.NewExecutor(cfg, tokens)

	return &pipeline{
		svc:   NewService(cfg, exec, q, st),
		queue: q,
		store: st,
	}
}

func acceptAll(calls *int32) http.HandlerFunc {
	var n int32
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		id := atomic.AddInt32(&n, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "r-" + string(rune('0'+id))})
	}
}

func TestSubmitDeliversAndRecords(t *testing.T) {
	srv := httptest.NewServer(acceptAll(nil))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)
	ctx := context.Background()

	outcome, err := p.svc.Submit(ctx, validForm())
	require.NoError(t, err)
	assert.False(t, outcome.Queued)
	assert.Equal(t, model.SubmissionStatusSynced, outcome.Submission.Status)
	assert.NotEmpty(t, outcome.Submission.RemoteID)

	subs, err := p.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, model.SubmissionStatusSynced, subs[0].Status)

	n, err := p.queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitFallsBackToQueueExactlyOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)
	ctx := context.Background()

	outcome, err := p.svc.Submit(ctx, validForm())
	require.NoError(t, err)
	assert.True(t, outcome.Queued)
	assert.Equal(t, errors.KindServerError, errors.KindOf(outcome.Cause))

	entries, err := p.queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.SubmissionStatusPending, entries[0].Submission.Status)

	subs, err := p.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs, "a failed submission must not reach the store")
}

func TestSubmitValidationMakesNoNetworkCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(acceptAll(&calls))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)

	form := validForm()
	form.RegionalText = "x"

	_, err := p.svc.Submit(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Zero(t, atomic.LoadInt32(&calls))

	n, err := p.queue.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "validation failures are never queued")
}

func TestSubmitClientErrorIsNotQueued(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"unknown village"}`))
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)

	_, err := p.svc.Submit(context.Background(), validForm())
	require.Error(t, err)
	assert.Equal(t, errors.KindClientError, errors.KindOf(err))

	n, qErr := p.queue.Len(context.Background())
	require.NoError(t, qErr)
	assert.Zero(t, n)
}

func TestSyncAllDrainsInOrderAndKeepsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload model.SubmissionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		if payload.RegionalText == "two" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "r-" + payload.RegionalText})
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)
	ctx := context.Background()

	for _, text := range []string{"one", "two", "three"} {
		form := validForm()
		form.RegionalText = text
		_, sub, err := NewBuilder(cfgOf(srv.URL)).Build(form)
		require.NoError(t, err)
		_, err = p.queue.Enqueue(ctx, *sub)
		require.NoError(t, err)
	}

	report, err := p.svc.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.SyncedCount)
	assert.Equal(t, 1, report.ErrorCount)

	entries, err := p.queue.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "two", entries[0].Submission.RegionalText)

	subs, err := p.store.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "one", subs[0].RegionalText)
	assert.Equal(t, "three", subs[1].RegionalText)
	assert.Equal(t, "r-one", subs[0].RemoteID)
}

func TestSyncAllIsNotReentrant(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		<-release
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"r-1"}`))
	}))
	defer srv.Close()

	p := newTestPipeline(t, srv.URL)
	ctx := context.Background()

	_, sub, err := NewBuilder(cfgOf(srv.URL)).Build(validForm())
	require.NoError(t, err)
	_, err = p.queue.Enqueue(ctx, *sub)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.svc.SyncAll(ctx)
	}()

	// Wait for the first pass to be inside the in-flight request.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err = p.svc.SyncAll(ctx)
	require.ErrorIs(t, err, errors.ErrSyncInFlight)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "overlapping sync must not issue calls")

	close(release)
	<-done
}

func cfgOf(srvURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Remote.BaseURL = srvURL
	cfg.Remote.SubmissionsEndpoint = "/api/v1/submissions"
	cfg.Remote.UploadEndpoint = "/api/v1/submissions/upload"
	return cfg
}
