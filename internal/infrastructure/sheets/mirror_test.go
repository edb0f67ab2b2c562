package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdugdh24/yuelao-backend/internal/config"
	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/repository"
	"github.com/gdugdh24/yuelao-backend/internal/repository/memory"
	"github.com/gdugdh24/yuelao-backend/internal/repository/repositorytest"
)

type webhook struct {
	mu       sync.Mutex
	status   int
	block    chan struct{}
	received []map[string]any
}

func (w *webhook) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	w.mu.Lock()
	w.received = append(w.received, body)
	status := w.status
	block := w.block
	w.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}

	if status == 0 {
		status = http.StatusOK
	}
	rw.WriteHeader(status)
}

func (w *webhook) requests() []map[string]any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]map[string]any(nil), w.received...)
}

func newRecord() *domain.SubmissionRecord {
	return &domain.SubmissionRecord{
		ID:               uuid.New(),
		SubmissionID:     uuid.New(),
		CreatedAt:        time.Now().UTC(),
		RelationshipGoal: domain.GoalCasualPartner,
		Profile:          repositorytest.SampleProfile(),
	}
}

func newMirror(t *testing.T, hook *webhook, next repository.SubmissionRepository, timeout time.Duration) *Mirror {
	t.Helper()
	srv := httptest.NewServer(hook)
	t.Cleanup(srv.Close)
	m := NewMirror(next, config.SheetsConfig{WebhookURL: srv.URL, Timeout: timeout}, srv.Client(), nil)
	t.Cleanup(m.Close)
	return m
}

func TestMirror_ForwardsWithoutPhoto(t *testing.T) {
	hook := &webhook{}
	next := memory.NewSubmissionRepository()
	m := newMirror(t, hook, next, time.Second)

	record := newRecord()
	require.NoError(t, m.Append(context.Background(), record))
	m.Close()

	received := hook.requests()
	require.Len(t, received, 1)
	profile, ok := received[0]["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "陳小美", profile["name"])
	assert.NotContains(t, profile, "photo")

	// the archive itself keeps the photo
	records, err := next.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.Profile.Photo, records[0].Profile.Photo)
	assert.NotEmpty(t, record.Profile.Photo)
}

func TestMirror_WebhookFailureIsSwallowed(t *testing.T) {
	hook := &webhook{status: http.StatusInternalServerError}
	next := memory.NewSubmissionRepository()
	m := newMirror(t, hook, next, time.Second)

	require.NoError(t, m.Append(context.Background(), newRecord()))
	m.Close()

	assert.Len(t, hook.requests(), 1)
	records, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMirror_SlowWebhookDoesNotDelayAppend(t *testing.T) {
	release := make(chan struct{})
	hook := &webhook{block: release}
	m := newMirror(t, hook, memory.NewSubmissionRepository(), 5*time.Second)

	done := make(chan error, 1)
	go func() { done <- m.Append(context.Background(), newRecord()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("append waited for the webhook")
	}

	close(release)
	m.Close()
	assert.Len(t, hook.requests(), 1)
}

func TestMirror_ForwardOutlivesCallerContext(t *testing.T) {
	hook := &webhook{}
	m := newMirror(t, hook, memory.NewSubmissionRepository(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Append(ctx, newRecord()))
	cancel()
	m.Close()

	assert.Len(t, hook.requests(), 1)
}

func TestMirror_TimeoutBoundsForward(t *testing.T) {
	hook := &webhook{block: make(chan struct{})}
	m := newMirror(t, hook, memory.NewSubmissionRepository(), 50*time.Millisecond)

	require.NoError(t, m.Append(context.Background(), newRecord()))

	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("forward ignored its timeout")
	}
}

func TestMirror_AppendAfterCloseIsStoredOnly(t *testing.T) {
	hook := &webhook{}
	next := memory.NewSubmissionRepository()
	m := newMirror(t, hook, next, time.Second)
	m.Close()

	require.NoError(t, m.Append(context.Background(), newRecord()))
	assert.Empty(t, hook.requests())

	records, err := next.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

type brokenArchive struct {
	repository.SubmissionRepository
}

func (brokenArchive) Append(context.Context, *domain.SubmissionRecord) error {
	return errors.New("connection refused")
}

func TestMirror_ArchiveFailureSkipsWebhook(t *testing.T) {
	hook := &webhook{}
	m := newMirror(t, hook, brokenArchive{}, time.Second)

	assert.EqualError(t, m.Append(context.Background(), newRecord()), "connection refused")
	m.Close()
	assert.Empty(t, hook.requests())
}
