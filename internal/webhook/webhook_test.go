package webhook

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Champ-Deep/LakeStream/internal/model"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecords() []model.ScrapedData {
	return []model.ScrapedData{{ID: "1", Domain: "acme.com", DataType: model.DataTypeArticle, URL: "https://acme.com/a", ScrapedAt: time.Now()}}
}

func TestSendSkipsEmptyRecords(t *testing.T) {
	e := NewExporter(testLogger())
	assert.True(t, e.Send(t.Context(), "https://example.invalid/hook", "manual", "job-1", nil))
}

func TestSendSucceedsOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewExporter(testLogger())
	assert.True(t, e.Send(t.Context(), srv.URL, "manual", "job-1", testRecords()))
}

func TestSendRetriesTransientFailuresThenSucceeds(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewExporter(testLogger())
	assert.True(t, e.Send(t.Context(), srv.URL, "manual", "job-1", testRecords()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestSendReturnsFalseOnPersistentClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	e := NewExporter(testLogger())
	assert.False(t, e.Send(t.Context(), srv.URL, "manual", "job-1", testRecords()))
}
