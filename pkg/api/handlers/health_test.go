package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	pingErr error
	lost    chan struct{}
	lostErr error
}

func newFakeChecker() *fakeChecker {
	return &fakeChecker{lost: make(chan struct{})}
}

func (f *fakeChecker) Ping(context.Context) error { return f.pingErr }
func (f *fakeChecker) Lost() <-chan struct{}      { return f.lost }
func (f *fakeChecker) Err() error                 { return f.lostErr }

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestLivenessReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil)
	w := httptest.NewRecorder()

	handler.Liveness(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "healthy", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "peercatalog", data["service"])
}

func TestReadiness(t *testing.T) {
	t.Run("NoCatalog", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler(nil).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "catalog not initialized", decode(t, w).Error)
	})

	t.Run("Healthy", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler(newFakeChecker()).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", decode(t, w).Status)
	})

	t.Run("PingFails", func(t *testing.T) {
		checker := newFakeChecker()
		checker.pingErr = errors.New("connection refused")
		w := httptest.NewRecorder()
		NewHealthHandler(checker).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "connection refused", decode(t, w).Error)
	})

	t.Run("ConnectionLost", func(t *testing.T) {
		checker := newFakeChecker()
		checker.lostErr = errors.New("3 consecutive health checks failed")
		close(checker.lost)
		w := httptest.NewRecorder()
		NewHealthHandler(checker).Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "3 consecutive health checks failed", resp.Error)
	})
}
