package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeBody(t *testing.T, w *httptest.ResponseRecorder) statusResponse {
	t.Helper()
	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := probeBody(t, w)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")
}

func TestReadyEndpoint_AfterSetReady(t *testing.T) {
	h := New()
	h.SetReady(true)

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", probeBody(t, w).Status)
}

func TestLiveEndpoint_NoChecks(t *testing.T) {
	h := New()

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheck_FailureThreshold(t *testing.T) {
	c := &check{name: "db", timeout: time.Second, healthy: true, fn: func(context.Context) error {
		return errors.New("connection refused")
	}}

	// One or two failures keep the last known healthy state.
	c.run(context.Background())
	c.run(context.Background())
	healthy, _ := c.state()
	assert.True(t, healthy)

	c.run(context.Background())
	healthy, lastErr := c.state()
	assert.False(t, healthy)
	assert.EqualError(t, lastErr, "connection refused")
}

func TestCheck_RecoversOnSuccess(t *testing.T) {
	fail := true
	c := &check{name: "db", timeout: time.Second, healthy: true, fn: func(context.Context) error {
		if fail {
			return errors.New("down")
		}
		return nil
	}}

	for range failureThreshold {
		c.run(context.Background())
	}
	healthy, _ := c.state()
	require.False(t, healthy)

	fail = false
	c.run(context.Background())
	healthy, _ = c.state()
	assert.True(t, healthy)
}

func TestIsReady_FailingCheckBlocks(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("down")
	})

	require.True(t, h.IsReady(), "checks start healthy")

	for range failureThreshold {
		h.readiness[0].run(context.Background())
	}
	assert.False(t, h.IsReady())
}

func TestStartStop(t *testing.T) {
	h := New()
	ran := make(chan struct{}, 1)
	h.AddLivenessCheck("ping", time.Second, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 50*time.Millisecond)
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("check never ran")
	}
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
