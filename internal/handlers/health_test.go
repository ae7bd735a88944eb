package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPinger reports a fixed ping result.
type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func newHealthRouter(handler *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Health)
	router.GET("/health/ready", handler.Ready)
	router.GET("/api/v1/info", handler.Info)
	return router
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(nil, nil, "test")
	router := newHealthRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, HealthResponse{Status: "healthy"}, response)
}

func TestHealthHandler_Ready(t *testing.T) {
	down := errors.New("connection refused")

	tests := []struct {
		name           string
		db             Pinger
		lock           Pinger
		expectedStatus int
		expected       ReadyResponse
	}{
		{
			name:           "database connected without lock backend",
			db:             &stubPinger{},
			expectedStatus: http.StatusOK,
			expected:       ReadyResponse{Status: "ready", Database: "connected"},
		},
		{
			name:           "database and lock backend connected",
			db:             &stubPinger{},
			lock:           &stubPinger{},
			expectedStatus: http.StatusOK,
			expected:       ReadyResponse{Status: "ready", Database: "connected", Lock: "connected"},
		},
		{
			name:           "database down",
			db:             &stubPinger{err: down},
			expectedStatus: http.StatusServiceUnavailable,
			expected:       ReadyResponse{Status: "not_ready", Database: "disconnected"},
		},
		{
			name:           "lock backend down",
			db:             &stubPinger{},
			lock:           &stubPinger{err: down},
			expectedStatus: http.StatusServiceUnavailable,
			expected:       ReadyResponse{Status: "not_ready", Database: "connected", Lock: "disconnected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newHealthRouter(NewHealthHandler(tt.db, tt.lock, "test"))

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response ReadyResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expected, response)
		})
	}
}

func TestHealthHandler_Info(t *testing.T) {
	handler := &HealthHandler{
		startTime: time.Now().Add(-2 * time.Hour),
		env:       "development",
	}
	router := newHealthRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response InfoResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, APIVersion, response.Version)
	assert.Equal(t, "development", response.Environment)
	assert.Equal(t, "2h 0m 0s", response.Uptime)
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "formats seconds only",
			duration: 45 * time.Second,
			expected: "0h 0m 45s",
		},
		{
			name:     "formats hours, minutes and seconds",
			duration: 2*time.Hour + 15*time.Minute + 45*time.Second,
			expected: "2h 15m 45s",
		},
		{
			name:     "formats days",
			duration: 3*24*time.Hour + 5*time.Hour + 30*time.Minute + 15*time.Second,
			expected: "3d 5h 30m 15s",
		},
		{
			name:     "formats zero duration",
			duration: 0,
			expected: "0h 0m 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatUptime(tt.duration))
		})
	}
}

func TestReadyResponse_JSON(t *testing.T) {
	data, err := json.Marshal(ReadyResponse{Status: "ready", Database: "connected"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"ready","database":"connected"}`, string(data))
}
