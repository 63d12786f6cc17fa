package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewRateLimiter(10, time.Minute, 3)

	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"), "burst exhausted")

	// Other clients have their own bucket.
	assert.True(t, limiter.Allow("5.6.7.8"))
}

func TestRateLimitPathsMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := RateLimitPathsMiddleware(limiter, logger, "/api/v1/auth/login")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	do := func(path string) int {
		r := httptest.NewRequest(http.MethodPost, path, nil)
		r.RemoteAddr = "1.2.3.4:5678"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/v1/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/v1/auth/login"))

	// Unlisted paths never hit the limiter.
	assert.Equal(t, http.StatusOK, do("/api/v1/catalog"))
	assert.Equal(t, http.StatusOK, do("/api/v1/catalog"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, "1.2.3.4:5678", "9.9.9.9"},
		{"single forwarded", map[string]string{"X-Forwarded-For": "9.9.9.9"}, "1.2.3.4:5678", "9.9.9.9"},
		{"real ip", map[string]string{"X-Real-IP": "8.8.8.8"}, "1.2.3.4:5678", "8.8.8.8"},
		{"remote addr", nil, "1.2.3.4:5678", "1.2.3.4"},
		{"remote addr no port", nil, "1.2.3.4", "1.2.3.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r))
		})
	}
}
