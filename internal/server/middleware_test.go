package server

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsiec/smpte/internal/config"
	"github.com/zsiec/smpte/internal/errors"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t, testServerConfig())

	handler := s.requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	}))

	rr := serve(handler, http.MethodGet, "/test")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "test-request-id", rr.Header().Get("X-Request-ID"))
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, testServerConfig())
	handler := s.corsMiddleware(okHandler())

	rr := serve(handler, http.MethodGet, "/test")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")

	rr = serve(handler, http.MethodOptions, "/test")
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(t, testServerConfig())
	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := serve(handler, http.MethodGet, "/test")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), string(errors.ErrorTypeInternal))
}

func TestRouteLabel(t *testing.T) {
	router := mux.NewRouter()
	var got string
	router.HandleFunc("/api/v1/generators/{id}", func(w http.ResponseWriter, r *http.Request) {
		got = routeLabel(r)
	})

	serve(router, http.MethodGet, "/api/v1/generators/studio-a")
	assert.Equal(t, "/api/v1/generators/{id}", got)

	assert.Equal(t, "unmatched", routeLabel(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

func TestClientKey(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{"remote with port", "10.0.0.1:5000", "", "10.0.0.1"},
		{"ipv6 with port", "[::1]:5000", "", "::1"},
		{"forwarded chain", "10.0.0.1:5000", "203.0.113.7, 10.0.0.1", "203.0.113.7"},
		{"bare address", "10.0.0.9", "", "10.0.0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, clientKey(req))
		})
	}
}

func TestClientLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2})
	l.now = func() time.Time { return now }

	ok, _ := l.allow("a")
	assert.True(t, ok)
	ok, _ = l.allow("a")
	assert.True(t, ok)

	ok, wait := l.allow("a")
	assert.False(t, ok)
	assert.InDelta(t, time.Second.Seconds(), wait.Seconds(), 0.01)

	ok, _ = l.allow("b")
	assert.True(t, ok, "clients have independent buckets")

	now = now.Add(time.Second)
	ok, _ = l.allow("a")
	assert.True(t, ok, "token refills after one second")
}

func TestClientLimiter_Eviction(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newClientLimiter(config.RateLimitConfig{RequestsPerSecond: 10, Burst: 10, MaxClients: 2})
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(time.Second)
	l.allow("b")
	now = now.Add(time.Second)
	l.allow("c")

	assert.Equal(t, 2, l.size())
	l.mu.Lock()
	_, hasA := l.clients["a"]
	l.mu.Unlock()
	assert.False(t, hasA, "least recently seen client is evicted")

	now = now.Add(limiterIdleTimeout + time.Second)
	l.allow("d")
	assert.Equal(t, 1, l.size(), "idle clients are dropped")
}

func TestRateLimitMiddleware(t *testing.T) {
	cfg := testServerConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.5, Burst: 1, MaxClients: 10}
	s := newTestServer(t, cfg)
	handler := s.rateLimitMiddleware(okHandler())

	req := func(path string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		r.RemoteAddr = "192.0.2.1:4000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, r)
		return rr
	}

	assert.Equal(t, http.StatusOK, req("/api/v1/rates/30").Code)

	rr := req("/api/v1/rates/30")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), string(errors.ErrorTypeRateLimit))
	retry, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)

	assert.Equal(t, http.StatusOK, req("/health").Code, "probes bypass the limiter")
}
