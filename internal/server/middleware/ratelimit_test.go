package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/heypico/waypoint/internal/core/admission"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitSeparatesClientsByForwardedFor(t *testing.T) {
	ctrl := admission.New(1, time.Minute)
	h := RateLimit(ctrl, zap.NewNop())(okHandler())

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	require.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestRateLimitForwardedForFirstHop(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", clientIdentity(req))
}

func TestRateLimitRejectionLogsAtDebugOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctrl := admission.New(1, time.Minute)
	h := RateLimit(ctrl, zap.New(core))(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	}

	// Throttling is routine load shedding: the counter carries the signal,
	// nothing may land at warn or above.
	require.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	require.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	require.Equal(t, 2, logs.FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestRateLimitRetryAfterRoundedUp(t *testing.T) {
	now := time.Unix(1000, 0)
	ctrl := admission.New(1, time.Minute, admission.WithClock(func() time.Time { return now }))
	h := RateLimit(ctrl, zap.NewNop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	now = now.Add(59*time.Second + 500*time.Millisecond)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
}
