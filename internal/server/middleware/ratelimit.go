package middleware

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/core/admission"
	"github.com/heypico/waypoint/internal/observability"
)

// RateLimit enforces per-client admission on every request it wraps.
// Rejected requests get a 429 with standard rate-limit headers; the
// Retry-After value is rounded up so clients never retry early.
func RateLimit(ctrl *admission.Controller, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := clientIdentity(r)
			result := ctrl.Allow(identity)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Window", strconv.Itoa(int(result.Window.Seconds())))

			if !result.Admitted {
				retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				// Rejections are expected under load; the counter is the
				// signal, the log line is debug-only.
				observability.AdmissionRejectedTotal.Inc()
				logger.Debug("request rejected by rate limiter",
					zap.String("identity", identity),
					zap.String("path", r.URL.Path),
					zap.Int("retry_after", retryAfter))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "rate limit exceeded, retry after " + strconv.Itoa(retryAfter) + "s",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIdentity derives the admission key for a request. A reverse proxy
// in front of the service sets X-Forwarded-For; otherwise the socket peer
// address is used.
func clientIdentity(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
