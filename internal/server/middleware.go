package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/vivars7/wsgate/internal/metrics"
	"github.com/vivars7/wsgate/internal/relayerr"
)

// statusRecorder captures the status code written to a ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the status and forwards it.
func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// accessLog logs every request with its relayed status and duration.
func accessLog(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := newStatusRecorder(w)
		start := time.Now()
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", r.RemoteAddr,
		)
	})
}

// globalRateLimiter enforces a gateway-wide request rate using a token
// bucket. rpm is requests per minute, converted to a per-second rate.
type globalRateLimiter struct {
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

func newGlobalRateLimiter(rpm int, m *metrics.Metrics) *globalRateLimiter {
	perSecond := float64(rpm) / 60.0
	burst := rpm / 60
	if burst < 1 {
		burst = 1
	}
	return &globalRateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		metrics: m,
	}
}

// wrap returns a handler that rejects requests over the limit with 429.
func (g *globalRateLimiter) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.limiter.Allow() {
			g.metrics.RecordRateLimitHit()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(relayerr.Response{
				Error:  "rate_limited",
				Detail: "global request limit reached, try again shortly",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
