package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pricegraph/pricegraph/internal/apperror"
	"github.com/pricegraph/pricegraph/internal/logger"
	"github.com/pricegraph/pricegraph/internal/ratelimit"
)

// withRecover catches panics that escape a handler - in particular the
// fill-loop/reduce invariant-violation panics in business/pricegraph/app
// (reducer.go's non-convergence and non-progress guards) - and turns
// them into a logged InternalError response instead of taking down the
// server.
func withRecover(log logger.LoggerInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := apperror.Internal(apperror.CodeInternalError, r.URL.Path, fmt.Errorf("panic: %v", rec))
				log.Error(r.Context(), "handler panicked", "error", err.ToLog())
				writeError(w, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func withRateLimit(limiter *ratelimit.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withLogging(log logger.LoggerInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
