package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Elangosridhar/Smarttask-analysis/pkg/observability"
	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestContext assigns request and correlation ids, echoes them back and
// logs the request outcome. Panics become 500 responses.
func requestContext(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(observability.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		correlationID := r.Header.Get(observability.HeaderCorrelationID)

		ctx := observability.NewRequestContext(r.Context(), requestID, correlationID)
		w.Header().Set(observability.HeaderRequestID, requestID)
		w.Header().Set(observability.HeaderCorrelationID, observability.CorrelationIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
				)
				writeError(rec, http.StatusInternalServerError, "unexpected failure")
			}
			logger.DebugContext(ctx, "request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				observability.DurationKey, time.Since(start).Milliseconds(),
			)
		}()

		next.ServeHTTP(rec, r.WithContext(ctx))
	})
}

func limitBody(next http.Handler, limit int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
