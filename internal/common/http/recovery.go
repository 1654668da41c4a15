package http

import (
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				traceID := TraceIDFromContext(r.Context())
				log.WithFields(r.Context(), logger.Fields{
					"method":   r.Method,
					"path":     r.URL.Path,
					"trace_id": traceID,
				}).Criticalf("panic recovered: %v\n%s", rec, debug.Stack())
				WriteErrorEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil, traceID)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
