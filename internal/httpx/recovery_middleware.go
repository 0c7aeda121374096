package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := newResponseWriter(w)
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				panicRecoveries.Inc()
				slog.ErrorContext(r.Context(), "panic recovered",
					slog.String("request_id", RequestIDFrom(r)),
					slog.Any("error", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !rw.wroteHeader() {
					WriteError(rw, r, fmt.Errorf("panic: %v", rec))
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}
