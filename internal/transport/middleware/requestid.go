package middleware

import (
	"context"
	"net/http"

	"github.com/frahmantamala/ticketing/pkg/logger"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID accepts the caller's X-Trace-ID or mints one, echoes it back and
// attaches it to the request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, traceID)
		ctx = logger.With(ctx, "traceID", traceID)

		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TraceID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
