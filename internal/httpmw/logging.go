package httpmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/oh-hell-club/kachuful-bot/internal/attr"
)

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs each request with its correlation ID, status, and
// duration. A fresh correlation ID is minted when the client did not send
// one, and is echoed back in the response headers.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			correlationID := r.Header.Get("X-Correlation-ID")
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			w.Header().Set("X-Correlation-ID", correlationID)

			ctx := attr.WithCorrelationID(r.Context(), correlationID)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(recorder, r.WithContext(ctx))

			logger.InfoContext(ctx, "http request",
				attr.ExtractCorrelationID(ctx),
				attr.String("method", r.Method),
				attr.String("path", r.URL.Path),
				attr.Int("status", recorder.status),
				attr.Duration("duration", time.Since(start)),
			)
		})
	}
}
