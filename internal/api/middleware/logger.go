package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Fund-Tracker-Backend/internal/logging"
)

// Logger returns a middleware that logs each HTTP request once it completes.
// The per-request entry, tagged with the chi request id, is stored on the
// context so handlers and response helpers log with the same fields.
func Logger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	// Strip CR/LF from user-supplied values to prevent log injection.
	sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			entry := logger.WithFields(logrus.Fields{
				"request_id": chimiddleware.GetReqID(r.Context()),
				"method":     sanitize(r.Method),
				"path":       sanitize(r.URL.Path),
			})

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(logging.WithLogger(r.Context(), entry)))

			entry = entry.WithFields(logrus.Fields{
				"status":   wrapped.statusCode,
				"duration": time.Since(start).String(),
			})
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				entry.Error("request failed")
			case wrapped.statusCode >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request completed")
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
