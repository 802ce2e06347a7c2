package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// crlf strips CR/LF from request-supplied values before they reach a log
// line, so a crafted path cannot inject fake entries.
var crlf = strings.NewReplacer("\n", "", "\r", "")

// Logger logs each request with its final status code and duration.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the writer to capture the status the handler settles on.
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		//nolint:gosec // G706: method and path pass through crlf above.
		log.Printf(
			"%s %s %d %s",
			crlf.Replace(r.Method),
			crlf.Replace(r.URL.Path),
			wrapped.statusCode,
			time.Since(start),
		)
	})
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
