package middleware

import (
	"bytes"
	"net/http"
	"time"

	reqctx "airspace-analytics/sectorcap/internal/context"
	"airspace-analytics/sectorcap/internal/logging"
)

// bodyLimit caps how much of a response body is logged
const bodyLimit = 2048

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := bodyLimit - l.buf.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		l.buf.Write(b[:room])
	}
	return l.ResponseWriter.Write(b)
}

// Logging writes request and response details at debug level. The server
// mounts it outside production only.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(reqctx.GetRequestID(r.Context()), r.URL.Path)
		log.Debugw("HTTP request received",
			"method", r.Method,
			"url", r.URL.String(),
			"content_length", r.ContentLength,
		)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("HTTP response sent",
			"status_code", lw.status,
			"status", http.StatusText(lw.status),
			"duration", time.Since(start).String(),
			"body", lw.buf.String(),
		)
	})
}
