package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/france-explorer/internal/logger"
)

// statusWriter records what the handler wrote so logs and metrics can see it.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// AccessLog emits one "http_request" line per request. Server errors are
// logged at error level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		status := sw.code()
		lg := logger.WithCtx(r.Context())
		ev := lg.Info()
		if status >= http.StatusInternalServerError {
			ev = lg.Error()
		}

		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				ev = ev.Str("route", p)
			}
		}

		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", sw.bytes).
			Int64("duration_ms", time.Since(started).Milliseconds()).
			Str("user_agent", r.UserAgent()).
			Msg("http_request")
	})
}
