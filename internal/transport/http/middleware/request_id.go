package middleware

import (
	"net/http"

	"github.com/google/uuid"

	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

const (
	HeaderXRequestID = "X-Request-Id"
	maxRequestIDLen  = 128
)

// RequestID reuses the caller's request id or mints one, echoes it back and
// stores it, together with the client ip, in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderXRequestID, reqID)

		ctx := appCtx.WithRequestID(r.Context(), reqID)
		ctx = appCtx.WithClientIP(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
