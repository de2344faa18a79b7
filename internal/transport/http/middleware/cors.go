package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the listed browser origins call the API with the auth cookie.
// With no origins configured it is a no-op.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", HeaderXRequestID},
		ExposedHeaders:   []string{HeaderXRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
