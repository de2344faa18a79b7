package middleware

import (
	"net/http"
	"strings"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/infrastructure/security"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth accepts the access token cookie, or Authorization: Bearer <token>
// when no cookie is present, and injects the user id into the context.
// secureCookie selects the __Host- cookie name, as in SetAccessToken.
func Auth(verifier TokenVerifier, secureCookie bool, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r, secureCookie)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.UserID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID)))
		})
	}
}

func tokenFromRequest(r *http.Request, secureCookie bool) (string, error) {
	if tok, err := security.ReadAccessToken(r, secureCookie); err == nil {
		return tok, nil
	}

	h := r.Header.Get("Authorization")
	if h == "" {
		return "", domain.ErrTokenMissing()
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", domain.ErrTokenInvalid()
	}

	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", domain.ErrTokenInvalid()
	}
	return raw, nil
}
