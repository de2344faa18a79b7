package security

import (
	"net/http"
	"time"
)

const AccessCookieName = "access_token_cookie"

// accessCookieName returns the __Host- prefixed name when secure, which
// browsers only accept over HTTPS with Path=/ and no Domain.
func accessCookieName(secure bool) string {
	if secure {
		return "__Host-" + AccessCookieName
	}
	return AccessCookieName
}

func SetAccessToken(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName(secure),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearAccessToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName(secure),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ReadAccessToken reads the cookie written by SetAccessToken with the same
// secure flag. A secure reader ignores the plain name, which any sibling
// subdomain could have set.
func ReadAccessToken(r *http.Request, secure bool) (string, error) {
	c, err := r.Cookie(accessCookieName(secure))
	if err != nil {
		return "", err
	}
	if c.Value == "" {
		return "", http.ErrNoCookie
	}
	return c.Value, nil
}
