package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/domain"
)

// JWTSigner issues and checks HS256 access tokens whose "uid" claim holds
// the user id.
type JWTSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	return &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

type accessClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(userID string, ttl time.Duration) (string, error) {
	issued := s.now()
	rc := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(issued),
		NotBefore: jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{UserID: userID, RegisteredClaims: rc}).
		SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

// VerifyAccessToken accepts only HS256 tokens that carry an expiry, match
// the configured issuer and name a user.
func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, s.key, s.parserOptions()...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return auth.TokenClaims{}, domain.ErrTokenExpired()
	case err != nil, !parsed.Valid, claims.UserID == "":
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	return auth.TokenClaims{
		UserID: claims.UserID,
		Exp:    claims.ExpiresAt.Time,
	}, nil
}

func (s *JWTSigner) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	return opts
}

func (s *JWTSigner) key(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, domain.ErrTokenInvalid()
	}
	return s.secret, nil
}
