package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baechuer/france-explorer/internal/domain"
)

func TestJWTSigner_SignAndVerify_Success(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "france-explorer")
	tok, err := s.SignAccessToken("42", 2*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.UserID != "42" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Exp.IsZero() {
		t.Fatalf("expected exp to be set")
	}
}

func TestJWTSigner_Verify_Expired(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "france-explorer")
	tok, err := s.SignAccessToken("42", -1*time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, err = s.VerifyAccessToken(tok)
	if !domain.Is(err, "token_expired") {
		t.Fatalf("expected token_expired, got %v", err)
	}
}

func TestJWTSigner_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _ := NewJWTSigner("secret-a", "france-explorer").SignAccessToken("42", time.Minute)

	_, err := NewJWTSigner("secret-b", "france-explorer").VerifyAccessToken(tok)
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_WrongIssuer(t *testing.T) {
	t.Parallel()

	tok, _ := NewJWTSigner("secret", "someone-else").SignAccessToken("42", time.Minute)

	_, err := NewJWTSigner("secret", "france-explorer").VerifyAccessToken(tok)
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_Tampered(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "france-explorer")
	tok, _ := s.SignAccessToken("42", time.Minute)

	parts := strings.Split(tok, ".")
	parts[2] = strings.Repeat("A", len(parts[2]))

	_, err := s.VerifyAccessToken(strings.Join(parts, "."))
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_RejectsNoneAlg(t *testing.T) {
	t.Parallel()

	claims := accessClaims{
		UserID: "42",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "france-explorer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	_, err = NewJWTSigner("secret", "france-explorer").VerifyAccessToken(tok)
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWTSigner_Verify_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewJWTSigner("secret", "").VerifyAccessToken("not-a-jwt")
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}
