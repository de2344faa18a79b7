package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKind groups errors by how a transport should report them.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindTooLarge       ErrKind = "too_large"      // 413
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error carries a stable Code and a client-safe Message. Cause is for logs
// only and never rendered to clients.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
	if e.Cause == nil {
		return s
	}
	return s + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err wraps a domain error with the given code.
func Is(err error, code string) bool {
	de, ok := as(err)
	return ok && de.Code == code
}

// KindOf returns the kind of a domain error, or KindInternal for anything else.
func KindOf(err error) ErrKind {
	if de, ok := as(err); ok {
		return de.Kind
	}
	return KindInternal
}

func as(err error) (*Error, bool) {
	var de *Error
	ok := errors.As(err, &de)
	return de, ok
}

func withField(err *Error, field string) *Error {
	return WithMeta(err, map[string]string{"field": field})
}

// Request validation.

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrBodyTooLarge(limit int64) *Error {
	return WithMeta(New(KindTooLarge, "body_too_large", "request body too large"), map[string]string{
		"limit_bytes": strconv.FormatInt(limit, 10),
	})
}

func ErrMissingField(field string) *Error {
	return withField(New(KindValidation, "missing_field", "missing required field"), field)
}

func ErrInvalidField(field, reason string) *Error {
	err := withField(New(KindValidation, "invalid_field", "invalid field"), field)
	err.Meta["reason"] = reason
	return err
}

// Authentication. Unknown user and wrong password share
// ErrInvalidCredentials.

func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid credentials")
}

func ErrTokenMissing() *Error { return New(KindAuth, "token_missing", "no token provided") }
func ErrTokenInvalid() *Error { return New(KindAuth, "token_invalid", "invalid token") }
func ErrTokenExpired() *Error { return New(KindAuth, "token_expired", "token is expired") }

// Lookups.

func ErrUserNotFound() *Error { return New(KindNotFound, "user_not_found", "user not found") }
func ErrTownNotFound() *Error { return New(KindNotFound, "town_not_found", "town not found") }

func ErrDescriptionNotFound() *Error {
	return New(KindNotFound, "description_not_found", "description not found")
}

// Uniqueness.

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, "email_already_exists", "email already in use")
}

func ErrUsernameAlreadyExists() *Error {
	return New(KindConflict, "username_already_exists", "username already in use")
}

func ErrRateLimited(scope string) *Error {
	return WithMeta(New(KindRateLimited, "rate_limited", "too many requests"), map[string]string{"scope": scope})
}

// Dependencies and internal faults.

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, "db_unavailable", "database unavailable", cause)
}

func ErrGenerationFailed(cause error) *Error {
	return Wrap(KindInfrastructure, "generation_failed", "description generation failed", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrCacheClearFailed(cause error) *Error {
	return Wrap(KindInternal, "cache_clear_failed", "could not clear cache", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
