package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/baechuer/france-explorer/internal/domain"
	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

func newReqWithBody(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type payload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantErr  bool
		wantName string
	}{
		{"valid", `{"name":"alice"}`, false, "alice"},
		{"empty_body", ``, false, ""},
		{"malformed", `{"name":`, true, ""},
		{"trailing_value", `{"name":"a"}{"name":"b"}`, true, ""},
		{"wrong_type", `{"name":1}`, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			err := DecodeJSON(httptest.NewRecorder(), newReqWithBody(t, tc.body), &p)
			if tc.wantErr {
				if !domain.Is(err, "invalid_json") {
					t.Fatalf("expected invalid_json, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tc.wantName {
				t.Fatalf("expected %q, got %q", tc.wantName, p.Name)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	var p payload
	err := DecodeJSON(httptest.NewRecorder(), newReqWithBody(t, body), &p)
	if !domain.Is(err, "body_too_large") {
		t.Fatalf("expected body_too_large, got %v", err)
	}

	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodPost, "/", nil), err)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestWriteError_DomainError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(appCtx.WithRequestID(context.Background(), "req-123"))

	WriteError(rr, req, domain.ErrMissingField("name"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body ErrorBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "missing_field" || body.Error.Meta["field"] != "name" || body.Error.RequestID != "req-123" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestWriteError_NonDomainError_IsGeneric500(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: secret details"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "secret") {
		t.Fatalf("internal details leaked: %s", rr.Body.String())
	}
}

func TestStatusFromKind(t *testing.T) {
	cases := map[domain.ErrKind]int{
		domain.KindValidation:     http.StatusBadRequest,
		domain.KindAuth:           http.StatusUnauthorized,
		domain.KindNotFound:       http.StatusNotFound,
		domain.KindConflict:       http.StatusConflict,
		domain.KindTooLarge:       http.StatusRequestEntityTooLarge,
		domain.KindRateLimited:    http.StatusTooManyRequests,
		domain.KindInfrastructure: http.StatusServiceUnavailable,
		domain.KindInternal:       http.StatusInternalServerError,
		domain.ErrKind("weird"):   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := StatusFromKind(kind); got != want {
			t.Fatalf("%s: expected %d, got %d", kind, want, got)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	Created(rr, map[string]bool{"ok": true})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}
}

func TestWriteErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	req = req.WithContext(appCtx.WithRequestID(req.Context(), "rid-9"))

	WriteErrorStatus(rr, req, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "method_not_allowed" || body.Error.RequestID != "rid-9" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
