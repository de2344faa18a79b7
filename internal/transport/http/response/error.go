package response

import (
	"errors"
	"net/http"

	"github.com/baechuer/france-explorer/internal/domain"
	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

// ErrorBody is the envelope of every non-2xx JSON response.
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Meta      map[string]string `json:"meta,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

var kindStatus = map[domain.ErrKind]int{
	domain.KindValidation:     http.StatusBadRequest,
	domain.KindAuth:           http.StatusUnauthorized,
	domain.KindNotFound:       http.StatusNotFound,
	domain.KindConflict:       http.StatusConflict,
	domain.KindTooLarge:       http.StatusRequestEntityTooLarge,
	domain.KindRateLimited:    http.StatusTooManyRequests,
	domain.KindInfrastructure: http.StatusServiceUnavailable,
	domain.KindInternal:       http.StatusInternalServerError,
}

// StatusFromKind maps an error kind to its HTTP status. Unknown kinds are 500.
func StatusFromKind(kind domain.ErrKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError renders err as an ErrorBody. Anything that is not a
// *domain.Error becomes a bare internal_error so causes never reach clients.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, payload := payloadFor(err)
	payload.RequestID = appCtx.GetRequestID(r.Context())
	WriteJSON(w, status, ErrorBody{Error: payload})
}

// WriteErrorStatus writes an error envelope with an explicit status, for
// responses that have no domain kind (405).
func WriteErrorStatus(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, ErrorBody{Error: ErrorPayload{
		Code:      code,
		Message:   message,
		RequestID: appCtx.GetRequestID(r.Context()),
	}})
}

func payloadFor(err error) (int, ErrorPayload) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, ErrorPayload{
			Code:    "internal_error",
			Message: "internal error",
		}
	}
	return StatusFromKind(de.Kind), ErrorPayload{
		Code:    de.Code,
		Message: de.Message,
		Meta:    de.Meta,
	}
}
