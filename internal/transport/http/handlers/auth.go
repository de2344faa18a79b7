package http_handlers

import (
	"net/http"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/infrastructure/security"
	"github.com/baechuer/france-explorer/internal/logger"
	"github.com/baechuer/france-explorer/internal/metrics"
	"github.com/baechuer/france-explorer/internal/transport/http/dto"
	"github.com/baechuer/france-explorer/internal/transport/http/middleware"
	"github.com/baechuer/france-explorer/internal/transport/http/response"
)

type AuthHandler struct {
	svc           *auth.Service
	secureCookies bool
}

func NewAuthHandler(svc *auth.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookies: secureCookies}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Str("username", u.Username).
		Msg("user_registered")

	response.Created(w, dto.UserData{User: dto.NewUserView(u.Public())})
}

// Login handles POST /api/login. Anything other than a validation or
// credential failure is logged and answered with a generic 500.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch domain.KindOf(err) {
		case domain.KindAuth:
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			logger.WithCtx(r.Context()).Warn().Str("username", req.Username).Msg("login_rejected")
			response.WriteError(w, r, err)
		case domain.KindValidation:
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_request").Inc()
			response.WriteError(w, r, err)
		default:
			metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
			logger.WithCtx(r.Context()).Error().Err(err).Msg("login_failed")
			response.WriteError(w, r, domain.ErrInternal(err))
		}
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	logger.WithCtx(r.Context()).Info().
		Int64("user_id", res.User.ID).
		Msg("user_logged_in")

	security.SetAccessToken(w, res.AccessToken, h.svc.AccessTTL(), h.secureCookies)
	response.OK(w, dto.UserData{User: dto.NewUserView(res.User.Public())})
}

// VerifyToken handles GET /api/verify-token. The Auth middleware has
// already rejected missing or bad tokens.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}
	response.OK(w, dto.VerifyData{Valid: true})
}

// Logout handles POST /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	security.ClearAccessToken(w, h.secureCookies)
	response.OK(w, dto.SuccessData{Success: true})
}
