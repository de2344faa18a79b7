package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/transport/http/middleware"
	"github.com/baechuer/france-explorer/internal/transport/http/response"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	VerifyToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type LocationHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	DeleteDescriptions(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health   HealthHandler
	Auth     AuthHandler
	Location LocationHandler

	AuthMW func(http.Handler) http.Handler

	// HSTS is sent only when served over HTTPS.
	HSTS bool

	// Browser origins allowed to call the API with credentials.
	CORSOrigins []string

	// Optional per-route rate limits; nil means unlimited.
	RLRegister func(http.Handler) http.Handler
	RLLogin    func(http.Handler) http.Handler
	RLLocation func(http.Handler) http.Handler

	// Defaults to the prometheus default registry.
	Metrics http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Location == nil {
		return nil, fmt.Errorf("nil Location handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.Metrics == nil {
		deps.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders(deps.HSTS))
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, r, domain.New(domain.KindNotFound, "route_not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteErrorStatus(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", deps.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.With(optional(deps.RLRegister)...).Post("/register", deps.Auth.Register)
		r.With(optional(deps.RLLogin)...).Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)
		r.With(deps.AuthMW).Get("/verify-token", deps.Auth.VerifyToken)

		r.With(optional(deps.RLLocation)...).Get("/location", deps.Location.Get)
		r.Delete("/descriptions", deps.Location.DeleteDescriptions)
	})

	return r, nil
}

func optional(mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	out := make([]func(http.Handler) http.Handler, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
