package http_handlers

import (
	"net/http"

	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/logger"
	"github.com/baechuer/france-explorer/internal/metrics"
	"github.com/baechuer/france-explorer/internal/transport/http/dto"
	"github.com/baechuer/france-explorer/internal/transport/http/response"
)

type LocationHandler struct {
	svc *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// Get handles GET /api/location?name=&lang=&code=
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := dto.LocationQueryFrom(r.URL.Query())
	if err := q.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Lookup(r.Context(), location.LookupInput{
		Name:           q.Name,
		Language:       q.Lang,
		DepartmentCode: q.Code,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInfrastructure || domain.KindOf(err) == domain.KindInternal {
			logger.WithCtx(r.Context()).Error().Err(err).
				Str("name", q.Name).
				Str("code", q.Code).
				Msg("location_lookup_failed")
		}
		response.WriteError(w, r, err)
		return
	}

	if res.Source == location.SourceGenerated {
		metrics.DescriptionLookupsTotal.WithLabelValues(metrics.SourceGenerated).Inc()
	}

	response.OK(w, dto.NewLocationData(res))
}

// DeleteDescriptions handles DELETE /api/descriptions?town_code=&department=
func (h *LocationHandler) DeleteDescriptions(w http.ResponseWriter, r *http.Request) {
	q := dto.InvalidateQueryFrom(r.URL.Query())
	if err := q.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	n, err := h.svc.InvalidateDescriptions(r.Context(), q.TownCode, q.Department)
	if err != nil {
		logger.WithCtx(r.Context()).Error().Err(err).
			Str("town_code", q.TownCode).
			Str("department", q.Department).
			Msg("descriptions_invalidate_failed")
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.InvalidateData{Success: true, Deleted: n})
}
