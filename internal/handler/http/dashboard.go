package http

import (
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/dashboard"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
)

type DashboardHandler interface {
	Overview(w http.ResponseWriter, r *http.Request)
	Activity(w http.ResponseWriter, r *http.Request)
	Global(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.Overview(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overview)
}

func (h *dashboardHandlerImpl) Activity(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dashboardService.Activity(r.Context(), intQuery(r, "limit", 20))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

func (h *dashboardHandlerImpl) Global(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Global(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Health answers 200 when every dependency is up and 503 otherwise, with the same body.
func (h *dashboardHandlerImpl) Health(w http.ResponseWriter, r *http.Request) {
	health := h.dashboardService.Health(r.Context())
	if health.Status != "ok" {
		response.ServiceUnavailable(w, health)
		return
	}

	response.Success(w, health)
}
