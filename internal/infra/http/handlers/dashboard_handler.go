package handlers

import (
	"net/http"

	"github.com/xavierca1/leadgen-api/internal/usecase"
)

type DashboardHandler struct {
	StatsUC *usecase.DashboardStatsUseCase
}

func NewDashboardHandler(stats *usecase.DashboardStatsUseCase) *DashboardHandler {
	return &DashboardHandler{StatsUC: stats}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	p, ok := profile(w, r)
	if !ok {
		return
	}

	out, err := h.StatsUC.Execute(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
