package handlers

import (
	"net/http"

	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/viewmodels"
	"lactalog-backend/pkg/utils"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Summary returns the dashboard figures. All-or-nothing: a partial
// dashboard is worse than an error banner.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	summary, err := viewmodels.BuildSummary(r.Context(), rec.Gateway)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}
