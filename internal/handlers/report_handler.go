package handlers

import (
	"net/http"

	"lactalog-backend/internal/config"
	"lactalog-backend/pkg/utils"
)

// ReportHandler serves the configuration of the embedded BI report screen.
type ReportHandler struct {
	cfg *config.Config
}

func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{cfg: cfg}
}

// Embed returns the external report embed URL. The frontend renders it in
// an iframe titled "Lactalog".
func (h *ReportHandler) Embed(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Report.EmbedURL == "" {
		utils.Error(w, http.StatusNotFound, "No report configured")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{
		"title": "Lactalog",
		"url":   h.cfg.Report.EmbedURL,
	})
}
