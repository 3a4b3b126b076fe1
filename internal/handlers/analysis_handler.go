package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lactalog-backend/internal/archive"
	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/printing"
	"lactalog-backend/internal/upstream"
	"lactalog-backend/internal/viewmodels"
	"lactalog-backend/pkg/utils"

	"golang.org/x/sync/errgroup"
)

type AnalysisHandler struct {
	Archive *archive.Uploader
}

func NewAnalysisHandler(archive *archive.Uploader) *AnalysisHandler {
	return &AnalysisHandler{Archive: archive}
}

// List returns the joined analysis rows for the viewer.
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	q, err := listQuery(r, rec)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		analyses   []*models.Analysis
		transports []*models.Transport
		clientes   []*models.Cliente
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		analyses, err = rec.Gateway.ListAnalyses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		transports, err = rec.Gateway.ListTransports(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clientes, err = rec.Gateway.ListClientes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeUpstreamError(w, err)
		return
	}

	rows := viewmodels.BuildAnalysisRows(analyses,
		viewmodels.TransportIndex(transports),
		viewmodels.ClienteNameIndex(clientes), q)
	utils.JSON(w, http.StatusOK, rows)
}

// Detail returns the full edit view of one analysis.
func (h *AnalysisHandler) Detail(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	detail, err := viewmodels.LoadAnalysisDetail(r.Context(), rec.Gateway, id, rec.Role)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	if rec.Role == models.RoleCliente {
		if detail.Transport == nil || detail.Transport.ClienteID != rec.ClienteID {
			utils.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
	}
	utils.JSON(w, http.StatusOK, detail)
}

// Update applies an edit submission: the measurements are re-rounded, the
// derived grams fields recomputed from the transport volume, and the whole
// record sent back with the bumped version.
func (h *AnalysisHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	var edited models.Measurements
	if err := json.NewDecoder(r.Body).Decode(&edited); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	current, err := rec.Gateway.GetAnalysis(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	// The transport volume drives the derived grams fields. A missing parent
	// keeps the record's existing derived values; any other fetch failure
	// aborts the edit rather than persisting grams computed from zero liters.
	var liters *float64
	t, err := rec.Gateway.GetTransport(r.Context(), current.TransportID)
	switch {
	case err == nil:
		if t.Seized {
			utils.Error(w, http.StatusConflict, "Record is closed and cannot be edited")
			return
		}
		liters = &t.Liters
	default:
		var apiErr *upstream.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			writeUpstreamError(w, err)
			return
		}
	}

	payload, err := viewmodels.BuildAnalysisPayload(current, &edited, liters, rec.UserID)
	if err != nil {
		utils.Error(w, http.StatusConflict, err.Error())
		return
	}

	if err := rec.Gateway.UpdateAnalysis(r.Context(), id, payload); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AnalysisHandler) lifecycle(w http.ResponseWriter, r *http.Request,
	allowed func(viewmodels.Affordances) bool,
	action func(ctx context.Context, gw *upstream.Gateway, id int) error) {

	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	a, err := rec.Gateway.GetAnalysis(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	// Seizure state lives on the parent; a missing parent leaves the
	// analysis with its own affordances.
	parent, _ := rec.Gateway.GetTransport(r.Context(), a.TransportID)

	if !allowed(viewmodels.AnalysisActions(a, parent, rec.Role)) {
		utils.Error(w, http.StatusForbidden, "Action not permitted on this record")
		return
	}

	if err := action(r.Context(), rec.Gateway, id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close marks an analysis closed.
func (h *AnalysisHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanClose },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.CloseAnalysis(ctx, id)
		})
}

// Reopen reverts a close. Admin only, enforced at the router.
func (h *AnalysisHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanReopen },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.ReopenAnalysis(ctx, id)
		})
}

// VerifyAnomaly confirms a flagged anomaly. The note is mandatory.
func (h *AnalysisHandler) VerifyAnomaly(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyAnomalyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.AnomalyNote) == "" {
		utils.Error(w, http.StatusBadRequest, "A verification note is required")
		return
	}

	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanVerifyAnomaly },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.VerifyAnalysisAnomaly(ctx, id, req.AnomalyNote)
		})
}

// Print renders the analysis report as a PDF download and archives a copy
// in the background when archiving is configured.
func (h *AnalysisHandler) Print(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	detail, err := viewmodels.LoadAnalysisDetail(r.Context(), rec.Gateway, id, rec.Role)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	if rec.Role == models.RoleCliente {
		if detail.Transport == nil || detail.Transport.ClienteID != rec.ClienteID {
			utils.Error(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	pdf, err := printing.AnalysisReport(detail)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	go h.Archive.StoreAnalysisReport(id, pdf)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analisis-%d.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
