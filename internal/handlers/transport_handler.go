package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/session"
	"lactalog-backend/internal/upstream"
	"lactalog-backend/internal/viewmodels"
	"lactalog-backend/pkg/utils"

	"github.com/gorilla/mux"

	"golang.org/x/sync/errgroup"
)

type TransportHandler struct{}

func NewTransportHandler() *TransportHandler {
	return &TransportHandler{}
}

// sessionAndID pulls the session record and the {id} route variable out of
// a request. Shared by every record-scoped handler in this package.
func sessionAndID(w http.ResponseWriter, r *http.Request) (*session.Record, int, bool) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return nil, 0, false
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid record ID")
		return nil, 0, false
	}
	return rec, id, true
}

// listQuery builds the viewmodel query from the request, forcing the
// viewer's own scope for client accounts.
func listQuery(r *http.Request, rec *session.Record) (viewmodels.Query, error) {
	category, err := viewmodels.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		return viewmodels.Query{}, err
	}
	return viewmodels.Query{
		Category:  category,
		Search:    r.URL.Query().Get("search"),
		Role:      rec.Role,
		ClienteID: rec.ClienteID,
	}, nil
}

// List returns the joined transport rows for the viewer.
func (h *TransportHandler) List(w http.ResponseWriter, r *http.Request) {
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
		transports []*models.Transport
		clientes   []*models.Cliente
		users      []*models.User
	)
	g, gctx := errgroup.WithContext(r.Context())
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
	g.Go(func() error {
		var err error
		users, err = rec.Gateway.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeUpstreamError(w, err)
		return
	}

	rows := viewmodels.BuildTransportRows(transports,
		viewmodels.ClienteNameIndex(clientes),
		viewmodels.UserNameIndex(users), q)
	utils.JSON(w, http.StatusOK, rows)
}

// Get returns one transport record.
func (h *TransportHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	t, err := rec.Gateway.GetTransport(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	if rec.Role == models.RoleCliente && t.ClienteID != rec.ClienteID {
		utils.Error(w, http.StatusForbidden, "Forbidden")
		return
	}
	utils.JSON(w, http.StatusOK, t)
}

// Create registers a new pickup.
func (h *TransportHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	var req models.CreateTransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.CreatedByUserID = rec.UserID

	if err := rec.Gateway.CreateTransport(r.Context(), &req); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Update replaces a transport record. Closed records reject edits before
// the upstream is ever called.
func (h *TransportHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	current, err := rec.Gateway.GetTransport(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if current.Closed || current.Seized {
		utils.Error(w, http.StatusConflict, "Record is closed and cannot be edited")
		return
	}

	var t models.Transport
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	t.TransportID = id
	t.ModifiedByUserID = rec.UserID
	t.Version = current.Version + 1

	if err := rec.Gateway.UpdateTransport(r.Context(), id, &t); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a transport. Admin only, enforced at the router.
func (h *TransportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	if err := rec.Gateway.DeleteTransport(r.Context(), id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// lifecycle runs one of the state-transition calls after checking the
// record still admits it.
func (h *TransportHandler) lifecycle(w http.ResponseWriter, r *http.Request,
	allowed func(viewmodels.Affordances) bool,
	action func(ctx context.Context, gw *upstream.Gateway, id int) error) {

	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	t, err := rec.Gateway.GetTransport(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	if !allowed(viewmodels.TransportActions(t, rec.Role)) {
		utils.Error(w, http.StatusForbidden, "Action not permitted on this record")
		return
	}

	if err := action(r.Context(), rec.Gateway, id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Close marks a transport closed.
func (h *TransportHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanClose },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.CloseTransport(ctx, id)
		})
}

// Reopen reverts a close. Admin only, enforced at the router.
func (h *TransportHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanReopen },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.ReopenTransport(ctx, id)
		})
}

// VerifyAnomaly confirms a flagged anomaly. The note is mandatory.
func (h *TransportHandler) VerifyAnomaly(w http.ResponseWriter, r *http.Request) {
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
			return gw.VerifyTransportAnomaly(ctx, id, req.AnomalyNote)
		})
}

// Seize marks a transport seized. The state is terminal and the reason is
// mandatory. Admin only, enforced at the router.
func (h *TransportHandler) Seize(w http.ResponseWriter, r *http.Request) {
	var req models.SeizeTransportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.SeizureNote) == "" {
		utils.Error(w, http.StatusBadRequest, "A seizure reason is required")
		return
	}

	h.lifecycle(w, r,
		func(a viewmodels.Affordances) bool { return a.CanSeize },
		func(ctx context.Context, gw *upstream.Gateway, id int) error {
			return gw.SeizeTransport(ctx, id, req.SeizureNote)
		})
}
