package handlers

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/pkg/utils"
)

type ClienteHandler struct{}

func NewClienteHandler() *ClienteHandler {
	return &ClienteHandler{}
}

// List returns the cliente directory, sorted by name.
func (h *ClienteHandler) List(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	clientes, err := rec.Gateway.ListClientes(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	if search != "" {
		filtered := clientes[:0]
		for _, c := range clientes {
			if strings.Contains(strings.ToLower(c.Name), search) {
				filtered = append(filtered, c)
			}
		}
		clientes = filtered
	}

	sort.SliceStable(clientes, func(i, j int) bool {
		return strings.ToLower(clientes[i].Name) < strings.ToLower(clientes[j].Name)
	})
	utils.JSON(w, http.StatusOK, clientes)
}

// Create registers a new cliente.
func (h *ClienteHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	var c models.Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		utils.Error(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := rec.Gateway.CreateCliente(r.Context(), &c); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Update renames a cliente.
func (h *ClienteHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	var c models.Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c.ClienteID = id

	if err := rec.Gateway.UpdateCliente(r.Context(), id, &c); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a cliente.
func (h *ClienteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	if err := rec.Gateway.DeleteCliente(r.Context(), id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
