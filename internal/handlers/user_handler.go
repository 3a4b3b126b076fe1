package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/viewmodels"
	"lactalog-backend/pkg/utils"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// List returns the personnel screen rows (staff and drivers only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	users, err := rec.Gateway.ListUsers(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	rows := viewmodels.BuildUserRows(users, r.URL.Query().Get("search"))
	utils.JSON(w, http.StatusOK, rows)
}

// Create registers a new driver account. Every account created here is an
// external driver; role and the external flag are forced server-side.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(u.Name) == "" {
		utils.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	viewmodels.NewDriverDefaults(&u)

	if err := rec.Gateway.CreateUser(r.Context(), &u); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Update replaces a user record.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u.UserID = id

	if err := rec.Gateway.UpdateUser(r.Context(), id, &u); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete removes a user account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := sessionAndID(w, r)
	if !ok {
		return
	}

	if err := rec.Gateway.DeleteUser(r.Context(), id); err != nil {
		writeUpstreamError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
