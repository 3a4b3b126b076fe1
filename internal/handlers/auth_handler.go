package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lactalog-backend/internal/middleware"
	"lactalog-backend/internal/models"
	"lactalog-backend/internal/session"
	"lactalog-backend/pkg/utils"
)

type AuthHandler struct {
	Sessions *session.Manager
}

func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

// Login authenticates against the upstream and opens a dashboard session.
// The upstream must be reachable first; a failed ping short-circuits with
// 503 so the UI can show the outage instead of a misleading login error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Ping(r.Context()) {
		utils.Error(w, http.StatusServiceUnavailable, "upstream service unavailable")
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	_, resp, err := h.Sessions.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			utils.Error(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, session.ErrAccessDenied):
			utils.Error(w, http.StatusForbidden, err.Error())
		case errors.Is(err, session.ErrProfileNotFound):
			utils.Error(w, http.StatusForbidden, err.Error())
		default:
			writeUpstreamError(w, err)
		}
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Logout tears down the caller's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	h.Sessions.Logout(rec.SessionID)
	utils.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Status reports whether the upstream API is reachable. The login screen
// polls this before offering the form.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.Ping(r.Context()) {
		utils.JSON(w, http.StatusOK, map[string]string{"upstream": "reachable"})
		return
	}
	utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"upstream": "unreachable"})
}

// Me returns the profile of the logged-in session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	rec, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "No active session")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":    rec.UserID,
		"name":       rec.Name,
		"email":      rec.Email,
		"role":       rec.Role,
		"cliente_id": rec.ClienteID,
	})
}
