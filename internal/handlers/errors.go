package handlers

import (
	"errors"
	"log"
	"net/http"

	"lactalog-backend/internal/upstream"
	"lactalog-backend/pkg/utils"
)

// writeUpstreamError maps a gateway failure onto the response. Client-side
// statuses pass through so the UI can react (expired auth, missing record,
// validation rejection); anything else becomes a 502 because the fault is
// between this server and the upstream, not with the caller.
func writeUpstreamError(w http.ResponseWriter, err error) {
	// A failed token renewal means the session can no longer authenticate;
	// the UI must prompt a fresh login, not report an outage.
	if errors.Is(err, upstream.ErrAuthenticationFailed) {
		utils.Error(w, http.StatusUnauthorized, "session expired, please log in again")
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict,
			http.StatusUnprocessableEntity:
			utils.Error(w, apiErr.Status, apiErr.Body)
			return
		}
	}

	log.Printf("[Gateway] Upstream request failed: %v", err)
	utils.Error(w, http.StatusBadGateway, "upstream service unavailable")
}
