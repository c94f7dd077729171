package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/quittly/quittly/pkg/httpx"
)

// writeServiceError maps service sentinel errors onto the wire error
// envelope. The not-found cases deliberately share one description so an
// expired token, a consumed token and a token that never existed are
// indistinguishable to a caller probing the API.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid request parameters")
	case errors.Is(err, service.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Unknown role")
	case errors.Is(err, service.ErrInvitationNotFound):
		writeError(w, http.StatusNotFound, groupsdk.ErrorCodeNotFound, "Invitation not found or expired")
	case errors.Is(err, service.ErrMembershipNotFound):
		writeError(w, http.StatusNotFound, groupsdk.ErrorCodeNotFound, "Membership not found")
	case errors.Is(err, service.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, groupsdk.ErrorCodeNotFound, "Group not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, groupsdk.ErrorCodeNotFound, "User not found")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, groupsdk.ErrorCodeForbidden, "Not allowed")
	case errors.Is(err, service.ErrAlreadyMember):
		writeError(w, http.StatusConflict, groupsdk.ErrorCodeConflict, "Already an active member of this group")
	case errors.Is(err, service.ErrPhoneRegistered):
		writeError(w, http.StatusConflict, groupsdk.ErrorCodeConflict, "Phone number already registered")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, groupsdk.ErrorCodeConflict, "Record was modified concurrently, retry")
	default:
		log.Error(fallback, "err", err)
		writeError(w, http.StatusInternalServerError, groupsdk.ErrorCodeServerError, fallback)
	}
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	httpx.WriteJSON(w, status, groupsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: description,
	})
}

// requireUserID pulls the authenticated user id out of the request context.
// A missing id means the authn middleware was bypassed or misconfigured.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, groupsdk.ErrorCodeUnauthorized, "Authentication required")
		return "", false
	}
	return userID, true
}
