package http

import (
	"encoding/json"
	"net/http"

	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/quittly/quittly/pkg/httpx"
	"github.com/quittly/quittly/pkg/slogx"
)

type AccountsHandler struct {
	GroupService *service.GroupService
}

// HandleCreate godoc
//
//	@Summary		Create Account Endpoint
//	@Description	Register a new account keyed on a phone number. The account's personal group is created atomically with it and becomes the active group.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.CreateAccountRequest	true	"Account request"
//	@Success		201		{object}	groupsdk.AccountResponse		"user, personal_group"
//	@Failure		400		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Failure		409		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/accounts [post].
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req groupsdk.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	user, personal, err := h.GroupService.CreateAccount(ctx, req.Phone, req.DisplayName)
	if err != nil {
		writeServiceError(w, log, err, "Failed to create account")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, groupsdk.AccountResponse{
		User:          toUserView(user),
		PersonalGroup: toGroupView(personal),
	})
}

// HandleMe godoc
//
//	@Summary		Current User Endpoint
//	@Description	Return the account behind the session, including the active group pointer.
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	groupsdk.User			"id, phone, display_name, active_group_id"
//	@Failure		401	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/me [get].
func (h *AccountsHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.GroupService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to load user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserView(user))
}

// HandleSetActiveGroup godoc
//
//	@Summary		Set Active Group Endpoint
//	@Description	Switch the caller's default group. The caller must hold an active membership in the target group.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.SetActiveGroupRequest	true	"Active group request"
//	@Success		200		{object}	groupsdk.User					"updated user"
//	@Failure		400		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/me/active-group [post].
func (h *AccountsHandler) HandleSetActiveGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.SetActiveGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.GroupID == "" {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "group_id is required")
		return
	}

	if err := h.GroupService.SetActiveGroup(ctx, userID, req.GroupID); err != nil {
		writeServiceError(w, log, err, "Failed to set active group")
		return
	}

	user, err := h.GroupService.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to load user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserView(user))
}
