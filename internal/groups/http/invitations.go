package http

import (
	"encoding/json"
	"net/http"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/quittly/quittly/pkg/httpx"
	"github.com/quittly/quittly/pkg/slogx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// HandleCreate godoc
//
//	@Summary		Create Invitation Endpoint
//	@Description	Issue an invitation for a group the caller administers. The raw invite token is returned exactly once; only its fingerprint is stored.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.CreateInvitationRequest	true	"Invitation request"
//	@Success		201		{object}	groupsdk.InvitationResponse			"membership, invite_token, expires_at"
//	@Failure		400		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.GroupID == "" {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "group_id is required")
		return
	}

	membership, token, err := h.InvitationService.CreateInvitation(
		ctx,
		req.GroupID,
		userID,
		domain.Role(req.Role),
		req.InviteePhone,
	)
	if err != nil {
		writeServiceError(w, log, err, "Failed to create invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toInvitationResponse(membership, token))
}

// HandleGet godoc
//
//	@Summary		Invitation Lookup Endpoint
//	@Description	Resolve an invitation token to its landing-page view: the pending membership plus group and inviter info.
//	@Description	Expired, consumed and unknown tokens are indistinguishable; all yield 404.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string					true	"Invitation token"
//	@Success		200		{object}	groupsdk.InvitationView	"membership, group_name, inviter_name"
//	@Failure		404		{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/{token} [get].
func (h *InvitationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	inv, err := h.InvitationService.GetInvitationByToken(ctx, r.PathValue("token"))
	if err != nil {
		writeServiceError(w, log, err, "Failed to resolve invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationView(inv))
}

// HandleAccept godoc
//
//	@Summary		Accept Invitation Endpoint
//	@Description	Redeem an invitation token, binding the pending membership to the caller's account and activating it.
//	@Description	A phone confirmation code is required when the invitation was pinned to a phone number other than the session's.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.AcceptInvitationRequest	true	"Accept request"
//	@Success		200		{object}	groupsdk.Membership					"activated membership"
//	@Failure		400		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		403		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		409		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "token is required")
		return
	}

	membership, err := h.InvitationService.AcceptInvitation(ctx, req.Token, userID, req.PhoneCode)
	if err != nil {
		writeServiceError(w, log, err, "Failed to accept invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipView(membership))
}

// HandleDecline godoc
//
//	@Summary		Decline Invitation Endpoint
//	@Description	Decline an invitation by its token. No session is required; holding the token is proof of being the invitee.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.DeclineInvitationRequest	true	"Decline request"
//	@Success		200		{object}	groupsdk.Membership					"declined membership"
//	@Failure		400		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse				"error, error_description"
//	@Router			/v1/invitations/decline [post].
func (h *InvitationsHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req groupsdk.DeclineInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "token is required")
		return
	}

	membership, err := h.InvitationService.DeclineInvitation(ctx, req.Token)
	if err != nil {
		writeServiceError(w, log, err, "Failed to decline invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipView(membership))
}
