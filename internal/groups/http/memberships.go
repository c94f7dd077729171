package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/quittly/quittly/pkg/httpx"
	"github.com/quittly/quittly/pkg/slogx"
)

type MembershipsHandler struct {
	InvitationService *service.InvitationService
	MembershipService *service.MembershipService
}

// HandleCancel godoc
//
//	@Summary		Cancel Invitation Endpoint
//	@Description	Withdraw a pending invitation. Allowed for group admins and the original inviter. The record moves to removed and its token stops resolving.
//	@Tags			Memberships
//	@Produce		json
//	@Param			id	path		string					true	"Membership ID"
//	@Success		200	{object}	groupsdk.Membership		"removed membership"
//	@Failure		403	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id}/cancel [post].
func (h *MembershipsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	membership, err := h.InvitationService.CancelInvitation(ctx, r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to cancel invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipView(membership))
}

// HandleResend godoc
//
//	@Summary		Resend Invitation Endpoint
//	@Description	Rotate a pending invitation's token and extend its expiry. The previous token and any outstanding phone code stop working immediately.
//	@Tags			Memberships
//	@Produce		json
//	@Param			id	path		string						true	"Membership ID"
//	@Success		200	{object}	groupsdk.InvitationResponse	"membership, invite_token, expires_at"
//	@Failure		403	{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		404	{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		409	{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id}/resend [post].
func (h *MembershipsHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	membership, token, err := h.InvitationService.ResendInvitation(ctx, r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to resend invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(membership, token))
}

// HandleUpdateRole godoc
//
//	@Summary		Update Role Endpoint
//	@Description	Change an active member's role. Requires an admin membership in the group. Demoting the last admin is rejected.
//	@Tags			Memberships
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Membership ID"
//	@Param			request	body		groupsdk.UpdateRoleRequest	true	"Role update"
//	@Success		200		{object}	groupsdk.Membership			"updated membership"
//	@Failure		400		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id}/role [put].
func (h *MembershipsHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	membership, err := h.MembershipService.UpdateRole(ctx, r.PathValue("id"), domain.Role(req.Role), userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to update role")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipView(membership))
}

// HandleRemove godoc
//
//	@Summary		Remove Member Endpoint
//	@Description	Remove an active member from their group. Requires an admin membership. Removing the last admin is rejected. The record is retained as removed, never deleted.
//	@Tags			Memberships
//	@Produce		json
//	@Param			id	path		string					true	"Membership ID"
//	@Success		200	{object}	groupsdk.Membership		"removed membership"
//	@Failure		403	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		409	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/memberships/{id} [delete].
func (h *MembershipsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	membership, err := h.MembershipService.RemoveMember(ctx, r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, log, err, "Failed to remove member")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipView(membership))
}

// HandleListGroup godoc
//
//	@Summary		List Group Memberships Endpoint
//	@Description	Page through a group's membership records, optionally filtered by status. The caller must be an active member of the group.
//	@Tags			Memberships
//	@Produce		json
//	@Param			id		path		string					true	"Group ID"
//	@Param			status	query		string					false	"Status filter (pending, active, declined, removed)"
//	@Param			page	query		int						false	"Page number, 1-based"
//	@Param			limit	query		int						false	"Page size, max 100"
//	@Success		200		{object}	groupsdk.MembershipPage	"memberships, total, page, limit"
//	@Failure		403		{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/groups/{id}/memberships [get].
func (h *MembershipsHandler) HandleListGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	status, page, limit := listParams(r)
	result, err := h.MembershipService.ListGroupMemberships(ctx, r.PathValue("id"), userID, status, page, limit)
	if err != nil {
		writeServiceError(w, log, err, "Failed to list memberships")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipPageView(result))
}

// HandleListMine godoc
//
//	@Summary		List Own Memberships Endpoint
//	@Description	Page through the caller's membership records across all groups, optionally filtered by status.
//	@Tags			Memberships
//	@Produce		json
//	@Param			status	query		string					false	"Status filter (pending, active, declined, removed)"
//	@Param			page	query		int						false	"Page number, 1-based"
//	@Param			limit	query		int						false	"Page size, max 100"
//	@Success		200		{object}	groupsdk.MembershipPage	"memberships, total, page, limit"
//	@Failure		401		{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/memberships [get].
func (h *MembershipsHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	status, page, limit := listParams(r)
	result, err := h.MembershipService.ListUserMemberships(ctx, userID, status, page, limit)
	if err != nil {
		writeServiceError(w, log, err, "Failed to list memberships")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMembershipPageView(result))
}

func listParams(r *http.Request) (domain.MembershipStatus, int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.MembershipStatus(q.Get("status")), page, limit
}
