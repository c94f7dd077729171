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

type GroupsHandler struct {
	GroupService *service.GroupService
}

// HandleCreate godoc
//
//	@Summary		Create Group Endpoint
//	@Description	Create a shared group. The caller becomes its owner and founding admin member.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Param			request	body		groupsdk.CreateGroupRequest	true	"Group request"
//	@Success		201		{object}	groupsdk.Group				"created group"
//	@Failure		400		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/groups [post].
func (h *GroupsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	group, err := h.GroupService.CreateGroup(ctx, userID, req.Name, req.Description, toDomainSettings(req.Settings))
	if err != nil {
		writeServiceError(w, log, err, "Failed to create group")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toGroupView(group))
}

// HandleGet godoc
//
//	@Summary		Get Group Endpoint
//	@Description	Fetch a group by id.
//	@Tags			Groups
//	@Produce		json
//	@Param			id	path		string					true	"Group ID"
//	@Success		200	{object}	groupsdk.Group			"group"
//	@Failure		404	{object}	groupsdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/groups/{id} [get].
func (h *GroupsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if _, ok := requireUserID(w, r); !ok {
		return
	}

	group, err := h.GroupService.GetGroup(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, log, err, "Failed to load group")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toGroupView(group))
}

// HandleUpdate godoc
//
//	@Summary		Update Group Endpoint
//	@Description	Replace a group's name, description and settings. Requires an admin membership. Settings changes on personal groups are ignored.
//	@Tags			Groups
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Group ID"
//	@Param			request	body		groupsdk.UpdateGroupRequest	true	"Group update"
//	@Success		200		{object}	groupsdk.Group				"updated group"
//	@Failure		400		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Failure		404		{object}	groupsdk.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/groups/{id} [put].
func (h *GroupsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req groupsdk.UpdateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, groupsdk.ErrorCodeInvalidRequest, "Invalid JSON body")
		return
	}

	group, err := h.GroupService.UpdateGroup(ctx, r.PathValue("id"), userID, req.Name, req.Description, toDomainSettings(req.Settings))
	if err != nil {
		writeServiceError(w, log, err, "Failed to update group")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toGroupView(group))
}

func toDomainSettings(s groupsdk.GroupSettings) domain.GroupSettings {
	return domain.GroupSettings{
		AllowInvitations: s.AllowInvitations,
		RequireApproval:  s.RequireApproval,
		MaxMembers:       s.MaxMembers,
	}
}
