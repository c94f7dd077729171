package groupsdk

import (
	"context"
	"net/http"
)

// Me returns the account behind the session.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.doJSON(ctx, http.MethodGet, "/v1/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetActiveGroup switches the caller's default group. The caller must hold
// an active membership in the target group.
func (s *Session) SetActiveGroup(ctx context.Context, groupID string) (*User, error) {
	var out User
	if err := s.doJSON(ctx, http.MethodPost, "/v1/users/me/active-group", SetActiveGroupRequest{GroupID: groupID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGroup creates a shared group with the caller as its admin founder.
func (s *Session) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	var out Group
	if err := s.doJSON(ctx, http.MethodPost, "/v1/groups", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGroup fetches a group by id.
func (s *Session) GetGroup(ctx context.Context, groupID string) (*Group, error) {
	var out Group
	if err := s.doJSON(ctx, http.MethodGet, "/v1/groups/"+groupID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGroup replaces a group's name, description and settings. Requires
// an admin membership in the group.
func (s *Session) UpdateGroup(ctx context.Context, groupID string, req UpdateGroupRequest) (*Group, error) {
	var out Group
	if err := s.doJSON(ctx, http.MethodPut, "/v1/groups/"+groupID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
