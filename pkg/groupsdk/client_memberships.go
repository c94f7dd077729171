package groupsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// UpdateRole changes an active member's role. Requires an admin membership
// in the group; demoting the last admin is rejected with a conflict.
func (s *Session) UpdateRole(ctx context.Context, membershipID, role string) (*Membership, error) {
	var out Membership
	if err := s.doJSON(ctx, http.MethodPut, "/v1/memberships/"+membershipID+"/role", UpdateRoleRequest{Role: role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveMember removes an active member from their group. Requires an admin
// membership; removing the last admin is rejected with a conflict.
func (s *Session) RemoveMember(ctx context.Context, membershipID string) (*Membership, error) {
	var out Membership
	if err := s.doJSON(ctx, http.MethodDelete, "/v1/memberships/"+membershipID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGroupMemberships pages through a group's membership records,
// optionally filtered by status. The caller must be an active member.
func (s *Session) ListGroupMemberships(ctx context.Context, groupID, status string, page, limit int) (*MembershipPage, error) {
	path := "/v1/groups/" + groupID + "/memberships" + listQuery(status, page, limit)
	var out MembershipPage
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMyMemberships pages through the caller's own membership records
// across all groups, optionally filtered by status.
func (s *Session) ListMyMemberships(ctx context.Context, status string, page, limit int) (*MembershipPage, error) {
	path := "/v1/memberships" + listQuery(status, page, limit)
	var out MembershipPage
	if err := s.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func listQuery(status string, page, limit int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
