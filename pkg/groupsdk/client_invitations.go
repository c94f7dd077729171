package groupsdk

import (
	"context"
	"net/http"
)

// CreateInvitation issues an invitation for a group the caller administers.
// The returned InviteToken is shown exactly once; hand it to the invitee
// out of band.
func (s *Session) CreateInvitation(ctx context.Context, req CreateInvitationRequest) (*InvitationResponse, error) {
	var out InvitationResponse
	if err := s.doJSON(ctx, http.MethodPost, "/v1/invitations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvitation redeems an invitation token, binding the pending
// membership to the caller's account. A phone code is required when the
// invitation was pinned to a phone number other than the session's.
func (s *Session) AcceptInvitation(ctx context.Context, token, phoneCode string) (*Membership, error) {
	req := AcceptInvitationRequest{Token: token, PhoneCode: phoneCode}
	var out Membership
	if err := s.doJSON(ctx, http.MethodPost, "/v1/invitations/accept", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInvitation withdraws a pending invitation. Allowed for group admins
// and the original inviter.
func (s *Session) CancelInvitation(ctx context.Context, membershipID string) (*Membership, error) {
	var out Membership
	if err := s.doJSON(ctx, http.MethodPost, "/v1/memberships/"+membershipID+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendInvitation rotates a pending invitation's token and extends its
// expiry. The previous token stops resolving immediately.
func (s *Session) ResendInvitation(ctx context.Context, membershipID string) (*InvitationResponse, error) {
	var out InvitationResponse
	if err := s.doJSON(ctx, http.MethodPost, "/v1/memberships/"+membershipID+"/resend", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
