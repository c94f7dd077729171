package http

import (
	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/service"
	"github.com/quittly/quittly/pkg/groupsdk"
)

// Wire conversions from domain records to SDK response types. Timestamps go
// out as Unix seconds; zero times are omitted.

func toUserView(u domain.User) groupsdk.User {
	return groupsdk.User{
		ID:            u.ID,
		Phone:         u.Phone,
		DisplayName:   u.DisplayName,
		ActiveGroupID: u.ActiveGroupID,
		CreatedAt:     u.CreatedAt.Unix(),
		UpdatedAt:     u.UpdatedAt.Unix(),
	}
}

func toGroupView(g domain.Group) groupsdk.Group {
	return groupsdk.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		OwnerID:     g.OwnerID,
		CreatedBy:   g.CreatedBy,
		IsPersonal:  g.IsPersonal,
		Settings: groupsdk.GroupSettings{
			AllowInvitations: g.Settings.AllowInvitations,
			RequireApproval:  g.Settings.RequireApproval,
			MaxMembers:       g.Settings.MaxMembers,
		},
		CreatedAt: g.CreatedAt.Unix(),
		UpdatedAt: g.UpdatedAt.Unix(),
	}
}

func toMembershipView(m domain.Membership) groupsdk.Membership {
	v := groupsdk.Membership{
		ID:           m.ID,
		UserID:       m.UserID,
		GroupID:      m.GroupID,
		InviteePhone: m.InviteePhone,
		InvitedBy:    m.InvitedBy,
		Status:       string(m.Status),
		Role:         string(m.Role),
		CreatedAt:    m.CreatedAt.Unix(),
		UpdatedAt:    m.UpdatedAt.Unix(),
		Version:      m.Version,
	}
	if !m.ExpiresAt.IsZero() {
		v.ExpiresAt = m.ExpiresAt.Unix()
	}
	if m.AcceptedAt != nil {
		v.AcceptedAt = m.AcceptedAt.Unix()
	}
	return v
}

func toMembershipPageView(p service.MembershipPage) groupsdk.MembershipPage {
	views := make([]groupsdk.Membership, 0, len(p.Memberships))
	for _, m := range p.Memberships {
		views = append(views, toMembershipView(m))
	}
	return groupsdk.MembershipPage{
		Memberships: views,
		Total:       p.Total,
		Page:        p.Page,
		Limit:       p.Limit,
	}
}

func toInvitationView(inv service.Invitation) groupsdk.InvitationView {
	return groupsdk.InvitationView{
		Membership:  toMembershipView(inv.Membership),
		GroupID:     inv.Group.ID,
		GroupName:   inv.Group.Name,
		InviterID:   inv.Inviter.ID,
		InviterName: inv.Inviter.DisplayName,
	}
}

func toInvitationResponse(m domain.Membership, token string) groupsdk.InvitationResponse {
	return groupsdk.InvitationResponse{
		Membership:  toMembershipView(m),
		InviteToken: token,
		ExpiresAt:   m.ExpiresAt.Unix(),
	}
}
