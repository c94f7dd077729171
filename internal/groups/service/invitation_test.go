package service

import (
	"context"
	"testing"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("admin creates a pending invitation", func(t *testing.T) {
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, domain.RoleEditor, "")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, domain.StatusPending, m.Status)
		require.Equal(t, domain.RoleEditor, m.Role)
		require.Empty(t, m.UserID)
		require.WithinDuration(t, time.Now().Add(InvitationTTL), m.ExpiresAt, time.Minute)

		// The raw token is never persisted, only its fingerprint.
		stored, err := f.store.Memberships().GetMembershipByID(ctx, m.ID)
		require.NoError(t, err)
		require.NotEmpty(t, stored.TokenHash)
		require.NotEqual(t, token, stored.TokenHash)
	})

	t.Run("role defaults to contributor", func(t *testing.T) {
		m, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)
		require.Equal(t, domain.RoleContributor, m.Role)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "superuser", "")
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown group is rejected", func(t *testing.T) {
		_, _, err := f.invitations.CreateInvitation(ctx, "no-such-group", admin.ID, "", "")
		require.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("non-admin member may not invite", func(t *testing.T) {
		editor := f.account(t, "Bob")
		f.join(t, admin.ID, group.ID, editor.ID, domain.RoleEditor)

		_, _, err := f.invitations.CreateInvitation(ctx, group.ID, editor.ID, "", "")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("personal groups never take invitations", func(t *testing.T) {
		owner := f.account(t, "Carol")

		_, _, err := f.invitations.CreateInvitation(ctx, owner.ActiveGroupID, owner.ID, "", "")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("closed groups reject invitations", func(t *testing.T) {
		owner := f.account(t, "Dave")
		closed, err := f.groups.CreateGroup(ctx, owner.ID, "Closed", "", domain.GroupSettings{})
		require.NoError(t, err)

		_, _, err = f.invitations.CreateInvitation(ctx, closed.ID, owner.ID, "", "")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("full groups reject invitations", func(t *testing.T) {
		owner := f.account(t, "Eve")
		capped, err := f.groups.CreateGroup(ctx, owner.ID, "Capped", "", domain.GroupSettings{
			AllowInvitations: true,
			MaxMembers:       1, // the founder already fills it
		})
		require.NoError(t, err)

		_, _, err = f.invitations.CreateInvitation(ctx, capped.ID, owner.ID, "", "")
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestGetInvitationByToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("resolves to membership, group and inviter", func(t *testing.T) {
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		inv, err := f.invitations.GetInvitationByToken(ctx, token)
		require.NoError(t, err)
		require.Equal(t, m.ID, inv.Membership.ID)
		require.Equal(t, group.Name, inv.Group.Name)
		require.Equal(t, admin.DisplayName, inv.Inviter.DisplayName)
	})

	t.Run("unknown token reads as not found", func(t *testing.T) {
		_, err := f.invitations.GetInvitationByToken(ctx, "never-issued")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("expired token reads as not found", func(t *testing.T) {
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)
		f.expire(t, m.ID)

		_, err = f.invitations.GetInvitationByToken(ctx, token)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})
}

func TestAcceptInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("accept activates and retires the token", func(t *testing.T) {
		invitee := f.account(t, "Bob")
		created, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		m, err := f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, m.Status)
		require.Equal(t, invitee.ID, m.UserID)
		require.NotNil(t, m.AcceptedAt)
		require.Greater(t, m.Version, created.Version)

		// The token is consumed and indistinguishable from a bad one.
		_, err = f.invitations.GetInvitationByToken(ctx, token)
		require.ErrorIs(t, err, ErrInvitationNotFound)

		stored, err := f.store.Memberships().GetMembershipByID(ctx, m.ID)
		require.NoError(t, err)
		require.Empty(t, stored.TokenHash)
	})

	t.Run("second accept of the same token fails", func(t *testing.T) {
		first := f.account(t, "Carol")
		second := f.account(t, "Dave")
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, first.ID, "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, second.ID, "")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("expired invitation cannot be accepted", func(t *testing.T) {
		invitee := f.account(t, "Erin")
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)
		f.expire(t, m.ID)

		_, err = f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("existing active member cannot accept again", func(t *testing.T) {
		member := f.account(t, "Frank")
		f.join(t, admin.ID, group.ID, member.ID, domain.RoleViewer)

		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, member.ID, "")
		require.ErrorIs(t, err, ErrAlreadyMember)
	})

	t.Run("unknown user cannot accept", func(t *testing.T) {
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, "no-such-user", "")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAcceptInvitationPhoneAddressed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("matching session phone accepts without a code", func(t *testing.T) {
		invitee := f.account(t, "Grace")
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", invitee.Phone)
		require.NoError(t, err)

		m, err := f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, m.Status)
	})

	t.Run("mismatched phone without a code is forbidden", func(t *testing.T) {
		other := f.account(t, "Heidi")
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "+61499999999")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, other.ID, "")
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("confirmation code stands in for the phone match", func(t *testing.T) {
		other := f.account(t, "Ivan")
		created, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "+61488888888")
		require.NoError(t, err)

		stored, err := f.store.Memberships().GetMembershipByID(ctx, created.ID)
		require.NoError(t, err)
		code, err := f.invitations.PhoneCode(stored)
		require.NoError(t, err)

		m, err := f.invitations.AcceptInvitation(ctx, token, other.ID, code)
		require.NoError(t, err)
		require.Equal(t, domain.StatusActive, m.Status)
	})

	t.Run("wrong code is forbidden", func(t *testing.T) {
		other := f.account(t, "Judy")
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "+61477777777")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, other.ID, "000000")
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDeclineInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("decline retires the token", func(t *testing.T) {
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		m, err := f.invitations.DeclineInvitation(ctx, token)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDeclined, m.Status)

		_, err = f.invitations.GetInvitationByToken(ctx, token)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("declining twice fails the second time", func(t *testing.T) {
		_, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.DeclineInvitation(ctx, token)
		require.NoError(t, err)

		_, err = f.invitations.DeclineInvitation(ctx, token)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("declined records stay terminal", func(t *testing.T) {
		invitee := f.account(t, "Bob")
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.DeclineInvitation(ctx, token)
		require.NoError(t, err)

		// The token no longer resolves for accept either.
		_, err = f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.ErrorIs(t, err, ErrInvitationNotFound)

		stored, err := f.store.Memberships().GetMembershipByID(ctx, m.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusDeclined, stored.Status)
	})
}

func TestCancelInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("group admin cancels a pending invitation", func(t *testing.T) {
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		cancelled, err := f.invitations.CancelInvitation(ctx, m.ID, admin.ID)
		require.NoError(t, err)
		require.Equal(t, domain.StatusRemoved, cancelled.Status)

		_, err = f.invitations.GetInvitationByToken(ctx, token)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("unrelated member may not cancel", func(t *testing.T) {
		member := f.account(t, "Bob")
		f.join(t, admin.ID, group.ID, member.ID, domain.RoleEditor)

		m, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.CancelInvitation(ctx, m.ID, member.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("accepted records cannot be cancelled", func(t *testing.T) {
		invitee := f.account(t, "Carol")
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.NoError(t, err)

		_, err = f.invitations.CancelInvitation(ctx, m.ID, admin.ID)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("unknown membership id reads as not found", func(t *testing.T) {
		_, err := f.invitations.CancelInvitation(ctx, "no-such-membership", admin.ID)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})
}

func TestResendInvitation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	admin := f.account(t, "Alice")
	group := f.sharedGroup(t, admin.ID, "Household")

	t.Run("resend rotates the token", func(t *testing.T) {
		invitee := f.account(t, "Bob")
		m, oldToken, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		resent, newToken, err := f.invitations.ResendInvitation(ctx, m.ID, admin.ID)
		require.NoError(t, err)
		require.NotEqual(t, oldToken, newToken)
		require.Equal(t, domain.StatusPending, resent.Status)

		// Old token is dead, new one redeems.
		_, err = f.invitations.GetInvitationByToken(ctx, oldToken)
		require.ErrorIs(t, err, ErrInvitationNotFound)

		accepted, err := f.invitations.AcceptInvitation(ctx, newToken, invitee.ID, "")
		require.NoError(t, err)
		require.Equal(t, m.ID, accepted.ID)
	})

	t.Run("resend refreshes expiry of an old invitation", func(t *testing.T) {
		m, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)
		f.expire(t, m.ID)

		resent, newToken, err := f.invitations.ResendInvitation(ctx, m.ID, admin.ID)
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(InvitationTTL), resent.ExpiresAt, time.Minute)

		_, err = f.invitations.GetInvitationByToken(ctx, newToken)
		require.NoError(t, err)
	})

	t.Run("unrelated member may not resend", func(t *testing.T) {
		member := f.account(t, "Carol")
		f.join(t, admin.ID, group.ID, member.ID, domain.RoleViewer)

		m, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, _, err = f.invitations.ResendInvitation(ctx, m.ID, member.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("accepted records cannot be resent", func(t *testing.T) {
		invitee := f.account(t, "Dave")
		m, token, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "")
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, token, invitee.ID, "")
		require.NoError(t, err)

		_, _, err = f.invitations.ResendInvitation(ctx, m.ID, admin.ID)
		require.ErrorIs(t, err, ErrInvitationNotFound)
	})

	t.Run("resend invalidates the outstanding phone code", func(t *testing.T) {
		other := f.account(t, "Erin")
		created, _, err := f.invitations.CreateInvitation(ctx, group.ID, admin.ID, "", "+61466666666")
		require.NoError(t, err)

		stored, err := f.store.Memberships().GetMembershipByID(ctx, created.ID)
		require.NoError(t, err)
		staleCode, err := f.invitations.PhoneCode(stored)
		require.NoError(t, err)

		_, newToken, err := f.invitations.ResendInvitation(ctx, created.ID, admin.ID)
		require.NoError(t, err)

		_, err = f.invitations.AcceptInvitation(ctx, newToken, other.ID, staleCode)
		require.ErrorIs(t, err, ErrForbidden)

		rotated, err := f.store.Memberships().GetMembershipByID(ctx, created.ID)
		require.NoError(t, err)
		freshCode, err := f.invitations.PhoneCode(rotated)
		require.NoError(t, err)
		require.NotEqual(t, staleCode, freshCode)

		_, err = f.invitations.AcceptInvitation(ctx, newToken, other.ID, freshCode)
		require.NoError(t, err)
	})
}
