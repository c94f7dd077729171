package policy

import (
	"testing"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/stretchr/testify/require"
)

func activeMembership(role domain.Role) *domain.Membership {
	return &domain.Membership{Status: domain.StatusActive, Role: role}
}

func TestAuthorizeCreateInvitation(t *testing.T) {
	t.Parallel()

	openGroup := domain.Group{
		Settings: domain.GroupSettings{AllowInvitations: true},
	}

	t.Run("admin of an open group may invite", func(t *testing.T) {
		d := Authorize(OpCreateInvitation, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Group:           openGroup,
		})
		require.True(t, d.Authorized())
	})

	t.Run("personal groups never accept invitations", func(t *testing.T) {
		d := Authorize(OpCreateInvitation, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Group: domain.Group{
				IsPersonal: true,
				Settings:   domain.GroupSettings{AllowInvitations: true},
			},
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("disabled invitations are rejected", func(t *testing.T) {
		d := Authorize(OpCreateInvitation, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Group:           domain.Group{},
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("non-admin members may not invite", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleEditor, domain.RoleContributor, domain.RoleViewer} {
			d := Authorize(OpCreateInvitation, Input{
				ActorMembership: activeMembership(role),
				Group:           openGroup,
			})
			require.Equal(t, EffectForbidden, d.Effect, "role %s", role)
		}
	})

	t.Run("removed admin may not invite", func(t *testing.T) {
		d := Authorize(OpCreateInvitation, Input{
			ActorMembership: &domain.Membership{Status: domain.StatusRemoved, Role: domain.RoleAdmin},
			Group:           openGroup,
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("full group rejects new invitations", func(t *testing.T) {
		capped := openGroup
		capped.Settings.MaxMembers = 3

		d := Authorize(OpCreateInvitation, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Group:           capped,
			ActiveMembers:   3,
		})
		require.Equal(t, EffectForbidden, d.Effect)

		d = Authorize(OpCreateInvitation, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Group:           capped,
			ActiveMembers:   2,
		})
		require.True(t, d.Authorized())
	})
}

func TestAuthorizeAcceptInvitation(t *testing.T) {
	t.Parallel()

	t.Run("unaddressed invitation accepts any bearer", func(t *testing.T) {
		d := Authorize(OpAcceptInvitation, Input{
			Target: domain.Membership{Status: domain.StatusPending},
		})
		require.True(t, d.Authorized())
	})

	t.Run("addressed invitation requires matching phone", func(t *testing.T) {
		target := domain.Membership{Status: domain.StatusPending, InviteePhone: "+61400000001"}

		d := Authorize(OpAcceptInvitation, Input{ActorPhone: "+61400000001", Target: target})
		require.True(t, d.Authorized())

		d = Authorize(OpAcceptInvitation, Input{ActorPhone: "+61400000002", Target: target})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("phone confirmation overrides mismatch", func(t *testing.T) {
		d := Authorize(OpAcceptInvitation, Input{
			ActorPhone:     "+61400000002",
			Target:         domain.Membership{Status: domain.StatusPending, InviteePhone: "+61400000001"},
			PhoneConfirmed: true,
		})
		require.True(t, d.Authorized())
	})
}

func TestAuthorizeDeclineInvitation(t *testing.T) {
	t.Parallel()

	// Holding the token is the whole authorization.
	d := Authorize(OpDeclineInvitation, Input{})
	require.True(t, d.Authorized())
}

func TestAuthorizeCancelAndResend(t *testing.T) {
	t.Parallel()

	target := domain.Membership{Status: domain.StatusPending, InvitedBy: "user-inviter"}

	for _, op := range []Operation{OpCancelInvitation, OpResendInvitation} {
		t.Run(string(op)+" by group admin", func(t *testing.T) {
			d := Authorize(op, Input{
				ActorID:         "user-admin",
				ActorMembership: activeMembership(domain.RoleAdmin),
				Target:          target,
			})
			require.True(t, d.Authorized())
		})

		t.Run(string(op)+" by original inviter", func(t *testing.T) {
			d := Authorize(op, Input{
				ActorID:         "user-inviter",
				ActorMembership: activeMembership(domain.RoleEditor),
				Target:          target,
			})
			require.True(t, d.Authorized())
		})

		t.Run(string(op)+" by unrelated member", func(t *testing.T) {
			d := Authorize(op, Input{
				ActorID:         "user-other",
				ActorMembership: activeMembership(domain.RoleEditor),
				Target:          target,
			})
			require.Equal(t, EffectForbidden, d.Effect)
		})
	}
}

func TestAuthorizeRoleChange(t *testing.T) {
	t.Parallel()

	t.Run("admin may change an active member's role", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleViewer},
			ActiveAdmins:    1,
		})
		require.True(t, d.Authorized())
	})

	t.Run("non-admin may not change roles", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership: activeMembership(domain.RoleEditor),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleViewer},
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("non-active target reads as not found", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusRemoved, Role: domain.RoleViewer},
		})
		require.Equal(t, EffectNotFound, d.Effect)
	})

	t.Run("demoting the last admin is rejected", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleAdmin},
			ActiveAdmins:    1,
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("demoting an admin is fine when another remains", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleAdmin},
			ActiveAdmins:    2,
		})
		require.True(t, d.Authorized())
	})

	t.Run("admin to admin role change skips the guard", func(t *testing.T) {
		d := Authorize(OpUpdateRole, Input{
			ActorMembership:      activeMembership(domain.RoleAdmin),
			Target:               domain.Membership{Status: domain.StatusActive, Role: domain.RoleAdmin},
			ActiveAdmins:         1,
			TargetWouldStayAdmin: true,
		})
		require.True(t, d.Authorized())
	})
}

func TestAuthorizeRemoveMember(t *testing.T) {
	t.Parallel()

	t.Run("admin may remove an active member", func(t *testing.T) {
		d := Authorize(OpRemoveMember, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleViewer},
			ActiveAdmins:    1,
		})
		require.True(t, d.Authorized())
	})

	t.Run("removing the last admin is rejected", func(t *testing.T) {
		d := Authorize(OpRemoveMember, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusActive, Role: domain.RoleAdmin},
			ActiveAdmins:    1,
		})
		require.Equal(t, EffectForbidden, d.Effect)
	})

	t.Run("non-active target reads as not found", func(t *testing.T) {
		d := Authorize(OpRemoveMember, Input{
			ActorMembership: activeMembership(domain.RoleAdmin),
			Target:          domain.Membership{Status: domain.StatusDeclined, Role: domain.RoleViewer},
		})
		require.Equal(t, EffectNotFound, d.Effect)
	})
}

func TestAuthorizeUpdateGroup(t *testing.T) {
	t.Parallel()

	t.Run("admin may update", func(t *testing.T) {
		d := Authorize(OpUpdateGroup, Input{ActorMembership: activeMembership(domain.RoleAdmin)})
		require.True(t, d.Authorized())
	})

	t.Run("member may not update", func(t *testing.T) {
		d := Authorize(OpUpdateGroup, Input{ActorMembership: activeMembership(domain.RoleContributor)})
		require.Equal(t, EffectForbidden, d.Effect)
	})
}

func TestAuthorizeUnknownOperation(t *testing.T) {
	t.Parallel()

	d := Authorize(Operation("nonsense"), Input{ActorMembership: activeMembership(domain.RoleAdmin)})
	require.Equal(t, EffectForbidden, d.Effect)
}
