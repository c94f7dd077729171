package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/store"
	"github.com/quittly/quittly/internal/groups/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// fixture wires the three services against one fresh in-memory store.
type fixture struct {
	store store.Store

	groups      *GroupService
	invitations *InvitationService
	memberships *MembershipService

	phoneSeq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	return &fixture{
		store:       st,
		groups:      &GroupService{Store: st},
		invitations: &InvitationService{Store: st},
		memberships: &MembershipService{Store: st},
	}
}

// account provisions a user with a unique phone number.
func (f *fixture) account(t *testing.T, displayName string) domain.User {
	t.Helper()

	f.phoneSeq++
	user, _, err := f.groups.CreateAccount(
		context.Background(),
		fmt.Sprintf("+6140000%04d", f.phoneSeq),
		displayName,
	)
	require.NoError(t, err)
	return user
}

// sharedGroup creates an invitation-friendly group owned by ownerID.
func (f *fixture) sharedGroup(t *testing.T, ownerID, name string) domain.Group {
	t.Helper()

	group, err := f.groups.CreateGroup(context.Background(), ownerID, name, "", domain.GroupSettings{
		AllowInvitations: true,
	})
	require.NoError(t, err)
	return group
}

// join runs the full invite/accept handshake to make userID an active
// member of the group with the given role.
func (f *fixture) join(t *testing.T, inviterID string, groupID string, userID string, role domain.Role) domain.Membership {
	t.Helper()

	ctx := context.Background()
	_, token, err := f.invitations.CreateInvitation(ctx, groupID, inviterID, role, "")
	require.NoError(t, err)

	m, err := f.invitations.AcceptInvitation(ctx, token, userID, "")
	require.NoError(t, err)
	return m
}

// expire rewinds a membership's expiry into the past.
func (f *fixture) expire(t *testing.T, membershipID string) {
	t.Helper()

	ctx := context.Background()
	m, err := f.store.Memberships().GetMembershipByID(ctx, membershipID)
	require.NoError(t, err)

	m.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, f.store.Memberships().UpdateMembership(ctx, m))
}
