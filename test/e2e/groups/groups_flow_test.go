package groups_test

import (
	"net/http"
	"testing"

	"github.com/quittly/quittly/pkg/groupsdk"
	"github.com/stretchr/testify/require"
)

// TestFullMembershipLifecycle walks the whole journey: two accounts, a
// shared group, an invitation issued, looked up and accepted, role and
// active-group changes, and finally removal.
func TestFullMembershipLifecycle(t *testing.T) {
	baseURL, verifier := setupGroupsServer(t)
	client := groupsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	// Two registered accounts, each with a personal group.
	alice, aliceSession := createAccountSession(t, client, verifier, "+61400000001", "Alice")
	bob, bobSession := createAccountSession(t, client, verifier, "+61400000002", "Bob")

	require.True(t, alice.PersonalGroup.IsPersonal)
	require.Equal(t, alice.PersonalGroup.ID, alice.User.ActiveGroupID)

	// Alice opens a shared household group.
	household, err := aliceSession.CreateGroup(ctx, groupsdk.CreateGroupRequest{
		Name: "Household",
		Settings: groupsdk.GroupSettings{
			AllowInvitations: true,
			MaxMembers:       6,
		},
	})
	require.NoError(t, err)
	require.False(t, household.IsPersonal)

	// She invites Bob as an editor.
	invite, err := aliceSession.CreateInvitation(ctx, groupsdk.CreateInvitationRequest{
		GroupID: household.ID,
		Role:    "editor",
	})
	require.NoError(t, err)
	require.NotEmpty(t, invite.InviteToken)
	require.Equal(t, "pending", invite.Membership.Status)

	// The landing-page lookup needs no session.
	view, err := client.GetInvitation(ctx, invite.InviteToken)
	require.NoError(t, err)
	require.Equal(t, "Household", view.GroupName)
	require.Equal(t, "Alice", view.InviterName)

	// Bob accepts and becomes an active editor.
	accepted, err := bobSession.AcceptInvitation(ctx, invite.InviteToken, "")
	require.NoError(t, err)
	require.Equal(t, "active", accepted.Status)
	require.Equal(t, "editor", accepted.Role)
	require.Equal(t, bob.User.ID, accepted.UserID)

	// The consumed token is gone for good.
	_, err = client.GetInvitation(ctx, invite.InviteToken)
	requireAPIError(t, err, http.StatusNotFound)

	// Bob switches his default group to the household.
	me, err := bobSession.SetActiveGroup(ctx, household.ID)
	require.NoError(t, err)
	require.Equal(t, household.ID, me.ActiveGroupID)

	// Both memberships show up in the group listing.
	page, err := bobSession.ListGroupMemberships(ctx, household.ID, "active", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	// Alice promotes Bob to admin, then Bob may demote Alice.
	promoted, err := aliceSession.UpdateRole(ctx, accepted.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, "admin", promoted.Role)

	aliceMembership := findMembership(t, page.Memberships, alice.User.ID)
	demoted, err := bobSession.UpdateRole(ctx, aliceMembership.ID, "viewer")
	require.NoError(t, err)
	require.Equal(t, "viewer", demoted.Role)

	// Bob removes Alice from the group entirely.
	removed, err := bobSession.RemoveMember(ctx, aliceMembership.ID)
	require.NoError(t, err)
	require.Equal(t, "removed", removed.Status)

	// Alice can no longer see the group's membership list.
	_, err = aliceSession.ListGroupMemberships(ctx, household.ID, "", 0, 0)
	requireAPIError(t, err, http.StatusForbidden)

	// Her own history still shows the removed record.
	mine, err := aliceSession.ListMyMemberships(ctx, "removed", 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, mine.Total)
	require.Equal(t, household.ID, mine.Memberships[0].GroupID)
}

// TestAccountBootstrap verifies account creation edge cases over HTTP.
func TestAccountBootstrap(t *testing.T) {
	baseURL, verifier := setupGroupsServer(t)
	client := groupsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	account, session := createAccountSession(t, client, verifier, "+61400000010", "Carol")

	t.Run("me reflects the new account", func(t *testing.T) {
		me, err := session.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, account.User.ID, me.ID)
		require.Equal(t, account.PersonalGroup.ID, me.ActiveGroupID)
	})

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		_, err := client.CreateAccount(ctx, groupsdk.CreateAccountRequest{
			Phone:       "+61400000010",
			DisplayName: "Imposter",
		})
		requireAPIError(t, err, http.StatusConflict)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		_, err := client.CreateAccount(ctx, groupsdk.CreateAccountRequest{Phone: "+61400000011"})
		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("personal group cannot take invitations", func(t *testing.T) {
		_, err := session.CreateInvitation(ctx, groupsdk.CreateInvitationRequest{
			GroupID: account.PersonalGroup.ID,
		})
		requireAPIError(t, err, http.StatusForbidden)
	})
}

// TestAuthenticationRequired verifies protected endpoints reject missing and
// garbage tokens.
func TestAuthenticationRequired(t *testing.T) {
	baseURL, _ := setupGroupsServer(t)
	client := groupsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	t.Run("no session", func(t *testing.T) {
		_, err := client.NewSession("").Me(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)
	})

	t.Run("garbage session", func(t *testing.T) {
		_, err := client.NewSession("not-a-token").Me(ctx)
		requireAPIError(t, err, http.StatusUnauthorized)
	})
}

func findMembership(t *testing.T, memberships []groupsdk.Membership, userID string) groupsdk.Membership {
	t.Helper()

	for _, m := range memberships {
		if m.UserID == userID {
			return m
		}
	}
	t.Fatalf("no membership for user %s", userID)
	return groupsdk.Membership{}
}
