package domain

import "time"

// GroupSettings controls how members join a group.
type GroupSettings struct {
	AllowInvitations bool
	RequireApproval  bool
	MaxMembers       int // 0 means unlimited
}

// Group is a collaborative space (household, shared shopping list). Every
// account owns exactly one personal group, created with the account and
// never deletable.
type Group struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedBy   string
	IsPersonal  bool
	Settings    GroupSettings
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptsInvitations reports whether new invitations may be created for the
// group at all. Personal groups never accept invitations.
func (g Group) AcceptsInvitations() bool {
	return !g.IsPersonal && g.Settings.AllowInvitations
}

// HasCapacity reports whether activeCount active members leave room for one
// more under the group's MaxMembers setting.
func (g Group) HasCapacity(activeCount int) bool {
	return g.Settings.MaxMembers == 0 || activeCount < g.Settings.MaxMembers
}
