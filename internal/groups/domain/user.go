package domain

import "time"

// User is the account view this core needs: identity comes from the
// external session layer, but the registry tracks the personal group and
// the active-group pointer.
type User struct {
	ID            string
	Phone         string
	DisplayName   string
	ActiveGroupID string // pointer to the current default group, not ownership
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
