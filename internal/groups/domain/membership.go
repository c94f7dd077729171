package domain

import "time"

// MembershipStatus is the lifecycle state of a membership record.
//
// Pending may move to Active, Declined or Removed. Active may move to
// Removed. Declined and Removed are terminal; re-joining a group always
// takes a brand-new invitation record.
type MembershipStatus string

const (
	StatusPending  MembershipStatus = "pending"
	StatusActive   MembershipStatus = "active"
	StatusDeclined MembershipStatus = "declined"
	StatusRemoved  MembershipStatus = "removed"
)

// Valid reports whether s is a known status.
func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDeclined, StatusRemoved:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s MembershipStatus) Terminal() bool {
	return s == StatusDeclined || s == StatusRemoved
}

// Membership binds a user (or pending invitee) to a group with a role and
// lifecycle status. While Pending it doubles as the invitation: the raw
// token is only ever held by the invitee, the record keeps its fingerprint.
// Terminal records are retained for history, never deleted.
type Membership struct {
	ID           string
	UserID       string // empty until acceptance binds an account
	GroupID      string
	InviteePhone string // pre-acceptance contact hint, optional
	InvitedBy    string
	Status       MembershipStatus
	Role         Role
	TokenHash    string // fingerprint of the live token; set only while Pending
	PhoneSecret  string // HOTP secret for phone confirmation codes, optional
	PhoneCounter uint64 // HOTP counter, bumped on resend
	ExpiresAt    time.Time
	AcceptedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Version guards every mutation: writes are conditioned on the version
	// read at the start of the operation, so a losing concurrent writer
	// observes a conflict instead of clobbering the transition.
	Version int64
}

// Pending reports whether the membership is an open invitation.
func (m Membership) Pending() bool { return m.Status == StatusPending }

// Active reports whether the membership grants current group access.
func (m Membership) Active() bool { return m.Status == StatusActive }

// Expired reports whether a pending invitation has passed its expiry.
// Expiry is lazy: rows are not rewritten at the deadline, lookups simply
// stop resolving them.
func (m Membership) Expired(now time.Time) bool {
	return m.Status == StatusPending && !now.Before(m.ExpiresAt)
}
