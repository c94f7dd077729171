package service

import "errors"

// Service errors map onto the four failure classes the API exposes:
// validation, not-found-or-expired, forbidden and conflict. Absent,
// terminal and expired invitations all surface as ErrInvitationNotFound so
// callers cannot probe which tokens exist.
var (
	ErrValidation  = errors.New("invalid request")
	ErrInvalidRole = errors.New("invalid role")

	ErrInvitationNotFound = errors.New("invitation not found or expired")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrForbidden = errors.New("operation not permitted")

	// ErrConflict reports a lost optimistic-concurrency race: the record
	// changed between snapshot and write, typically because the invitation
	// was already handled.
	ErrConflict = errors.New("record was modified concurrently")

	// ErrAlreadyMember reports an accept for a (user, group) pair that
	// already holds an active membership.
	ErrAlreadyMember = errors.New("user is already an active member of the group")

	// ErrPhoneRegistered reports an account creation with a phone number
	// that already has an account.
	ErrPhoneRegistered = errors.New("phone number already registered")
)
