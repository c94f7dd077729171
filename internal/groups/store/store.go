package store

import (
	"context"
	"errors"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrAlreadyExists   = errors.New("store: already exists")
	ErrVersionMismatch = errors.New("store: version mismatch")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Groups() Groups
	Memberships() Memberships

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back; otherwise it
	// is committed. Guarded transitions (admin-count checks and the
	// mutation they protect) must run through here so both happen against
	// the same snapshot.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByPhone returns a user by verified phone number.
	GetUserByPhone(ctx context.Context, phone string) (domain.User, error)

	// SetActiveGroup updates the active-group pointer and bumps updated_at.
	// The caller is responsible for checking an Active membership exists.
	SetActiveGroup(ctx context.Context, userID, groupID string) error
}

type Groups interface {
	// CreateGroup inserts a new group.
	CreateGroup(ctx context.Context, g domain.Group) error

	// GetGroupByID returns a group by id.
	GetGroupByID(ctx context.Context, id string) (domain.Group, error)

	// UpdateGroup rewrites name, description and settings, bumps updated_at.
	UpdateGroup(ctx context.Context, g domain.Group) error
}

type Memberships interface {
	// CreateMembership inserts a new membership row.
	CreateMembership(ctx context.Context, m domain.Membership) error

	// GetMembershipByID returns a membership by id regardless of status.
	GetMembershipByID(ctx context.Context, id string) (domain.Membership, error)

	// GetPendingByTokenHash returns the membership holding the token
	// fingerprint, only while it is Pending and not yet expired at "now".
	// Absent, terminal and expired rows are indistinguishable: all come
	// back ErrNotFound.
	GetPendingByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Membership, error)

	// GetActiveByUserAndGroup returns the single Active membership binding
	// the user to the group, if any.
	GetActiveByUserAndGroup(ctx context.Context, userID, groupID string) (domain.Membership, error)

	// UpdateMembership writes every mutable field of m conditioned on
	// m.Version matching the stored row, and bumps the stored version.
	// A lost race returns ErrVersionMismatch.
	UpdateMembership(ctx context.Context, m domain.Membership) error

	// CountActiveByGroup returns the number of Active memberships in a group.
	CountActiveByGroup(ctx context.Context, groupID string) (int, error)

	// CountActiveAdmins returns the number of Active admin memberships in a
	// group. Used inside guarded transitions for the last-admin invariant.
	CountActiveAdmins(ctx context.Context, groupID string) (int, error)

	// ListByGroup returns a page of the group's memberships, newest first,
	// optionally filtered by status (empty = all), plus the total count.
	ListByGroup(ctx context.Context, groupID string, status domain.MembershipStatus, page, limit int) ([]domain.Membership, int, error)

	// ListByUser returns a page of the user's memberships, newest first,
	// optionally filtered by status (empty = all), plus the total count.
	ListByUser(ctx context.Context, userID string, status domain.MembershipStatus, page, limit int) ([]domain.Membership, int, error)

	// ClearExpiredTokenHashes nulls the token fingerprint of pending
	// invitations whose expiry has passed. Housekeeping only; the rows
	// themselves are retained.
	ClearExpiredTokenHashes(ctx context.Context, now time.Time) (int64, error)
}
