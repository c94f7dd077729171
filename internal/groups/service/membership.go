package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/policy"
	"github.com/quittly/quittly/internal/groups/store"
	"github.com/quittly/quittly/pkg/slogx"
)

// Page bounds for membership listings.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// MembershipPage is one page of a membership listing.
type MembershipPage struct {
	Memberships []domain.Membership
	Total       int
	Page        int
	Limit       int
}

// MembershipService owns operations on Active memberships: role changes,
// removal and listings.
type MembershipService struct {
	Store store.Store
}

// UpdateRole changes the role of an active membership. No state
// transition; Active stays Active. The last active admin of a group cannot
// be demoted.
func (s *MembershipService) UpdateRole(
	ctx context.Context,
	membershipID string,
	newRole domain.Role,
	updaterID string,
) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if membershipID == "" || updaterID == "" {
		return domain.Membership{}, ErrValidation
	}
	if !newRole.Valid() {
		return domain.Membership{}, ErrInvalidRole
	}

	now := time.Now().UTC()

	var membership domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, group, actorMembership, activeAdmins, err := s.loadSnapshot(ctx, tx, membershipID, updaterID)
		if err != nil {
			return err
		}

		decision := policy.Authorize(policy.OpUpdateRole, policy.Input{
			ActorID:              updaterID,
			ActorMembership:      actorMembership,
			Target:               m,
			Group:                group,
			ActiveAdmins:         activeAdmins,
			TargetWouldStayAdmin: newRole.IsAdmin(),
		})
		if err := mapDecision(decision, log, "update_role", m.ID, updaterID); err != nil {
			return err
		}

		m.Role = newRole
		m.UpdatedAt = now

		if err := tx.Memberships().UpdateMembership(ctx, m); err != nil {
			if errors.Is(err, store.ErrVersionMismatch) {
				return ErrConflict
			}
			return err
		}

		m.Version++
		membership = m
		return nil
	})
	if err != nil {
		return domain.Membership{}, err
	}

	log.Info("membership role updated",
		slog.String("membership_id", membership.ID),
		slog.String("role", string(newRole)),
		slog.String("updated_by", updaterID),
	)
	return membership, nil
}

// RemoveMember moves an active membership to Removed. The last active
// admin of a group cannot be removed. The admin-count check and the write
// run in one transaction so concurrent removals cannot both pass it.
func (s *MembershipService) RemoveMember(
	ctx context.Context,
	membershipID string,
	removerID string,
) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if membershipID == "" || removerID == "" {
		return domain.Membership{}, ErrValidation
	}

	now := time.Now().UTC()

	var membership domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, group, actorMembership, activeAdmins, err := s.loadSnapshot(ctx, tx, membershipID, removerID)
		if err != nil {
			return err
		}

		decision := policy.Authorize(policy.OpRemoveMember, policy.Input{
			ActorID:         removerID,
			ActorMembership: actorMembership,
			Target:          m,
			Group:           group,
			ActiveAdmins:    activeAdmins,
		})
		if err := mapDecision(decision, log, "remove_member", m.ID, removerID); err != nil {
			return err
		}

		m.Status = domain.StatusRemoved
		m.UpdatedAt = now

		if err := tx.Memberships().UpdateMembership(ctx, m); err != nil {
			if errors.Is(err, store.ErrVersionMismatch) {
				return ErrConflict
			}
			return err
		}

		m.Version++
		membership = m
		return nil
	})
	if err != nil {
		return domain.Membership{}, err
	}

	log.Info("member removed",
		slog.String("membership_id", membership.ID),
		slog.String("group_id", membership.GroupID),
		slog.String("removed_by", removerID),
	)
	return membership, nil
}

// ListGroupMemberships returns a page of a group's memberships, optionally
// filtered by status. The caller must hold an active membership in the
// group.
func (s *MembershipService) ListGroupMemberships(
	ctx context.Context,
	groupID string,
	callerID string,
	status domain.MembershipStatus,
	page, limit int,
) (MembershipPage, error) {
	if groupID == "" || callerID == "" {
		return MembershipPage{}, ErrValidation
	}
	if status != "" && !status.Valid() {
		return MembershipPage{}, ErrValidation
	}
	page, limit = clampPage(page, limit)

	_, err := s.Store.Memberships().GetActiveByUserAndGroup(ctx, callerID, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return MembershipPage{}, fmt.Errorf("%w: caller is not a member of the group", ErrForbidden)
		}
		return MembershipPage{}, err
	}

	memberships, total, err := s.Store.Memberships().ListByGroup(ctx, groupID, status, page, limit)
	if err != nil {
		return MembershipPage{}, err
	}
	return MembershipPage{Memberships: memberships, Total: total, Page: page, Limit: limit}, nil
}

// ListUserMemberships returns a page of the caller's own memberships,
// optionally filtered by status.
func (s *MembershipService) ListUserMemberships(
	ctx context.Context,
	userID string,
	status domain.MembershipStatus,
	page, limit int,
) (MembershipPage, error) {
	if userID == "" {
		return MembershipPage{}, ErrValidation
	}
	if status != "" && !status.Valid() {
		return MembershipPage{}, ErrValidation
	}
	page, limit = clampPage(page, limit)

	memberships, total, err := s.Store.Memberships().ListByUser(ctx, userID, status, page, limit)
	if err != nil {
		return MembershipPage{}, err
	}
	return MembershipPage{Memberships: memberships, Total: total, Page: page, Limit: limit}, nil
}

// loadSnapshot gathers the target membership, its group, the actor's
// membership and the group's admin count in the caller's transaction.
func (s *MembershipService) loadSnapshot(
	ctx context.Context,
	tx store.Tx,
	membershipID string,
	actorID string,
) (domain.Membership, domain.Group, *domain.Membership, int, error) {
	m, err := tx.Memberships().GetMembershipByID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, domain.Group{}, nil, 0, ErrMembershipNotFound
		}
		return domain.Membership{}, domain.Group{}, nil, 0, err
	}

	group, err := tx.Groups().GetGroupByID(ctx, m.GroupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Membership{}, domain.Group{}, nil, 0, ErrGroupNotFound
		}
		return domain.Membership{}, domain.Group{}, nil, 0, err
	}

	actorMembership, err := activeMembershipOrNil(ctx, tx, actorID, m.GroupID)
	if err != nil {
		return domain.Membership{}, domain.Group{}, nil, 0, err
	}

	activeAdmins, err := tx.Memberships().CountActiveAdmins(ctx, m.GroupID)
	if err != nil {
		return domain.Membership{}, domain.Group{}, nil, 0, err
	}

	return m, group, actorMembership, activeAdmins, nil
}

// mapDecision converts a policy decision into the service error taxonomy.
func mapDecision(d policy.Decision, log *slog.Logger, op, targetID, actorID string) error {
	switch d.Effect {
	case policy.EffectAuthorized:
		return nil
	case policy.EffectNotFound:
		return ErrMembershipNotFound
	default:
		log.Warn("membership operation denied",
			slog.String("operation", op),
			slog.String("membership_id", targetID),
			slog.String("actor_id", actorID),
			slog.String("reason", d.Reason),
		)
		return fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 1:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return page, limit
}
