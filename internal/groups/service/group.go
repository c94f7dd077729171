package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/policy"
	"github.com/quittly/quittly/internal/groups/store"
	"github.com/quittly/quittly/pkg/idx"
	"github.com/quittly/quittly/pkg/slogx"
)

// GroupService is the group registry: account bootstrap with the personal
// group, shared group creation, settings updates and the active-group
// pointer.
type GroupService struct {
	Store store.Store
}

// CreateAccount provisions a user together with their personal group.
// The user, the group, its sole admin membership and the active-group
// pointer are one atomic unit; if any write fails nothing is kept.
func (s *GroupService) CreateAccount(ctx context.Context, phone, displayName string) (domain.User, domain.Group, error) {
	log := slogx.FromContext(ctx)

	phone = strings.TrimSpace(phone)
	displayName = strings.TrimSpace(displayName)
	if phone == "" || displayName == "" {
		return domain.User{}, domain.Group{}, ErrValidation
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:          idx.New().String(),
		Phone:       phone,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	group := domain.Group{
		ID:          idx.New().String(),
		Name:        displayName,
		Description: "",
		OwnerID:     user.ID,
		CreatedBy:   user.ID,
		IsPersonal:  true,
		// Personal groups never take invitations regardless of settings.
		Settings:  domain.GroupSettings{AllowInvitations: false},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrPhoneRegistered
			}
			return err
		}

		if err := tx.Groups().CreateGroup(ctx, group); err != nil {
			return err
		}

		if err := tx.Memberships().CreateMembership(ctx, founderMembership(user.ID, group.ID, now)); err != nil {
			return err
		}

		user.ActiveGroupID = group.ID
		return tx.Users().SetActiveGroup(ctx, user.ID, group.ID)
	})
	if err != nil {
		return domain.User{}, domain.Group{}, err
	}

	log.Info("account created",
		slog.String("user_id", user.ID),
		slog.String("personal_group_id", group.ID),
	)
	return user, group, nil
}

// CreateGroup creates a shared group with the creator as its sole active
// admin.
func (s *GroupService) CreateGroup(
	ctx context.Context,
	creatorID string,
	name string,
	description string,
	settings domain.GroupSettings,
) (domain.Group, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if creatorID == "" || name == "" {
		return domain.Group{}, ErrValidation
	}
	if settings.MaxMembers < 0 {
		return domain.Group{}, ErrValidation
	}

	now := time.Now().UTC()
	group := domain.Group{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     creatorID,
		CreatedBy:   creatorID,
		IsPersonal:  false,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, creatorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Groups().CreateGroup(ctx, group); err != nil {
			return err
		}

		return tx.Memberships().CreateMembership(ctx, founderMembership(creatorID, group.ID, now))
	})
	if err != nil {
		return domain.Group{}, err
	}

	log.Info("group created",
		slog.String("group_id", group.ID),
		slog.String("created_by", creatorID),
	)
	return group, nil
}

// GetGroup returns a group by id.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (domain.Group, error) {
	if groupID == "" {
		return domain.Group{}, ErrValidation
	}

	group, err := s.Store.Groups().GetGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Group{}, ErrGroupNotFound
		}
		return domain.Group{}, err
	}
	return group, nil
}

// UpdateGroup rewrites a group's name, description and settings. Requires
// an active admin membership.
func (s *GroupService) UpdateGroup(
	ctx context.Context,
	groupID string,
	updaterID string,
	name string,
	description string,
	settings domain.GroupSettings,
) (domain.Group, error) {
	log := slogx.FromContext(ctx)

	name = strings.TrimSpace(name)
	if groupID == "" || updaterID == "" || name == "" {
		return domain.Group{}, ErrValidation
	}
	if settings.MaxMembers < 0 {
		return domain.Group{}, ErrValidation
	}

	now := time.Now().UTC()

	var group domain.Group
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		g, err := tx.Groups().GetGroupByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		actorMembership, err := activeMembershipOrNil(ctx, tx, updaterID, groupID)
		if err != nil {
			return err
		}

		decision := policy.Authorize(policy.OpUpdateGroup, policy.Input{
			ActorID:         updaterID,
			ActorMembership: actorMembership,
			Group:           g,
		})
		if !decision.Authorized() {
			log.Warn("group update denied",
				slog.String("group_id", groupID),
				slog.String("actor_id", updaterID),
				slog.String("reason", decision.Reason),
			)
			return fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
		}

		g.Name = name
		g.Description = description
		if !g.IsPersonal {
			g.Settings = settings
		}
		g.UpdatedAt = now

		if err := tx.Groups().UpdateGroup(ctx, g); err != nil {
			return err
		}

		group = g
		return nil
	})
	if err != nil {
		return domain.Group{}, err
	}

	log.Info("group updated", slog.String("group_id", group.ID))
	return group, nil
}

// SetActiveGroup points a user's default-context reference at a group.
// The pointer is only valid while an active membership exists there.
func (s *GroupService) SetActiveGroup(ctx context.Context, userID, groupID string) error {
	log := slogx.FromContext(ctx)

	if userID == "" || groupID == "" {
		return ErrValidation
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Memberships().GetActiveByUserAndGroup(ctx, userID, groupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: no active membership in the group", ErrForbidden)
			}
			return err
		}

		return tx.Users().SetActiveGroup(ctx, userID, groupID)
	})
	if err != nil {
		return err
	}

	log.Info("active group set",
		slog.String("user_id", userID),
		slog.String("group_id", groupID),
	)
	return nil
}

// GetUser returns a user by id.
func (s *GroupService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, ErrValidation
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// founderMembership is the active admin membership a group starts with.
func founderMembership(userID, groupID string, now time.Time) domain.Membership {
	return domain.Membership{
		ID:         idx.New().String(),
		UserID:     userID,
		GroupID:    groupID,
		InvitedBy:  userID,
		Status:     domain.StatusActive,
		Role:       domain.RoleAdmin,
		AcceptedAt: &now,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
	}
}
