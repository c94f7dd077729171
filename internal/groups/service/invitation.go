package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"

	"github.com/quittly/quittly/internal/groups/domain"
	"github.com/quittly/quittly/internal/groups/policy"
	"github.com/quittly/quittly/internal/groups/store"
	"github.com/quittly/quittly/pkg/cryptox"
	"github.com/quittly/quittly/pkg/idx"
	"github.com/quittly/quittly/pkg/slogx"
)

const (
	// InvitationTTL is how long a freshly issued (or resent) invitation
	// token stays redeemable.
	InvitationTTL = 7 * 24 * time.Hour

	// DefaultInviteRole is used when CreateInvitation is called without an
	// explicit role.
	DefaultInviteRole = domain.RoleContributor

	phoneSecretBytes = 20
	phoneCodeDigits  = otp.DigitsSix
)

// Invitation is the token-lookup view: the pending membership joined with
// its group and the inviting user, which is what an invite landing page
// needs to render.
type Invitation struct {
	Membership domain.Membership
	Group      domain.Group
	Inviter    domain.User
}

// InvitationService owns the Pending half of the membership lifecycle:
// issuing invitations and moving them to Active, Declined or Removed.
type InvitationService struct {
	Store store.Store
}

// CreateInvitation issues a new pending membership for a group and returns
// it together with the raw invitation token. The token is never stored;
// only its fingerprint is.
func (s *InvitationService) CreateInvitation(
	ctx context.Context,
	groupID string,
	invitedBy string,
	role domain.Role,
	inviteePhone string,
) (domain.Membership, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input. Role defaults to contributor when omitted.
	if groupID == "" || invitedBy == "" {
		return domain.Membership{}, "", ErrValidation
	}
	if role == "" {
		role = DefaultInviteRole
	}
	if !role.Valid() {
		log.Warn("attempted to create invitation with invalid role",
			slog.String("role", string(role)),
		)
		return domain.Membership{}, "", ErrInvalidRole
	}

	// 2. Generate the token and its stored fingerprint up front so the
	// transaction below holds no crypto work.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Membership{}, "", err
	}
	fingerprint := cryptox.FingerprintToken(token)

	// 3. Invitations addressed to a phone number also carry an HOTP secret
	// so a confirmation code can be issued out of band.
	var phoneSecret string
	if inviteePhone != "" {
		phoneSecret, err = newPhoneSecret()
		if err != nil {
			log.Error("failed to generate phone secret", slog.Any("error", err))
			return domain.Membership{}, "", err
		}
	}

	now := time.Now().UTC()
	membership := domain.Membership{
		ID:           idx.New().String(),
		GroupID:      groupID,
		InviteePhone: inviteePhone,
		InvitedBy:    invitedBy,
		Status:       domain.StatusPending,
		Role:         role,
		TokenHash:    fingerprint,
		PhoneSecret:  phoneSecret,
		ExpiresAt:    now.Add(InvitationTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	// 4. Authorize against a snapshot and insert within one transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		group, err := tx.Groups().GetGroupByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		actorMembership, err := activeMembershipOrNil(ctx, tx, invitedBy, groupID)
		if err != nil {
			return err
		}

		activeMembers, err := tx.Memberships().CountActiveByGroup(ctx, groupID)
		if err != nil {
			return err
		}

		decision := policy.Authorize(policy.OpCreateInvitation, policy.Input{
			ActorID:         invitedBy,
			ActorMembership: actorMembership,
			Group:           group,
			ActiveMembers:   activeMembers,
		})
		if !decision.Authorized() {
			log.Warn("invitation creation denied",
				slog.String("group_id", groupID),
				slog.String("invited_by", invitedBy),
				slog.String("reason", decision.Reason),
			)
			return fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
		}

		return tx.Memberships().CreateMembership(ctx, membership)
	})
	if err != nil {
		return domain.Membership{}, "", err
	}

	log.Debug("invitation created",
		slog.String("membership_id", membership.ID),
		slog.String("group_id", groupID),
		slog.String("role", string(role)),
		slog.Time("expires_at", membership.ExpiresAt),
	)

	// 5. Return the raw token (not the fingerprint).
	return membership, token, nil
}

// GetInvitationByToken resolves a raw token to its pending invitation,
// joined with the group and inviter. Expired, consumed and never-issued
// tokens are indistinguishable: all return ErrInvitationNotFound.
func (s *InvitationService) GetInvitationByToken(ctx context.Context, token string) (Invitation, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return Invitation{}, ErrInvitationNotFound
	}

	fingerprint := cryptox.FingerprintToken(token)

	membership, err := s.Store.Memberships().GetPendingByTokenHash(ctx, fingerprint, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Invitation{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return Invitation{}, err
	}

	group, err := s.Store.Groups().GetGroupByID(ctx, membership.GroupID)
	if err != nil {
		log.Error("failed to fetch invitation group", slog.Any("error", err))
		return Invitation{}, err
	}

	inviter, err := s.Store.Users().GetUserByID(ctx, membership.InvitedBy)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to fetch inviter", slog.Any("error", err))
		return Invitation{}, err
	}

	return Invitation{Membership: membership, Group: group, Inviter: inviter}, nil
}

// AcceptInvitation redeems a token: binds the user, activates the
// membership and retires the token. At most one accept per token can
// succeed; a losing concurrent caller gets ErrConflict.
func (s *InvitationService) AcceptInvitation(
	ctx context.Context,
	token string,
	userID string,
	phoneCode string,
) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if token == "" || userID == "" {
		return domain.Membership{}, ErrValidation
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var membership domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Resolve the token against the snapshot this transaction sees.
		m, err := tx.Memberships().GetPendingByTokenHash(ctx, fingerprint, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}

		// 2. The accepting identity must exist; its phone number feeds the
		// policy check below.
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// 3. Phone-addressed invitations accept a confirmation code in
		// place of a matching phone number.
		phoneConfirmed := false
		if m.InviteePhone != "" && phoneCode != "" {
			phoneConfirmed = validatePhoneCode(m, phoneCode)
		}

		decision := policy.Authorize(policy.OpAcceptInvitation, policy.Input{
			ActorID:        userID,
			ActorPhone:     user.Phone,
			Target:         m,
			PhoneConfirmed: phoneConfirmed,
		})
		if !decision.Authorized() {
			log.Warn("invitation accept denied",
				slog.String("membership_id", m.ID),
				slog.String("reason", decision.Reason),
			)
			return fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
		}

		// 4. One active membership per (user, group).
		_, err = tx.Memberships().GetActiveByUserAndGroup(ctx, userID, m.GroupID)
		if err == nil {
			return ErrAlreadyMember
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		// 5. Apply the transition. The version predicate makes this the
		// single winner if another accept raced us.
		m.UserID = userID
		m.Status = domain.StatusActive
		m.TokenHash = ""
		m.PhoneSecret = ""
		m.ExpiresAt = time.Time{}
		m.AcceptedAt = &now
		m.UpdatedAt = now

		if err := tx.Memberships().UpdateMembership(ctx, m); err != nil {
			switch {
			case errors.Is(err, store.ErrVersionMismatch):
				return ErrConflict
			case errors.Is(err, store.ErrAlreadyExists):
				return ErrAlreadyMember
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

	log.Info("invitation accepted",
		slog.String("membership_id", membership.ID),
		slog.String("group_id", membership.GroupID),
		slog.String("user_id", userID),
	)

	return membership, nil
}

// DeclineInvitation moves a pending invitation to Declined. The record and
// its token fingerprint are retained for history, but the token no longer
// resolves.
func (s *InvitationService) DeclineInvitation(ctx context.Context, token string) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if token == "" {
		return domain.Membership{}, ErrInvitationNotFound
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var membership domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := tx.Memberships().GetPendingByTokenHash(ctx, fingerprint, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}

		m.Status = domain.StatusDeclined
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

	log.Info("invitation declined", slog.String("membership_id", membership.ID))
	return membership, nil
}

// CancelInvitation withdraws a pending invitation (Pending to Removed).
// Only a group admin or the original inviter may cancel. Records in any
// other state come back ErrInvitationNotFound, matching what the canceller
// could learn through GetInvitationByToken.
func (s *InvitationService) CancelInvitation(ctx context.Context, membershipID, cancellerID string) (domain.Membership, error) {
	log := slogx.FromContext(ctx)

	if membershipID == "" || cancellerID == "" {
		return domain.Membership{}, ErrValidation
	}

	now := time.Now().UTC()

	var membership domain.Membership
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := tx.Memberships().GetMembershipByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if !m.Pending() {
			return ErrInvitationNotFound
		}

		if err := s.authorizeInvitationAdmin(ctx, tx, policy.OpCancelInvitation, m, cancellerID, log); err != nil {
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

	log.Info("invitation cancelled",
		slog.String("membership_id", membership.ID),
		slog.String("cancelled_by", cancellerID),
	)
	return membership, nil
}

// ResendInvitation rotates a pending invitation's token and refreshes its
// expiry. The previous token and any outstanding phone confirmation code
// become permanently unresolvable.
func (s *InvitationService) ResendInvitation(ctx context.Context, membershipID, resenderID string) (domain.Membership, string, error) {
	log := slogx.FromContext(ctx)

	if membershipID == "" || resenderID == "" {
		return domain.Membership{}, "", ErrValidation
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Membership{}, "", err
	}
	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var membership domain.Membership
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		m, err := tx.Memberships().GetMembershipByID(ctx, membershipID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if !m.Pending() {
			return ErrInvitationNotFound
		}

		if err := s.authorizeInvitationAdmin(ctx, tx, policy.OpResendInvitation, m, resenderID, log); err != nil {
			return err
		}

		m.TokenHash = fingerprint
		m.PhoneCounter++
		m.ExpiresAt = now.Add(InvitationTTL)
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
		return domain.Membership{}, "", err
	}

	log.Info("invitation resent",
		slog.String("membership_id", membership.ID),
		slog.Time("expires_at", membership.ExpiresAt),
	)
	return membership, token, nil
}

// PhoneCode derives the current confirmation code for a phone-addressed
// invitation, for delivery out of band by the inviter. Resending the
// invitation rotates the code along with the token.
func (s *InvitationService) PhoneCode(m domain.Membership) (string, error) {
	if m.PhoneSecret == "" {
		return "", ErrValidation
	}
	return hotp.GenerateCodeCustom(m.PhoneSecret, m.PhoneCounter, hotp.ValidateOpts{
		Digits:    phoneCodeDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// authorizeInvitationAdmin runs the admin-or-inviter policy shared by
// cancel and resend inside the caller's transaction.
func (s *InvitationService) authorizeInvitationAdmin(
	ctx context.Context,
	tx store.Tx,
	op policy.Operation,
	target domain.Membership,
	actorID string,
	log *slog.Logger,
) error {
	group, err := tx.Groups().GetGroupByID(ctx, target.GroupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	actorMembership, err := activeMembershipOrNil(ctx, tx, actorID, target.GroupID)
	if err != nil {
		return err
	}

	decision := policy.Authorize(op, policy.Input{
		ActorID:         actorID,
		ActorMembership: actorMembership,
		Target:          target,
		Group:           group,
	})
	if !decision.Authorized() {
		log.Warn("invitation operation denied",
			slog.String("operation", string(op)),
			slog.String("membership_id", target.ID),
			slog.String("actor_id", actorID),
			slog.String("reason", decision.Reason),
		)
		return fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}
	return nil
}

// activeMembershipOrNil loads the actor's active membership in a group, or
// nil when there is none.
func activeMembershipOrNil(ctx context.Context, tx store.Tx, userID, groupID string) (*domain.Membership, error) {
	m, err := tx.Memberships().GetActiveByUserAndGroup(ctx, userID, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func validatePhoneCode(m domain.Membership, code string) bool {
	ok, err := hotp.ValidateCustom(code, m.PhoneCounter, m.PhoneSecret, hotp.ValidateOpts{
		Digits:    phoneCodeDigits,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// newPhoneSecret returns a fresh base32 HOTP secret.
func newPhoneSecret() (string, error) {
	buf := make([]byte, phoneSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate phone secret: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
