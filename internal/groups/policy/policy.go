// Package policy decides whether an actor may perform a membership
// operation. Authorize is a pure function over a snapshot read at the start
// of the operation; it never touches storage and never mutates anything,
// so callers can evaluate it inside whatever transaction guards the
// transition itself.
package policy

import "github.com/quittly/quittly/internal/groups/domain"

type Operation string

const (
	OpCreateInvitation  Operation = "create_invitation"
	OpAcceptInvitation  Operation = "accept_invitation"
	OpDeclineInvitation Operation = "decline_invitation"
	OpCancelInvitation  Operation = "cancel_invitation"
	OpResendInvitation  Operation = "resend_invitation"
	OpUpdateRole        Operation = "update_role"
	OpRemoveMember      Operation = "remove_member"
	OpUpdateGroup       Operation = "update_group"
)

type Effect int

const (
	EffectAuthorized Effect = iota
	EffectForbidden
	EffectNotFound
)

// Decision is the outcome of an authorization check. Reason is set for
// Forbidden outcomes and is safe to log but not required to be shown to
// callers verbatim.
type Decision struct {
	Effect Effect
	Reason string
}

func (d Decision) Authorized() bool { return d.Effect == EffectAuthorized }

func allow() Decision             { return Decision{Effect: EffectAuthorized} }
func deny(reason string) Decision { return Decision{Effect: EffectForbidden, Reason: reason} }
func notFound() Decision          { return Decision{Effect: EffectNotFound} }

// Input is the consistent snapshot an authorization decision runs against.
// All fields must come from the same transaction as the mutation the
// decision guards.
type Input struct {
	// ActorID identifies the authenticated caller. Empty for token-only
	// operations (accept/decline before an account exists).
	ActorID string

	// ActorPhone is the verified phone number asserted by the identity
	// layer, when known.
	ActorPhone string

	// ActorMembership is the actor's own membership in the group, nil when
	// the actor has none.
	ActorMembership *domain.Membership

	// Target is the membership the operation acts on. Zero-valued for
	// CreateInvitation.
	Target domain.Membership

	// Group is the group the operation acts within.
	Group domain.Group

	// ActiveMembers and ActiveAdmins are counts over the group's Active
	// memberships, read in the same transaction.
	ActiveMembers int
	ActiveAdmins  int

	// PhoneConfirmed is true when the caller proved control of the
	// invitee phone hint out of band (confirmation code).
	PhoneConfirmed bool

	// TargetWouldStayAdmin is true for UpdateRole when the new role keeps
	// admin rights.
	TargetWouldStayAdmin bool
}

// Authorize evaluates whether the operation may proceed against the given
// snapshot.
func Authorize(op Operation, in Input) Decision {
	switch op {
	case OpCreateInvitation:
		return authorizeCreateInvitation(in)
	case OpAcceptInvitation:
		return authorizeAccept(in)
	case OpDeclineInvitation:
		// Token possession is the whole authorization.
		return allow()
	case OpCancelInvitation, OpResendInvitation:
		return authorizeInviterOrAdmin(in)
	case OpUpdateRole:
		return authorizeRoleChange(in)
	case OpRemoveMember:
		return authorizeRemoveMember(in)
	case OpUpdateGroup:
		if !actorIsAdmin(in) {
			return deny("actor is not an active admin of the group")
		}
		return allow()
	}
	return deny("unknown operation")
}

func actorIsAdmin(in Input) bool {
	m := in.ActorMembership
	return m != nil && m.Active() && m.Role.IsAdmin()
}

func authorizeCreateInvitation(in Input) Decision {
	if in.Group.IsPersonal {
		return deny("personal groups do not accept invitations")
	}
	if !in.Group.Settings.AllowInvitations {
		return deny("group has invitations disabled")
	}
	if !actorIsAdmin(in) {
		return deny("actor is not an active admin of the group")
	}
	if !in.Group.HasCapacity(in.ActiveMembers) {
		return deny("group has reached its member limit")
	}
	return allow()
}

func authorizeAccept(in Input) Decision {
	// Token possession authorizes the accept. When the invitation was
	// addressed to a phone number, the accepting identity must match it or
	// have confirmed the hint out of band.
	if in.Target.InviteePhone == "" {
		return allow()
	}
	if in.ActorPhone == in.Target.InviteePhone || in.PhoneConfirmed {
		return allow()
	}
	return deny("invitation was addressed to a different phone number")
}

func authorizeInviterOrAdmin(in Input) Decision {
	if actorIsAdmin(in) {
		return allow()
	}
	if in.ActorID != "" && in.ActorID == in.Target.InvitedBy {
		return allow()
	}
	return deny("actor is neither a group admin nor the original inviter")
}

func authorizeRoleChange(in Input) Decision {
	if !actorIsAdmin(in) {
		return deny("actor is not an active admin of the group")
	}
	if !in.Target.Active() {
		return notFound()
	}
	// Demoting the sole remaining admin would strand the group.
	if in.Target.Role.IsAdmin() && !in.TargetWouldStayAdmin && in.ActiveAdmins <= 1 {
		return deny("cannot demote the last admin of the group")
	}
	return allow()
}

func authorizeRemoveMember(in Input) Decision {
	if !actorIsAdmin(in) {
		return deny("actor is not an active admin of the group")
	}
	if !in.Target.Active() {
		return notFound()
	}
	if in.Target.Role.IsAdmin() && in.ActiveAdmins <= 1 {
		return deny("cannot remove the last admin of the group")
	}
	return allow()
}
