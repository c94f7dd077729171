package groupsdk

// ============================================================================
// Error Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the standard error envelope returned by every endpoint.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_request", "not_found")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Account Types
// ============================================================================

// User is the wire representation of an account as the groups service sees it.
type User struct {
	ID            string `json:"id"`
	Phone         string `json:"phone"`
	DisplayName   string `json:"display_name"`
	ActiveGroupID string `json:"active_group_id,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// CreateAccountRequest bootstraps a new account together with its personal group.
type CreateAccountRequest struct {
	// Phone is the E.164 phone number the account is keyed on
	Phone string `json:"phone"`

	// DisplayName is the human-facing name shown to other group members
	DisplayName string `json:"display_name"`
}

// AccountResponse is returned from POST /v1/accounts.
type AccountResponse struct {
	User          User  `json:"user"`
	PersonalGroup Group `json:"personal_group"`
}

// SetActiveGroupRequest switches the caller's default group pointer.
type SetActiveGroupRequest struct {
	GroupID string `json:"group_id"`
}

// ============================================================================
// Group Types
// ============================================================================

// GroupSettings controls how members join a group.
type GroupSettings struct {
	AllowInvitations bool `json:"allow_invitations"`
	RequireApproval  bool `json:"require_approval"`

	// MaxMembers caps active members; 0 means unlimited
	MaxMembers int `json:"max_members"`
}

// Group is the wire representation of a group.
type Group struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	OwnerID     string        `json:"owner_id"`
	CreatedBy   string        `json:"created_by"`
	IsPersonal  bool          `json:"is_personal"`
	Settings    GroupSettings `json:"settings"`
	CreatedAt   int64         `json:"created_at"`
	UpdatedAt   int64         `json:"updated_at"`
}

// CreateGroupRequest creates a new shared group with the caller as admin.
type CreateGroupRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Settings    GroupSettings `json:"settings"`
}

// UpdateGroupRequest replaces a group's name, description and settings.
// Settings changes are ignored for personal groups.
type UpdateGroupRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Settings    GroupSettings `json:"settings"`
}

// ============================================================================
// Membership and Invitation Types
// ============================================================================

// Membership is the wire representation of a membership record. While the
// status is "pending" the record is an open invitation; the raw token is
// never included here.
type Membership struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id,omitempty"`
	GroupID      string `json:"group_id"`
	InviteePhone string `json:"invitee_phone,omitempty"`
	InvitedBy    string `json:"invited_by"`
	Status       string `json:"status"`
	Role         string `json:"role"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	AcceptedAt   int64  `json:"accepted_at,omitempty"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
	Version      int64  `json:"version"`
}

// CreateInvitationRequest issues a new invitation for a group.
type CreateInvitationRequest struct {
	GroupID string `json:"group_id"`

	// Role the invitee will hold once active; defaults to "contributor"
	Role string `json:"role,omitempty"`

	// InviteePhone optionally pins the invitation to a phone number
	InviteePhone string `json:"invitee_phone,omitempty"`
}

// InvitationResponse is returned from invitation create and resend. The
// InviteToken is shown exactly once and cannot be recovered later.
type InvitationResponse struct {
	Membership  Membership `json:"membership"`
	InviteToken string     `json:"invite_token"`
	ExpiresAt   int64      `json:"expires_at"`
}

// InvitationView is the public token-lookup view rendered on an invite
// landing page: the pending membership plus minimal group and inviter info.
type InvitationView struct {
	Membership  Membership `json:"membership"`
	GroupID     string     `json:"group_id"`
	GroupName   string     `json:"group_name"`
	InviterID   string     `json:"inviter_id"`
	InviterName string     `json:"inviter_name"`
}

// AcceptInvitationRequest redeems an invitation token for the caller.
type AcceptInvitationRequest struct {
	Token string `json:"token"`

	// PhoneCode is the confirmation code required when the invitation was
	// pinned to a phone number and the caller's session phone differs
	PhoneCode string `json:"phone_code,omitempty"`
}

// DeclineInvitationRequest declines an invitation by its token.
type DeclineInvitationRequest struct {
	Token string `json:"token"`
}

// UpdateRoleRequest changes an active member's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// MembershipPage is one page of a membership listing.
type MembershipPage struct {
	Memberships []Membership `json:"memberships"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthChecks reports per-dependency status on the readiness endpoint.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned from the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
