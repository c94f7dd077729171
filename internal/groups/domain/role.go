package domain

// Role is the permission level a membership grants within a group. The set
// is closed; anything else is rejected at the service boundary.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleEditor      Role = "editor"
	RoleContributor Role = "contributor"
	RoleViewer      Role = "viewer"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleEditor, RoleContributor, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleContributor, RoleViewer:
		return true
	}
	return false
}

// IsAdmin reports whether r carries group administration rights.
func (r Role) IsAdmin() bool { return r == RoleAdmin }
