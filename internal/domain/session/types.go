// Package session contains domain-level types for the client-side
// authentication and session cache. It is pure and free of transport
// and storage concerns.
package session

// Role represents an application's authorization role.
// Keep string form for easy persistence.
// Valid values are defined as constants below.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// IsAdministrator returns true for both administrator roles.
// The super-administrator is an administrator everywhere an
// administrator is.
func (r Role) IsAdministrator() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// IsSuperAdmin returns true only for the super-administrator role.
func (r Role) IsSuperAdmin() bool { return r == RoleSuperAdmin }

// AccountStatus is the server-side approval state of an account.
// New accounts start pending and are approved or rejected by an
// administrator.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusApproved AccountStatus = "approved"
	StatusRejected AccountStatus = "rejected"
)

// Well-known permission strings. Permissions are opaque capability
// names checked by exact match; these two are evaluated on almost
// every navigation and so get named constants.
const (
	PermissionCash      = "caisse.access"
	PermissionReception = "reception.access"
)

// Identity represents the authenticated principal as returned by the
// remote API at login.
type Identity struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username,omitempty"`
	FirstName string        `json:"first_name,omitempty"`
	LastName  string        `json:"last_name,omitempty"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	Active    bool          `json:"active"`
}

// PermissionSet is the unordered collection of permission strings
// granted to the current identity, fetched once at login.
type PermissionSet []string

// Has reports whether name is present in the set. Exact match only;
// no hierarchy or wildcard semantics.
func (p PermissionSet) Has(name string) bool {
	for _, s := range p {
		if s == name {
			return true
		}
	}
	return false
}

// State is the persisted portion of the authenticated session: the
// identity, the authenticated flag, and the permission set. The raw
// bearer credential is deliberately not part of this struct; its
// durable lifecycle is managed explicitly and separately (written at
// login, deleted at logout or on a 401).
type State struct {
	Identity      *Identity     `json:"identity"`
	Authenticated bool          `json:"authenticated"`
	Permissions   PermissionSet `json:"permissions"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the underlying slices.
func (s State) Clone() State {
	out := s
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.Permissions != nil {
		out.Permissions = append(PermissionSet(nil), s.Permissions...)
	}
	return out
}

// Role returns the cached identity's role, or the empty Role when no
// identity is cached.
func (s State) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}
