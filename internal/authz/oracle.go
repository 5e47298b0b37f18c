// Package authz answers authorization questions from cached session
// state alone. Every check is a total function: no network, no
// blocking, no errors. A missing or stale permission set yields false
// (fail closed), except for the administrator override.
package authz

import (
	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
)

// SessionReader is the slice of the session store the oracle needs.
type SessionReader interface {
	Snapshot() domainsession.State
}

// Oracle derives yes/no access decisions from the cached identity.
type Oracle struct {
	sessions SessionReader
}

// New constructs an Oracle over the given session state.
func New(sessions SessionReader) *Oracle {
	return &Oracle{sessions: sessions}
}

// IsAuthenticated is true iff an identity is cached and the
// authenticated flag is set. It says nothing about the credential's
// server-side validity. A cached credential alone is not enough: a
// session with no identity is never authorized.
func (o *Oracle) IsAuthenticated() bool {
	state := o.sessions.Snapshot()
	return state.Authenticated && state.Identity != nil
}

// Role returns the cached identity's role, or "" when anonymous.
func (o *Oracle) Role() domainsession.Role {
	return o.sessions.Snapshot().Role()
}

// IsAdministrator is true iff the cached role is administrator or
// super-administrator.
func (o *Oracle) IsAdministrator() bool {
	return o.sessions.Snapshot().Role().IsAdministrator()
}

// IsSuperAdministrator is true only for the super-administrator role,
// which implicitly satisfies every permission and role check.
func (o *Oracle) IsSuperAdministrator() bool {
	return o.sessions.Snapshot().Role().IsSuperAdmin()
}

// HasPermission is true if the role carries the administrator
// blanket override, else iff name is present in the cached permission
// set (exact match).
func (o *Oracle) HasPermission(name string) bool {
	state := o.sessions.Snapshot()
	if state.Role().IsAdministrator() {
		return true
	}
	return state.Permissions.Has(name)
}

// HasCashAccess reports access to the cash-register screens. It is
// defined in terms of HasPermission so the two can never diverge.
func (o *Oracle) HasCashAccess() bool {
	return o.HasPermission(domainsession.PermissionCash)
}

// HasReceptionAccess reports access to the reception screens.
func (o *Oracle) HasReceptionAccess() bool {
	return o.HasPermission(domainsession.PermissionReception)
}
