// Package guard is the declarative route guard: a synchronous policy
// evaluation against the authorization oracle, deciding whether a
// protected view renders or navigation redirects.
package guard

import (
	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
)

// Default redirect targets.
const (
	LoginPath       = "/login"
	DefaultFallback = "/"
)

// Oracle is the slice of the authorization oracle the guard consults.
type Oracle interface {
	IsAuthenticated() bool
	IsAdministrator() bool
	IsSuperAdministrator() bool
	Role() domainsession.Role
	HasPermission(name string) bool
}

// Policy is the per-route guard configuration. In practice one field
// is meaningfully set per route, but several may be present
// simultaneously; Evaluate applies them in a fixed order.
type Policy struct {
	// AdminOnly requires an administrator role.
	AdminOnly bool

	// RequiredRole, when set, requires exactly this role.
	RequiredRole domainsession.Role

	// RequiredRoles, when set, is a whitelist of acceptable roles.
	RequiredRoles []domainsession.Role

	// RequiredPermission, when set, requires the named permission
	// (super-administrator always clears it).
	RequiredPermission string

	// Fallback is where failed role/permission checks redirect.
	// Defaults to the application root. Authentication failures always
	// redirect to the login path instead.
	Fallback string
}

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Allow      bool
	RedirectTo string
}

func render() Decision { return Decision{Allow: true} }

func redirect(to string) Decision { return Decision{RedirectTo: to} }

// Evaluate applies the policy checks in order, first failing check
// wins: authentication, adminOnly, single required role, role
// whitelist, required permission. Authentication is always checked
// first regardless of which other fields are set. The role whitelist
// and the permission check are independent mechanisms: a
// super-administrator clears the permission check even after passing
// a whitelist it appears in, and fails a whitelist it is absent from
// like anyone else.
func Evaluate(oracle Oracle, policy Policy) Decision {
	fallback := policy.Fallback
	if fallback == "" {
		fallback = DefaultFallback
	}

	if !oracle.IsAuthenticated() {
		return redirect(LoginPath)
	}

	if policy.AdminOnly && !oracle.IsAdministrator() {
		return redirect(fallback)
	}

	if policy.RequiredRole != "" && oracle.Role() != policy.RequiredRole {
		return redirect(fallback)
	}

	if len(policy.RequiredRoles) > 0 && !roleInList(oracle.Role(), policy.RequiredRoles) {
		return redirect(fallback)
	}

	if policy.RequiredPermission != "" {
		if !oracle.HasPermission(policy.RequiredPermission) && !oracle.IsSuperAdministrator() {
			return redirect(fallback)
		}
	}

	return render()
}

func roleInList(role domainsession.Role, list []domainsession.Role) bool {
	for _, r := range list {
		if r == role {
			return true
		}
	}
	return false
}
