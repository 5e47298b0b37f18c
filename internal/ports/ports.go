// Package ports defines interfaces (hexagonal ports) for the session
// subsystem. Implementations live in internal/adapters and
// internal/transport; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
)

// ErrNotFound is returned by stores when the requested slot is empty.
var ErrNotFound = errors.New("session slot not found")

// CredentialStore durably persists the raw bearer credential. It is a
// single named slot; Save replaces whatever was there before.
// Only the session lifecycle controller and the 401 teardown path in
// the request authenticator are permitted writers.
type CredentialStore interface {
	Save(ctx context.Context, token string) error
	// Load returns ErrNotFound when no credential is stored.
	Load(ctx context.Context) (string, error)
	// Delete is a no-op when the slot is already empty.
	Delete(ctx context.Context) error
}

// StateStore durably persists the serialized session state (identity,
// authenticated flag, permission set) so it survives a reload.
type StateStore interface {
	Save(ctx context.Context, state domainsession.State) error
	// Load returns ErrNotFound when no state is stored.
	Load(ctx context.Context) (domainsession.State, error)
	Delete(ctx context.Context) error
}

// LoginInput carries the credentials for a login call.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the remote API's answer to a successful login.
type LoginResult struct {
	Token    string
	Identity domainsession.Identity
}

// SignupInput carries the fields for an account creation call. The
// new account is created in pending state and does not authenticate
// the caller.
type SignupInput struct {
	Email    string
	Password string
	Phone    string
}

// AuthAPI is the remote API surface this subsystem consumes. Any
// authenticated call may fail with transport.ErrUnauthorized (401) or
// transport.ErrForbidden (403); those are the only status codes
// interpreted specially.
type AuthAPI interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	// FetchPermissions requires an authenticated call and returns the
	// permission strings for the current identity.
	FetchPermissions(ctx context.Context) ([]string, error)
	Signup(ctx context.Context, in SignupInput) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error
	// NotifyLogout is the server-side audit notification; callers
	// treat it as fire-and-forget.
	NotifyLogout(ctx context.Context) error
	// Heartbeat signals that the authenticated user is still active.
	Heartbeat(ctx context.Context) error
}

// Navigator abstracts client-side navigation (the router in the
// browser front end). Implementations must not block.
type Navigator interface {
	NavigateTo(path string)
}
