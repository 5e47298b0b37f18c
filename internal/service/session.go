// Package service orchestrates the session lifecycle: login, signup,
// password reset, logout, and the one-time initialization at process
// start.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
	"github.com/oressource/auth-client-go/internal/store"
	"github.com/oressource/auth-client-go/internal/transport"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseError          Phase = "error"
)

// conflictMessage is the distinguishable message for a duplicate
// contact at signup.
const conflictMessage = "an account already exists for this contact"

// SessionService drives the session state machine over the credential
// cache and the remote API.
type SessionService struct {
	mu        sync.Mutex
	phase     Phase
	lastError string
	loading   bool

	sessions *store.Store
	api      ports.AuthAPI
	logger   *slog.Logger
}

// SessionServiceOptions groups dependencies for NewSessionService.
type SessionServiceOptions struct {
	Sessions *store.Store
	API      ports.AuthAPI
	Logger   *slog.Logger
}

// NewSessionService constructs a SessionService in the anonymous
// phase.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		phase:    PhaseAnonymous,
		sessions: opts.Sessions,
		api:      opts.API,
		logger:   logger,
	}
}

// Phase returns the current lifecycle phase.
func (s *SessionService) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the human-readable message of the last failed
// critical call, or "" when none.
func (s *SessionService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Loading reports whether a one-shot call (forgot/reset password) is
// in flight.
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoginResult reports the outcome of a successful login.
type LoginResult struct {
	Identity domainsession.Identity

	// PermissionsDegraded is set when the permission fetch failed and
	// the session proceeded with an empty permission set.
	PermissionsDegraded bool
}

// Login authenticates against the remote API and populates the
// credential cache. The credential is durably stored before the
// permission fetch so that the fetch, which is itself an
// authenticated call, already has a credential to attach. A failed
// permission fetch does not fail the login: it degrades to an empty
// permission set, logged but non-fatal. If the session changes while
// the fetch is in flight (a racing logout), the fetch result is
// discarded rather than resurrected into the new session.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	s.setPhase(PhaseAuthenticating, "")

	res, err := s.api.Login(ctx, ports.LoginInput{Email: email, Password: password})
	if err != nil {
		s.setPhase(PhaseError, transport.Message(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.sessions.PutCredential(ctx, res.Token); err != nil {
		s.setPhase(PhaseError, transport.GenericConnectionError)
		return nil, err
	}
	identity := res.Identity
	if err := s.sessions.SetIdentity(ctx, &identity); err != nil {
		s.setPhase(PhaseError, transport.GenericConnectionError)
		return nil, err
	}
	if err := s.sessions.SetAuthenticated(ctx, true); err != nil {
		s.setPhase(PhaseError, transport.GenericConnectionError)
		return nil, err
	}

	epoch := s.sessions.Epoch()
	degraded := false
	perms, permErr := s.api.FetchPermissions(ctx)
	if permErr != nil {
		s.logger.Warn("permission fetch failed, continuing with empty set",
			"user_id", identity.ID,
			"error", permErr)
		perms = nil
		degraded = true
	}
	if s.sessions.Epoch() == epoch {
		if err := s.sessions.SetPermissions(ctx, perms); err != nil {
			s.setPhase(PhaseError, transport.GenericConnectionError)
			return nil, err
		}
	} else {
		// The session that issued the fetch is gone; applying the
		// result would leak stale permissions into whatever replaced
		// it.
		s.logger.Debug("discarding permission fetch for superseded session")
		return nil, errors.New("login superseded")
	}

	s.setPhase(PhaseAuthenticated, "")
	return &LoginResult{Identity: identity, PermissionsDegraded: degraded}, nil
}

// Signup creates an account in pending state. It never authenticates
// the caller and leaves the lifecycle phase untouched. A duplicate
// contact yields a distinguishable message.
func (s *SessionService) Signup(ctx context.Context, email, password, phone string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	err := s.api.Signup(ctx, ports.SignupInput{Email: email, Password: password, Phone: phone})
	if err != nil {
		if errors.Is(err, transport.ErrConflict) {
			s.setError(conflictMessage)
		} else {
			s.setError(transport.Message(err))
		}
		return fmt.Errorf("signup: %w", err)
	}
	s.setError("")
	return nil
}

// ForgotPassword requests the reset email for a contact. One-shot:
// only the loading flag and error message move, never the session.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.RequestPasswordReset(ctx, email); err != nil {
		s.setError(transport.Message(err))
		return fmt.Errorf("forgot password: %w", err)
	}
	s.setError("")
	return nil
}

// ResetPassword sets a new secret from a reset token. One-shot, same
// contract as ForgotPassword.
func (s *SessionService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.api.ConfirmPasswordReset(ctx, resetToken, newPassword); err != nil {
		s.setError(transport.Message(err))
		return fmt.Errorf("reset password: %w", err)
	}
	s.setError("")
	return nil
}

// Logout attempts the server-side audit notification first, then
// tears the local session down unconditionally. A failed notification
// is logged and swallowed: logout must never be blocked or left
// half-done by a flaky network.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.api.NotifyLogout(ctx); err != nil {
		s.logger.Warn("logout notification failed, proceeding with local teardown", "error", err)
	}

	if err := s.sessions.Teardown(ctx); err != nil {
		return fmt.Errorf("logout teardown: %w", err)
	}
	s.setPhase(PhaseAnonymous, "")
	return nil
}

// InitializeAuth runs once at process start. It reads the durable
// credential only: no server-side revalidation, no identity or
// permission refetch. A stale or externally revoked credential will
// look authenticated until the first 401 tears it down.
func (s *SessionService) InitializeAuth(ctx context.Context) error {
	if err := s.sessions.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize auth: %w", err)
	}
	if s.sessions.Credential() != "" {
		s.setPhase(PhaseAuthenticated, "")
	}
	return nil
}

func (s *SessionService) setPhase(phase Phase, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
	s.lastError = message
}

func (s *SessionService) setError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

func (s *SessionService) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}
