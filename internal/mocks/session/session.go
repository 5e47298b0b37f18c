// Package session contains simple hand-written test doubles for the
// session ports. These are lightweight and suitable for unit tests
// without codegen.
package session

import (
	"context"
	"sync"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*MemoryCredentialStore)(nil)
	_ ports.StateStore      = (*MemoryStateStore)(nil)
	_ ports.AuthAPI         = (*StubAPI)(nil)
	_ ports.Navigator       = (*RecordingNavigator)(nil)
)

// MemoryCredentialStore is an in-memory credential slot with call
// counters for asserting durable-store traffic.
type MemoryCredentialStore struct {
	mu    sync.Mutex
	token string
	set   bool

	SaveCalls   int
	LoadCalls   int
	DeleteCalls int

	SaveErr   error
	LoadErr   error
	DeleteErr error
}

// Seed installs a token as if a previous session had stored it.
func (m *MemoryCredentialStore) Seed(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
}

// Stored returns the durable token and whether one exists.
func (m *MemoryCredentialStore) Stored() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set
}

func (m *MemoryCredentialStore) Save(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	m.set = true
	return nil
}

func (m *MemoryCredentialStore) Load(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	if !m.set {
		return "", ports.ErrNotFound
	}
	return m.token, nil
}

func (m *MemoryCredentialStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.token = ""
	m.set = false
	return nil
}

// MemoryStateStore is an in-memory session-state slot.
type MemoryStateStore struct {
	mu    sync.Mutex
	state domainsession.State
	set   bool

	SaveCalls int
	LoadCalls int

	SaveErr error
	LoadErr error
}

// Seed installs a state as if a previous session had stored it.
func (m *MemoryStateStore) Seed(state domainsession.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	m.set = true
}

// Stored returns the durable state and whether one exists.
func (m *MemoryStateStore) Stored() (domainsession.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), m.set
}

func (m *MemoryStateStore) Save(ctx context.Context, state domainsession.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = state.Clone()
	m.set = true
	return nil
}

func (m *MemoryStateStore) Load(ctx context.Context) (domainsession.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.LoadErr != nil {
		return domainsession.State{}, m.LoadErr
	}
	if !m.set {
		return domainsession.State{}, ports.ErrNotFound
	}
	return m.state.Clone(), nil
}

func (m *MemoryStateStore) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domainsession.State{}
	m.set = false
	return nil
}

// StubAPI is a hand double for the remote API with per-call override
// funcs and invocation counters.
type StubAPI struct {
	mu sync.Mutex

	LoginFunc       func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error)
	PermissionsFunc func(ctx context.Context) ([]string, error)
	SignupFunc      func(ctx context.Context, in ports.SignupInput) error
	ForgotFunc      func(ctx context.Context, email string) error
	ResetFunc       func(ctx context.Context, resetToken, newPassword string) error
	LogoutFunc      func(ctx context.Context) error
	HeartbeatFunc   func(ctx context.Context) error

	LoginCalls     int
	LogoutCalls    int
	HeartbeatCalls int
}

// DefaultIdentity is the identity returned when LoginFunc is unset.
func DefaultIdentity() domainsession.Identity {
	return domainsession.Identity{
		ID:        1,
		Username:  "stub-user",
		FirstName: "Stub",
		LastName:  "User",
		Email:     "stub.user@example.org",
		Role:      domainsession.RoleUser,
		Status:    domainsession.StatusApproved,
		Active:    true,
	}
}

func (s *StubAPI) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	s.mu.Lock()
	s.LoginCalls++
	s.mu.Unlock()
	if s.LoginFunc != nil {
		return s.LoginFunc(ctx, in)
	}
	return ports.LoginResult{Token: "stub-token", Identity: DefaultIdentity()}, nil
}

func (s *StubAPI) FetchPermissions(ctx context.Context) ([]string, error) {
	if s.PermissionsFunc != nil {
		return s.PermissionsFunc(ctx)
	}
	return []string{domainsession.PermissionCash}, nil
}

func (s *StubAPI) Signup(ctx context.Context, in ports.SignupInput) error {
	if s.SignupFunc != nil {
		return s.SignupFunc(ctx, in)
	}
	return nil
}

func (s *StubAPI) RequestPasswordReset(ctx context.Context, email string) error {
	if s.ForgotFunc != nil {
		return s.ForgotFunc(ctx, email)
	}
	return nil
}

func (s *StubAPI) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	if s.ResetFunc != nil {
		return s.ResetFunc(ctx, resetToken, newPassword)
	}
	return nil
}

func (s *StubAPI) NotifyLogout(ctx context.Context) error {
	s.mu.Lock()
	s.LogoutCalls++
	s.mu.Unlock()
	if s.LogoutFunc != nil {
		return s.LogoutFunc(ctx)
	}
	return nil
}

func (s *StubAPI) Heartbeat(ctx context.Context) error {
	s.mu.Lock()
	s.HeartbeatCalls++
	s.mu.Unlock()
	if s.HeartbeatFunc != nil {
		return s.HeartbeatFunc(ctx)
	}
	return nil
}

// Heartbeats returns the number of heartbeat signals received.
func (s *StubAPI) Heartbeats() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.HeartbeatCalls
}

// RecordingNavigator records navigation targets.
type RecordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *RecordingNavigator) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

// Paths returns the recorded navigation targets in order.
func (n *RecordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
