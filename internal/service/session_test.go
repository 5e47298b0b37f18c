package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	mocks "github.com/oressource/auth-client-go/internal/mocks/session"
	"github.com/oressource/auth-client-go/internal/ports"
	"github.com/oressource/auth-client-go/internal/store"
	"github.com/oressource/auth-client-go/internal/transport"
)

type fixture struct {
	service     *SessionService
	store       *store.Store
	credentials *mocks.MemoryCredentialStore
	states      *mocks.MemoryStateStore
	api         *mocks.StubAPI
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		credentials: &mocks.MemoryCredentialStore{},
		states:      &mocks.MemoryStateStore{},
		api:         &mocks.StubAPI{},
	}
	f.store = store.New(store.Options{Credentials: f.credentials, States: f.states})
	f.service = NewSessionService(SessionServiceOptions{Sessions: f.store, API: f.api})
	require.NoError(t, f.service.InitializeAuth(context.Background()))
	return f
}

func TestSessionService_Login_Success(t *testing.T) {
	f := newFixture(t)
	f.api.PermissionsFunc = func(ctx context.Context) ([]string, error) {
		return []string{domainsession.PermissionReception}, nil
	}

	result, err := f.service.Login(context.Background(), "u@example.org", "secret")

	require.NoError(t, err)
	assert.False(t, result.PermissionsDegraded)
	assert.Equal(t, PhaseAuthenticated, f.service.Phase())
	assert.Empty(t, f.service.LastError())

	assert.Equal(t, "stub-token", f.store.Credential())
	stored, ok := f.credentials.Stored()
	require.True(t, ok)
	assert.Equal(t, "stub-token", stored)

	state := f.store.Snapshot()
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.Identity)
	assert.Equal(t, domainsession.PermissionSet{domainsession.PermissionReception}, state.Permissions)
}

func TestSessionService_Login_CredentialStoredBeforePermissionFetch(t *testing.T) {
	f := newFixture(t)
	var credentialAtFetch string
	var durableAtFetch bool
	f.api.PermissionsFunc = func(ctx context.Context) ([]string, error) {
		credentialAtFetch = f.store.Credential()
		_, durableAtFetch = f.credentials.Stored()
		return nil, nil
	}

	_, err := f.service.Login(context.Background(), "u@example.org", "secret")

	require.NoError(t, err)
	assert.Equal(t, "stub-token", credentialAtFetch)
	assert.True(t, durableAtFetch)
}

func TestSessionService_Login_Failure(t *testing.T) {
	f := newFixture(t)
	f.api.LoginFunc = func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
		return ports.LoginResult{}, &transport.APIError{Status: 422, Message: "incorrect credentials"}
	}

	_, err := f.service.Login(context.Background(), "u@example.org", "wrong")

	require.Error(t, err)
	assert.Equal(t, PhaseError, f.service.Phase())
	assert.Equal(t, "incorrect credentials", f.service.LastError())
	assert.Equal(t, "", f.store.Credential())
	_, ok := f.credentials.Stored()
	assert.False(t, ok)
}

func TestSessionService_Login_NetworkFailureGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.api.LoginFunc = func(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
		return ports.LoginResult{}, errors.New("dial tcp: connection refused")
	}

	_, err := f.service.Login(context.Background(), "u@example.org", "secret")

	require.Error(t, err)
	assert.Equal(t, transport.GenericConnectionError, f.service.LastError())
}

func TestSessionService_Login_PermissionFetchFailureDegrades(t *testing.T) {
	f := newFixture(t)
	f.api.PermissionsFunc = func(ctx context.Context) ([]string, error) {
		return nil, errors.New("permission service down")
	}

	result, err := f.service.Login(context.Background(), "u@example.org", "secret")

	require.NoError(t, err)
	assert.True(t, result.PermissionsDegraded)
	assert.Equal(t, PhaseAuthenticated, f.service.Phase())
	assert.Empty(t, f.store.Snapshot().Permissions)
}

func TestSessionService_Login_RacingLogoutDiscardsPermissions(t *testing.T) {
	f := newFixture(t)
	f.api.PermissionsFunc = func(ctx context.Context) ([]string, error) {
		// A logout completes while the permission fetch is in flight.
		require.NoError(t, f.service.Logout(ctx))
		return []string{domainsession.PermissionCash}, nil
	}

	_, err := f.service.Login(context.Background(), "u@example.org", "secret")

	require.Error(t, err)
	// The stale permissions must not resurrect into the anonymous
	// session.
	state := f.store.Snapshot()
	assert.Empty(t, state.Permissions)
	assert.False(t, state.Authenticated)
	assert.Equal(t, PhaseAnonymous, f.service.Phase())
}

func TestSessionService_Signup_DoesNotAuthenticate(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.Signup(context.Background(), "new@example.org", "secret", ""))

	assert.Equal(t, PhaseAnonymous, f.service.Phase())
	assert.Equal(t, "", f.store.Credential())
}

func TestSessionService_Signup_ConflictMessageIsDistinguishable(t *testing.T) {
	f := newFixture(t)
	f.api.SignupFunc = func(ctx context.Context, in ports.SignupInput) error {
		return &transport.APIError{Status: 409, Message: "duplicate"}
	}

	err := f.service.Signup(context.Background(), "dup@example.org", "secret", "")

	require.Error(t, err)
	assert.Equal(t, conflictMessage, f.service.LastError())
}

func TestSessionService_Signup_OtherFailureMessage(t *testing.T) {
	f := newFixture(t)
	f.api.SignupFunc = func(ctx context.Context, in ports.SignupInput) error {
		return &transport.APIError{Status: 422, Message: "invalid email address"}
	}

	err := f.service.Signup(context.Background(), "bad", "secret", "")

	require.Error(t, err)
	assert.Equal(t, "invalid email address", f.service.LastError())
}

func TestSessionService_ForgotPassword_DoesNotTouchSession(t *testing.T) {
	f := newFixture(t)
	_, loginErr := f.service.Login(context.Background(), "u@example.org", "secret")
	require.NoError(t, loginErr)

	require.NoError(t, f.service.ForgotPassword(context.Background(), "u@example.org"))

	assert.Equal(t, PhaseAuthenticated, f.service.Phase())
	assert.Equal(t, "stub-token", f.store.Credential())
	assert.False(t, f.service.Loading())
}

func TestSessionService_ResetPassword_FailureSetsMessage(t *testing.T) {
	f := newFixture(t)
	f.api.ResetFunc = func(ctx context.Context, resetToken, newPassword string) error {
		return &transport.APIError{Status: 422, Message: "reset token expired"}
	}

	err := f.service.ResetPassword(context.Background(), "tok", "newsecret")

	require.Error(t, err)
	assert.Equal(t, "reset token expired", f.service.LastError())
	assert.False(t, f.service.Loading())
}

func TestSessionService_Logout_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	_, loginErr := f.service.Login(context.Background(), "u@example.org", "secret")
	require.NoError(t, loginErr)

	require.NoError(t, f.service.Logout(context.Background()))

	assert.Equal(t, PhaseAnonymous, f.service.Phase())
	assert.Equal(t, "", f.store.Credential())
	_, ok := f.credentials.Stored()
	assert.False(t, ok)
	state := f.store.Snapshot()
	assert.Nil(t, state.Identity)
	assert.False(t, state.Authenticated)
	assert.Empty(t, state.Permissions)
	assert.Equal(t, 1, f.api.LogoutCalls)
}

func TestSessionService_Logout_ProceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	_, loginErr := f.service.Login(context.Background(), "u@example.org", "secret")
	require.NoError(t, loginErr)
	f.api.LogoutFunc = func(ctx context.Context) error {
		return errors.New("server timeout")
	}

	require.NoError(t, f.service.Logout(context.Background()))

	assert.Equal(t, PhaseAnonymous, f.service.Phase())
	assert.Equal(t, "", f.store.Credential())
	state := f.store.Snapshot()
	assert.Nil(t, state.Identity)
	assert.False(t, state.Authenticated)
}

func TestSessionService_InitializeAuth_NoDurableCredential(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, PhaseAnonymous, f.service.Phase())
	assert.Equal(t, "", f.store.Credential())
}

func TestSessionService_InitializeAuth_WithDurableCredential(t *testing.T) {
	credentials := &mocks.MemoryCredentialStore{}
	states := &mocks.MemoryStateStore{}
	credentials.Seed("stored-token")
	states.Seed(domainsession.State{
		Identity:      &domainsession.Identity{ID: 4, Role: domainsession.RoleUser},
		Authenticated: true,
		Permissions:   domainsession.PermissionSet{domainsession.PermissionCash},
	})
	api := &mocks.StubAPI{}
	sessions := store.New(store.Options{Credentials: credentials, States: states})
	svc := NewSessionService(SessionServiceOptions{Sessions: sessions, API: api})

	require.NoError(t, svc.InitializeAuth(context.Background()))

	assert.Equal(t, PhaseAuthenticated, svc.Phase())
	assert.Equal(t, "stored-token", sessions.Credential())
	// No network call was made: the durable credential is trusted
	// until the first 401.
	assert.Equal(t, 0, api.LoginCalls)
	assert.Equal(t, 0, api.Heartbeats())
}
