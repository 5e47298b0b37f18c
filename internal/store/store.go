// Package store holds the in-memory session cache: the single source
// of truth for which bearer credential, if any, outgoing calls should
// attach, plus the cached identity and permission set.
//
// The cache is the fast path; the durable stores behind it exist only
// so the session survives a reload. Session state (identity,
// authenticated flag, permissions) is written through on every
// mutation. The raw credential's durable copy is managed explicitly:
// written at login, deleted at logout or on a 401. The two stores must
// never disagree about whether a credential exists.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

// Store is the in-memory session cache. It is safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	credential  string
	state       domainsession.State
	epoch       uuid.UUID
	initialized bool

	credentials ports.CredentialStore
	states      ports.StateStore
	logger      *slog.Logger
}

// Options groups dependencies for New.
type Options struct {
	Credentials ports.CredentialStore
	States      ports.StateStore
	Logger      *slog.Logger
}

// New constructs a Store. Initialize must be called once at process
// start before the store is read.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		credentials: opts.Credentials,
		states:      opts.States,
		epoch:       uuid.New(),
		logger:      logger,
	}
}

// Initialize reads the durable stores exactly once, populating the
// in-memory cache. If a durable credential is found the session is
// marked authenticated without any network call; the credential is
// not revalidated against the server and the identity is not
// refetched. A stale credential surfaces as a 401 on the first
// authenticated call.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	token, err := s.credentials.Load(ctx)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		token = ""
	case err != nil:
		return fmt.Errorf("load credential: %w", err)
	}

	state, err := s.states.Load(ctx)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		state = domainsession.State{}
	case err != nil:
		return fmt.Errorf("load session state: %w", err)
	}

	s.credential = token
	s.state = state
	if token != "" {
		s.logger.Debug("restored durable credential", "has_identity", state.Identity != nil)
	}
	// The authenticated flag follows credential presence. A durable
	// state claiming authentication with no credential behind it (a
	// crash between the two deletes, or an externally removed token)
	// must not restore an authenticated session.
	if s.state.Authenticated != (token != "") {
		s.state.Authenticated = token != ""
		if saveErr := s.states.Save(ctx, s.state); saveErr != nil {
			return fmt.Errorf("persist session state: %w", saveErr)
		}
	}
	s.initialized = true
	return nil
}

// SetCredential replaces the in-memory credential only. An empty
// token means subsequent calls go out unauthenticated. The durable
// copy is untouched; use PutCredential for the paired durable write
// and Teardown for removal.
func (s *Store) SetCredential(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = token
}

// Credential returns the in-memory credential, or "" when none is
// cached. It never touches the durable store.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// PutCredential durably stores the token and then installs it in
// memory, rotating the session epoch. The durable write happens first
// so that a crash between the two steps leaves a credential that the
// next Initialize will pick up, never a cached credential with no
// durable copy.
func (s *Store) PutCredential(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.credentials.Save(ctx, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.credential = token
	s.epoch = uuid.New()
	return nil
}

// dropCredentialLocked deletes the durable credential and then clears
// the in-memory copy, in that order.
func (s *Store) dropCredentialLocked(ctx context.Context) error {
	if err := s.credentials.Delete(ctx); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	s.credential = ""
	return nil
}

// SetIdentity replaces the cached identity and writes the session
// state through to the durable store.
func (s *Store) SetIdentity(ctx context.Context, identity *domainsession.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Identity = identity
	return s.persistLocked(ctx)
}

// SetAuthenticated sets the authenticated flag and writes through.
func (s *Store) SetAuthenticated(ctx context.Context, authenticated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Authenticated = authenticated
	return s.persistLocked(ctx)
}

// SetPermissions replaces the cached permission set and writes
// through.
func (s *Store) SetPermissions(ctx context.Context, perms domainsession.PermissionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Permissions = perms
	return s.persistLocked(ctx)
}

// Teardown clears credential, identity, authenticated flag and
// permission set as one atomic update: the durable credential is
// removed, then the emptied session state is written through, then
// the in-memory cell is reset and the epoch rotated. Callers observe
// either the old session or none.
func (s *Store) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.dropCredentialLocked(ctx); err != nil {
		return err
	}
	s.state = domainsession.State{}
	s.epoch = uuid.New()
	return s.persistLocked(ctx)
}

// Snapshot returns a copy of the cached session state.
func (s *Store) Snapshot() domainsession.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Epoch identifies the current session generation. It changes
// whenever a credential is installed or the session is torn down, so
// completion handlers of in-flight calls can detect that the session
// they were issued under is gone and discard their results.
func (s *Store) Epoch() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Store) persistLocked(ctx context.Context) error {
	if err := s.states.Save(ctx, s.state); err != nil {
		return fmt.Errorf("persist session state: %w", err)
	}
	return nil
}
