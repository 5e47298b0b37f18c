// Package postgres provides Postgres-backed durable session slots for
// back-office deployments that already run against the association's
// database. Each slot is one row keyed by terminal id and slot name.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

const (
	credentialSlot = "credential"
	stateSlot      = "state"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EnsureSchema creates the slots table if it does not exist.
func EnsureSchema(ctx context.Context, db Querier) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS client_session_slots (
			terminal_id TEXT NOT NULL,
			slot        TEXT NOT NULL,
			payload     TEXT NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (terminal_id, slot)
		)`)
	if err != nil {
		return fmt.Errorf("create client_session_slots table: %w", err)
	}
	return nil
}

// Store holds both durable slots for one terminal.
type Store struct {
	db         Querier
	terminalID string
}

// NewStore creates a Store scoped to the given terminal id.
func NewStore(db Querier, terminalID string) *Store {
	return &Store{db: db, terminalID: terminalID}
}

// Credentials returns the credential-slot view of the store.
func (s *Store) Credentials() *CredentialStore { return &CredentialStore{store: s} }

// States returns the session-state-slot view of the store.
func (s *Store) States() *StateStore { return &StateStore{store: s} }

func (s *Store) save(ctx context.Context, slot, payload string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO client_session_slots (terminal_id, slot, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (terminal_id, slot)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		s.terminalID, slot, payload)
	if err != nil {
		return fmt.Errorf("upsert %s slot: %w", slot, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, slot string) (string, error) {
	var payload string
	err := s.db.QueryRow(ctx,
		`SELECT payload FROM client_session_slots WHERE terminal_id = $1 AND slot = $2`,
		s.terminalID, slot).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("select %s slot: %w", slot, err)
	}
	return payload, nil
}

func (s *Store) delete(ctx context.Context, slot string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM client_session_slots WHERE terminal_id = $1 AND slot = $2`,
		s.terminalID, slot)
	if err != nil {
		return fmt.Errorf("delete %s slot: %w", slot, err)
	}
	return nil
}

// CredentialStore is the raw-token slot.
type CredentialStore struct {
	store *Store
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func (c *CredentialStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("credential cannot be empty")
	}
	return c.store.save(ctx, credentialSlot, token)
}

func (c *CredentialStore) Load(ctx context.Context) (string, error) {
	return c.store.load(ctx, credentialSlot)
}

func (c *CredentialStore) Delete(ctx context.Context) error {
	return c.store.delete(ctx, credentialSlot)
}

// StateStore is the serialized session-state slot.
type StateStore struct {
	store *Store
}

var _ ports.StateStore = (*StateStore)(nil)

func (st *StateStore) Save(ctx context.Context, state domainsession.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	return st.store.save(ctx, stateSlot, string(data))
}

func (st *StateStore) Load(ctx context.Context) (domainsession.State, error) {
	payload, err := st.store.load(ctx, stateSlot)
	if err != nil {
		return domainsession.State{}, err
	}

	var state domainsession.State
	if unmarshalErr := json.Unmarshal([]byte(payload), &state); unmarshalErr != nil {
		return domainsession.State{}, fmt.Errorf("unmarshal session state: %w", unmarshalErr)
	}
	return state, nil
}

func (st *StateStore) Delete(ctx context.Context) error {
	return st.store.delete(ctx, stateSlot)
}
