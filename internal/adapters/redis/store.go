// Package redis provides Redis-backed durable session slots for
// shared point-of-sale terminals, where the session must survive the
// terminal process and roam between kiosk instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

const (
	credentialSlot = "credential"
	stateSlot      = "state"
)

// Store holds both durable slots under a common key prefix. A zero
// TTL means the slots never expire on their own; teardown deletes
// them explicitly.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store with the default "oressource:session:"
// prefix.
func NewStore(client redis.UniversalClient) *Store {
	return NewStoreWithPrefix(client, "oressource:session:")
}

// NewStoreWithPrefix creates a Store with a custom key prefix.
func NewStoreWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// WithTTL returns the store with an expiry applied to both slots on
// every save.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Credentials returns the credential-slot view of the store.
func (s *Store) Credentials() *CredentialStore { return &CredentialStore{store: s} }

// States returns the session-state-slot view of the store.
func (s *Store) States() *StateStore { return &StateStore{store: s} }

func (s *Store) key(slot string) string { return s.prefix + slot }

func (s *Store) set(ctx context.Context, slot string, data []byte) error {
	return s.client.Set(ctx, s.key(slot), data, s.ttl).Err()
}

func (s *Store) get(ctx context.Context, slot string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", slot, err)
	}
	return data, nil
}

func (s *Store) del(ctx context.Context, slot string) error {
	return s.client.Del(ctx, s.key(slot)).Err()
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
	return c.store.set(ctx, credentialSlot, []byte(token))
}

func (c *CredentialStore) Load(ctx context.Context) (string, error) {
	data, err := c.store.get(ctx, credentialSlot)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *CredentialStore) Delete(ctx context.Context) error {
	return c.store.del(ctx, credentialSlot)
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
	return st.store.set(ctx, stateSlot, data)
}

func (st *StateStore) Load(ctx context.Context) (domainsession.State, error) {
	data, err := st.store.get(ctx, stateSlot)
	if err != nil {
		return domainsession.State{}, err
	}

	var state domainsession.State
	if unmarshalErr := json.Unmarshal(data, &state); unmarshalErr != nil {
		return domainsession.State{}, fmt.Errorf("unmarshal session state: %w", unmarshalErr)
	}
	return state, nil
}

func (st *StateStore) Delete(ctx context.Context) error {
	return st.store.del(ctx, stateSlot)
}
