// Package filestore is the default durable backend: two named slots
// on the local filesystem, the terminal-side analog of the browser's
// localStorage. Writes go through a temp file and rename so a crash
// never leaves a half-written slot.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

const (
	credentialFile = "credential"
	stateFile      = "session.json"

	dirMode  = 0o700
	fileMode = 0o600
)

// CredentialStore persists the raw bearer token in a single file.
type CredentialStore struct {
	path string
}

// NewCredentialStore returns a CredentialStore rooted at dir.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{path: filepath.Join(dir, credentialFile)}
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func (s *CredentialStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("credential cannot be empty")
	}
	return writeAtomic(s.path, []byte(token))
}

func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("read credential file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ports.ErrNotFound
	}
	return token, nil
}

func (s *CredentialStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}

// StateStore persists the serialized session state as JSON.
type StateStore struct {
	path string
}

// NewStateStore returns a StateStore rooted at dir.
func NewStateStore(dir string) *StateStore {
	return &StateStore{path: filepath.Join(dir, stateFile)}
}

var _ ports.StateStore = (*StateStore)(nil)

func (s *StateStore) Save(ctx context.Context, state domainsession.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	return writeAtomic(s.path, data)
}

func (s *StateStore) Load(ctx context.Context) (domainsession.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domainsession.State{}, ports.ErrNotFound
		}
		return domainsession.State{}, fmt.Errorf("read session state file: %w", err)
	}

	var state domainsession.State
	if err := json.Unmarshal(data, &state); err != nil {
		return domainsession.State{}, fmt.Errorf("unmarshal session state: %w", err)
	}
	return state, nil
}

func (s *StateStore) Delete(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session state file: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
