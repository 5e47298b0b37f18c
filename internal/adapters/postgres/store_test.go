package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/oressource/auth-client-go/internal/domain/session"
	"github.com/oressource/auth-client-go/internal/ports"
)

// fakeDB backs the slots table with a map keyed by terminal id and
// slot, matching the table's primary key.
type fakeDB struct {
	rows     map[[2]string]string
	ddl      []string
	execErr  error
	queryErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[[2]string]string)}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	stmt := strings.TrimSpace(sql)
	switch {
	case strings.HasPrefix(stmt, "CREATE TABLE"):
		f.ddl = append(f.ddl, stmt)
	case strings.HasPrefix(stmt, "INSERT"):
		f.rows[[2]string{args[0].(string), args[1].(string)}] = args[2].(string)
	case strings.HasPrefix(stmt, "DELETE"):
		delete(f.rows, [2]string{args[0].(string), args[1].(string)})
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if f.queryErr != nil {
		return fakeRow{err: f.queryErr}
	}
	payload, ok := f.rows[[2]string{args[0].(string), args[1].(string)}]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: payload}
}

type fakeRow struct {
	payload string
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.payload
	return nil
}

func TestEnsureSchema_CreatesSlotsTable(t *testing.T) {
	db := newFakeDB()

	require.NoError(t, EnsureSchema(context.Background(), db))

	require.Len(t, db.ddl, 1)
	assert.Contains(t, db.ddl[0], "client_session_slots")
}

func TestCredentialStore_Roundtrip(t *testing.T) {
	db := newFakeDB()
	creds := NewStore(db, "caisse-1").Credentials()
	ctx := context.Background()

	_, err := creds.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, creds.Save(ctx, "bearer-token"))

	token, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token", token)

	require.NoError(t, creds.Delete(ctx))
	_, err = creds.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCredentialStore_Save_RejectsEmptyToken(t *testing.T) {
	creds := NewStore(newFakeDB(), "caisse-1").Credentials()

	require.Error(t, creds.Save(context.Background(), ""))
}

func TestCredentialStore_Delete_Idempotent(t *testing.T) {
	creds := NewStore(newFakeDB(), "caisse-1").Credentials()
	ctx := context.Background()

	require.NoError(t, creds.Delete(ctx))
	require.NoError(t, creds.Delete(ctx))
}

func TestStateStore_Roundtrip(t *testing.T) {
	db := newFakeDB()
	states := NewStore(db, "caisse-1").States()
	ctx := context.Background()

	_, err := states.Load(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	saved := domainsession.State{
		Identity: &domainsession.Identity{
			ID:     3,
			Email:  "p@ressourcerie.example",
			Role:   domainsession.RoleAdmin,
			Status: domainsession.StatusApproved,
			Active: true,
		},
		Authenticated: true,
		Permissions:   domainsession.PermissionSet{domainsession.PermissionReception},
	}
	require.NoError(t, states.Save(ctx, saved))

	loaded, err := states.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestStore_TerminalsAreIsolated(t *testing.T) {
	db := newFakeDB()
	ctx := context.Background()

	require.NoError(t, NewStore(db, "caisse-1").Credentials().Save(ctx, "token-one"))
	require.NoError(t, NewStore(db, "caisse-2").Credentials().Save(ctx, "token-two"))

	token, err := NewStore(db, "caisse-1").Credentials().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-one", token)
}

func TestStateStore_Load_CorruptPayload(t *testing.T) {
	db := newFakeDB()
	db.rows[[2]string{"caisse-1", stateSlot}] = "{not json"

	_, err := NewStore(db, "caisse-1").States().Load(context.Background())

	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrNotFound)
}
