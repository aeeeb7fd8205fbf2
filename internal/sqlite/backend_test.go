package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, b.Attach(cfg))
	t.Cleanup(func() { b.Detach() })
	return b
}

func newClient(name string) *types.Client {
	return &types.Client{
		Entity: types.NewEntity(time.Now()),
		Name:   name,
		Status: types.ClientStatusActive,
	}
}

func TestAttachCreatesDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	require.NoError(t, b.Attach(cfg))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, "slipway.db"))
	assert.NoError(t, err, "slipway.db should exist after attach")

	assert.ErrorIs(t, b.Attach(cfg), types.ErrAlreadyAttached)
}

func TestAttachPreservesExistingData(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend()
	require.NoError(t, b.Attach(cfg))
	c := newClient("durable")
	require.NoError(t, b.Save(types.NamespaceClients, c))
	require.NoError(t, b.Detach())

	// Re-attach must not wipe the database.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(cfg))
	defer b2.Detach()

	rec, ok, err := b2.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "durable", rec.(*types.Client).Name)
}

func TestDetachStopsOperations(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, _, err := b.Get(types.NamespaceClients, "x")
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	err = b.Transaction(func(tx types.Store) error { return nil })
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestSaveRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	created := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	c := &types.Client{
		Entity:      types.NewEntity(created),
		Name:        "Fjord Expeditions",
		ContactName: "A. Berg",
		Email:       "berg@example.com",
		Status:      types.ClientStatusActive,
	}
	require.NoError(t, b.Save(types.NamespaceClients, c))

	rec, ok, err := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	got := rec.(*types.Client)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.ContactName, got.ContactName)
	assert.Equal(t, c.Email, got.Email)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, int64(1), got.Version)
}

func TestVersionConflict(t *testing.T) {
	b := newTestBackend(t)

	tests := []struct {
		name         string
		stored       int64
		incoming     int64
		wantConflict bool
	}{
		{"same version conflicts", 1, 1, true},
		{"lower version conflicts", 5, 3, true},
		{"higher version wins", 1, 2, false},
		{"zero stored bypasses check", 0, 1, false},
		{"zero incoming bypasses check", 4, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient("original")
			c.Version = tt.stored
			require.NoError(t, b.Save(types.NamespaceClients, c))

			update := newClient("updated")
			update.ID = c.ID
			update.Version = tt.incoming
			err := b.Save(types.NamespaceClients, update)

			if tt.wantConflict {
				assert.ErrorIs(t, err, types.ErrConflict)
				var conflict *types.ConflictError
				require.ErrorAs(t, err, &conflict)
				assert.Equal(t, tt.stored, conflict.StoredVersion)
				assert.Equal(t, tt.incoming, conflict.IncomingVersion)
			} else {
				require.NoError(t, err)
				rec, ok, getErr := b.Get(types.NamespaceClients, c.ID)
				require.NoError(t, getErr)
				require.True(t, ok)
				assert.Equal(t, "updated", rec.(*types.Client).Name)
			}

			require.NoError(t, b.Clear(types.NamespaceClients))
		})
	}
}

func TestDeleteIdempotent(t *testing.T) {
	b := newTestBackend(t)
	c := newClient("gone soon")
	require.NoError(t, b.Save(types.NamespaceClients, c))

	require.NoError(t, b.Delete(types.NamespaceClients, c.ID))
	_, ok, err := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Delete(types.NamespaceClients, c.ID))
}

func TestSaveManyRollsBackOnConflict(t *testing.T) {
	b := newTestBackend(t)

	existing := newClient("existing")
	require.NoError(t, b.Save(types.NamespaceClients, existing))

	stale := newClient("stale")
	stale.ID = existing.ID
	stale.Version = existing.Version

	fresh := newClient("fresh")
	err := b.SaveMany(types.NamespaceClients, []types.Record{fresh, stale})
	require.ErrorIs(t, err, types.ErrConflict)

	_, ok, getErr := b.Get(types.NamespaceClients, fresh.ID)
	require.NoError(t, getErr)
	assert.False(t, ok, "the conflicting batch must roll back entirely")
}

func TestTransactionCommit(t *testing.T) {
	b := newTestBackend(t)

	c := newClient("committed")
	p := &types.Project{
		Entity: types.NewEntity(time.Now()),
		Name:   "Hull 42",
		Status: types.ProjectStatusDraft,
	}
	err := b.Transaction(func(tx types.Store) error {
		if err := tx.Save(types.NamespaceClients, c); err != nil {
			return err
		}
		p.ClientID = c.ID
		return tx.Save(types.NamespaceProjects, p)
	})
	require.NoError(t, err)

	_, ok, err := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = b.Get(types.NamespaceProjects, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTransactionRollback(t *testing.T) {
	b := newTestBackend(t)

	c := newClient("rolled back")
	boom := errors.New("boom")
	err := b.Transaction(func(tx types.Store) error {
		if err := tx.Save(types.NamespaceClients, c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, getErr := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, getErr)
	assert.False(t, ok, "writes inside a failed transaction must not persist")
}

func TestTransactionReadsOwnWrites(t *testing.T) {
	b := newTestBackend(t)

	c := newClient("visible in tx")
	err := b.Transaction(func(tx types.Store) error {
		if err := tx.Save(types.NamespaceClients, c); err != nil {
			return err
		}
		_, ok, err := tx.Get(types.NamespaceClients, c.ID)
		if err != nil {
			return err
		}
		require.True(t, ok, "a transaction sees its own writes")
		return nil
	})
	require.NoError(t, err)
}

func TestNestedTransactionJoins(t *testing.T) {
	b := newTestBackend(t)

	c := newClient("nested")
	err := b.Transaction(func(tx types.Store) error {
		return tx.Transaction(func(inner types.Store) error {
			return inner.Save(types.NamespaceClients, c)
		})
	})
	require.NoError(t, err)

	_, ok, err := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQueryAndCount(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"Zeta", "Alpha", "Mimi"} {
		c := newClient(name)
		if name == "Zeta" {
			c.Status = types.ClientStatusInactive
		}
		require.NoError(t, b.Save(types.NamespaceClients, c))
	}

	recs, err := b.Query(types.NamespaceClients, types.Query{
		Where:   types.Where{"status": types.ClientStatusActive},
		OrderBy: &types.OrderBy{Field: "name"},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Alpha", recs[0].(*types.Client).Name)
	assert.Equal(t, "Mimi", recs[1].(*types.Client).Name)

	n, err := b.Count(types.NamespaceClients, types.Where{"status": types.ClientStatusInactive})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = b.Count(types.NamespaceClients, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestGetAllInsertionOrder(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"third", "first", "second"} {
		require.NoError(t, b.Save(types.NamespaceClients, newClient(name)))
	}

	recs, err := b.GetAll(types.NamespaceClients)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "third", recs[0].(*types.Client).Name)
	assert.Equal(t, "second", recs[2].(*types.Client).Name)
}

func TestNamespaceIsolation(t *testing.T) {
	b := newTestBackend(t)

	c := newClient("shared id holder")
	require.NoError(t, b.Save(types.NamespaceClients, c))

	// Same id in a different namespace is a distinct record.
	s := &types.Staff{Entity: types.NewEntity(time.Now()), Name: "Rigger", IsActive: true}
	s.ID = c.ID
	require.NoError(t, b.Save(types.NamespaceStaff, s))

	require.NoError(t, b.Delete(types.NamespaceStaff, c.ID))
	_, ok, err := b.Get(types.NamespaceClients, c.ID)
	require.NoError(t, err)
	assert.True(t, ok, "deleting in one namespace must not touch another")
}

func TestUnknownNamespace(t *testing.T) {
	b := newTestBackend(t)

	err := b.Save("mystery", newClient("a"))
	assert.ErrorIs(t, err, types.ErrNamespaceUnknown)

	_, err = b.Query("mystery", types.Query{})
	assert.ErrorIs(t, err, types.ErrNamespaceUnknown)
}
