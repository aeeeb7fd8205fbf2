package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

// dbFileName is the single database file holding every namespace.
const dbFileName = "slipway.db"

// Backend implements types.Backend on SQLite.
type Backend struct {
	mu        sync.RWMutex
	attached  bool
	db        *sql.DB
	factories map[string]func() types.Record
}

// NewBackend creates a detached SQLite backend; call Attach before use.
func NewBackend() *Backend {
	return &Backend{factories: types.Factories}
}

// Attach opens (or creates) the database under config.DataDir and
// ensures the schema exists. Unlike the file medium, storage failures
// here surface as errors rather than degrading silently.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(config.DataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("initializing schema: %w", err)
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// factory resolves the record constructor for a namespace, validating
// attachment at the same time.
func (b *Backend) factory(namespace string) (func() types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	f, ok := b.factories[namespace]
	if !ok {
		return nil, types.ErrNamespaceUnknown
	}
	return f, nil
}

// Save runs the version check and the upsert in one short transaction,
// so the check-then-write pair cannot interleave with another writer.
func (b *Backend) Save(namespace string, rec types.Record) error {
	if _, err := b.factory(namespace); err != nil {
		return err
	}
	return b.inTx(func(tx *sql.Tx) error {
		return saveRecord(tx, namespace, rec)
	})
}

// Get implements Store.Get.
func (b *Backend) Get(namespace, id string) (types.Record, bool, error) {
	f, err := b.factory(namespace)
	if err != nil {
		return nil, false, err
	}
	return getRecord(b.db, f, namespace, id)
}

// GetAll implements Store.GetAll.
func (b *Backend) GetAll(namespace string) ([]types.Record, error) {
	f, err := b.factory(namespace)
	if err != nil {
		return nil, err
	}
	return getAllRecords(b.db, f, namespace)
}

// Query implements Store.Query.
func (b *Backend) Query(namespace string, q types.Query) ([]types.Record, error) {
	f, err := b.factory(namespace)
	if err != nil {
		return nil, err
	}
	return queryRecords(b.db, f, namespace, q)
}

// Delete implements Store.Delete. Idempotent.
func (b *Backend) Delete(namespace, id string) error {
	if _, err := b.factory(namespace); err != nil {
		return err
	}
	return deleteRecord(b.db, namespace, id)
}

// SaveMany saves the batch in a single transaction: a conflict on any
// record rolls back the whole batch.
func (b *Backend) SaveMany(namespace string, recs []types.Record) error {
	if _, err := b.factory(namespace); err != nil {
		return err
	}
	return b.inTx(func(tx *sql.Tx) error {
		for _, rec := range recs {
			if err := saveRecord(tx, namespace, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Transaction runs fn against a transaction-scoped store. An error from
// fn rolls back every write fn made; nil commits them.
func (b *Backend) Transaction(fn func(tx types.Store) error) error {
	b.mu.RLock()
	attached := b.attached
	b.mu.RUnlock()
	if !attached {
		return types.ErrStoreDetached
	}
	return b.inTx(func(tx *sql.Tx) error {
		return fn(&txStore{backend: b, tx: tx})
	})
}

// Clear implements Store.Clear. Test fixtures only.
func (b *Backend) Clear(namespace string) error {
	if _, err := b.factory(namespace); err != nil {
		return err
	}
	return clearNamespace(b.db, namespace)
}

// Count implements Store.Count.
func (b *Backend) Count(namespace string, where types.Where) (int, error) {
	f, err := b.factory(namespace)
	if err != nil {
		return 0, err
	}
	return countRecords(b.db, f, namespace, where)
}

// inTx runs fn in a transaction with commit/rollback handling.
func (b *Backend) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
