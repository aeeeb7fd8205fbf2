// Package filekv implements the embedded key-value storage backend: one
// JSONL file per namespace holding the full entity sequence. Every save
// loads the sequence, scans linearly for the id, applies the optimistic
// concurrency check, and rewrites the file as one atomic unit. Writes
// are O(n) in namespace size but atomic at namespace granularity. There
// is no cross-operation lock between one caller's load and persist, so
// serializing logically concurrent writers is the caller's concern; the
// version check is the only mitigation.
package filekv

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/skagerrak-boats/slipway/internal/query"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Backend implements types.Backend over per-namespace JSONL files.
type Backend struct {
	mu        sync.RWMutex
	attached  bool
	dataDir   string
	factories map[string]func() types.Record
}

// NewBackend creates a detached file backend; call Attach before use.
func NewBackend() *Backend {
	return &Backend{factories: types.Factories}
}

// Attach validates config and creates the data directory if needed.
// Returns types.ErrAlreadyAttached on a second call.
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

	b.dataDir = config.DataDir
	b.attached = true
	return nil
}

// Detach marks the backend detached. Idempotent; there are no open
// resources to release for the file medium.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attached = false
	return nil
}

// Save creates or updates rec in the namespace. The update path applies
// the optimistic concurrency check: with both versions above zero the
// incoming version must be strictly greater than the stored one, else
// Save fails with a *types.ConflictError. A zero on either side accepts
// the write unconditionally (unversioned seed/bootstrap escape hatch).
func (b *Backend) Save(namespace string, rec types.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOp(namespace); err != nil {
		return err
	}
	if rec == nil || rec.RecordID() == "" {
		return types.ErrInvalidID
	}

	recs, err := b.loadLocked(namespace)
	if err != nil {
		return err
	}
	recs, err = upsert(namespace, recs, rec)
	if err != nil {
		return err
	}
	return b.persistLocked(namespace, recs)
}

// upsert scans for rec's id and replaces or appends, enforcing the
// version rule on the update path.
func upsert(namespace string, recs []types.Record, rec types.Record) ([]types.Record, error) {
	for i, existing := range recs {
		if existing.RecordID() != rec.RecordID() {
			continue
		}
		stored := existing.Meta().Version
		incoming := rec.Meta().Version
		if stored > 0 && incoming > 0 && incoming <= stored {
			return nil, &types.ConflictError{
				Namespace:       namespace,
				ID:              rec.RecordID(),
				StoredVersion:   stored,
				IncomingVersion: incoming,
			}
		}
		recs[i] = rec
		return recs, nil
	}
	return append(recs, rec), nil
}

// Get retrieves a record by id; absence is signaled by the bool.
func (b *Backend) Get(namespace, id string) (types.Record, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOp(namespace); err != nil {
		return nil, false, err
	}
	recs, err := b.loadLocked(namespace)
	if err != nil {
		return nil, false, err
	}
	for _, rec := range recs {
		if rec.RecordID() == id {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// GetAll returns the namespace sequence in file order.
func (b *Backend) GetAll(namespace string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOp(namespace); err != nil {
		return nil, err
	}
	recs, err := b.loadLocked(namespace)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []types.Record{}
	}
	return recs, nil
}

// Query evaluates q over the namespace sequence.
func (b *Backend) Query(namespace string, q types.Query) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOp(namespace); err != nil {
		return nil, err
	}
	recs, err := b.loadLocked(namespace)
	if err != nil {
		return nil, err
	}
	return query.Apply(recs, q)
}

// Delete removes a record by id. Removing an absent id leaves the
// sequence unchanged and does not error.
func (b *Backend) Delete(namespace, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOp(namespace); err != nil {
		return err
	}
	recs, err := b.loadLocked(namespace)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if rec.RecordID() == id {
			recs = append(recs[:i], recs[i+1:]...)
			return b.persistLocked(namespace, recs)
		}
	}
	return nil
}

// SaveMany applies Save semantics to each record but loads and persists
// the sequence once, so a conflict on any record leaves the file
// untouched.
func (b *Backend) SaveMany(namespace string, recs []types.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOp(namespace); err != nil {
		return err
	}
	stored, err := b.loadLocked(namespace)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec == nil || rec.RecordID() == "" {
			return types.ErrInvalidID
		}
		stored, err = upsert(namespace, stored, rec)
		if err != nil {
			return err
		}
	}
	return b.persistLocked(namespace, stored)
}

// Transaction runs fn against the backend itself. The file medium has
// no isolation or rollback; this is a call-scoping convenience only,
// and the relational backend supplies real transactions behind the same
// contract.
func (b *Backend) Transaction(fn func(tx types.Store) error) error {
	b.mu.RLock()
	attached := b.attached
	b.mu.RUnlock()
	if !attached {
		return types.ErrStoreDetached
	}
	return fn(b)
}

// Clear removes the namespace file entirely. Test fixtures only.
func (b *Backend) Clear(namespace string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkOp(namespace); err != nil {
		return err
	}
	path := namespacePath(b.dataDir, namespace)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing %s: %w", namespace, err)
	}
	return nil
}

// Count returns the number of records matching where.
func (b *Backend) Count(namespace string, where types.Where) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkOp(namespace); err != nil {
		return 0, err
	}
	recs, err := b.loadLocked(namespace)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		if query.Match(rec, where) {
			n++
		}
	}
	return n, nil
}

// checkOp validates attachment and namespace. Caller must hold b.mu.
func (b *Backend) checkOp(namespace string) error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	if _, ok := b.factories[namespace]; !ok {
		return types.ErrNamespaceUnknown
	}
	return nil
}

// loadLocked reads and decodes the full namespace sequence. Caller must
// hold b.mu.
func (b *Backend) loadLocked(namespace string) ([]types.Record, error) {
	lines, err := readLines(namespacePath(b.dataDir, namespace))
	if err != nil {
		return nil, err
	}
	factory := b.factories[namespace]
	recs := make([]types.Record, 0, len(lines))
	for _, line := range lines {
		rec := factory()
		if err := json.Unmarshal(line, rec); err != nil {
			// Undecodable lines are skipped, mirroring the tolerance
			// for malformed lines on read.
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// persistLocked serializes and atomically rewrites the full namespace
// sequence. Caller must hold b.mu.
func (b *Backend) persistLocked(namespace string, recs []types.Record) error {
	lines := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling %s record: %w", namespace, err)
		}
		lines = append(lines, data)
	}
	return writeLines(namespacePath(b.dataDir, namespace), lines)
}
