// Package audit implements the append-only audit ledger. Every
// significant mutation in the repository layer feeds it; the ledger
// owns the audit namespace and nothing but its own append ever writes
// there. Entries are immutable: there is no update path, and the only
// delete is a bulk reset reserved for test fixtures.
package audit

import (
	"errors"
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Actor identifies who performed a mutation.
type Actor struct {
	UserID   string
	UserName string
}

// Input is the caller-supplied part of an audit entry; Append computes
// the id and timestamp.
type Input struct {
	Actor       Actor
	Action      string
	EntityType  string
	EntityID    string
	Description string
	Before      map[string]any
	After       map[string]any
	Metadata    map[string]any
}

// Append validation errors.
var (
	ErrActionEmpty     = errors.New("audit action must not be empty")
	ErrEntityTypeEmpty = errors.New("audit entity type must not be empty")
)

// Ledger appends to and queries the audit namespace.
type Ledger struct {
	store types.Store
	now   func() time.Time
}

// NewLedger creates a ledger over store.
func NewLedger(store types.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Append computes id and timestamp for in and persists the entry.
// Audit writes are not transactional with the primary mutation they
// describe: the repository performs its write first and appends after,
// so an append failure means the primary change is durable but
// unaudited. Callers see the error and can decide how loudly to fail.
func (l *Ledger) Append(in Input) (*types.AuditEntry, error) {
	if in.Action == "" {
		return nil, ErrActionEmpty
	}
	if in.EntityType == "" {
		return nil, ErrEntityTypeEmpty
	}

	entry := &types.AuditEntry{
		Entity:      types.NewEntity(l.now()),
		UserID:      in.Actor.UserID,
		UserName:    in.Actor.UserName,
		Action:      in.Action,
		EntityType:  in.EntityType,
		EntityID:    in.EntityID,
		Description: in.Description,
		Before:      in.Before,
		After:       in.After,
		Metadata:    in.Metadata,
	}
	if err := l.store.Save(types.NamespaceAudit, entry); err != nil {
		return nil, fmt.Errorf("appending audit entry: %w", err)
	}
	return entry, nil
}

// newestFirst orders by id descending. Entry ids are UUID v7, which are
// time-ordered, so id order is creation order with a total order even
// for entries sharing a wall-clock timestamp.
var newestFirst = &types.OrderBy{Field: "id", Desc: true}

// ByEntity returns every entry for one entity, newest first.
func (l *Ledger) ByEntity(entityType, entityID string) ([]*types.AuditEntry, error) {
	return l.query(types.Query{
		Where:   types.Where{"entity_type": entityType, "entity_id": entityID},
		OrderBy: newestFirst,
	})
}

// ByUser returns every entry recorded for one actor, newest first.
func (l *Ledger) ByUser(userID string) ([]*types.AuditEntry, error) {
	return l.query(types.Query{
		Where:   types.Where{"user_id": userID},
		OrderBy: newestFirst,
	})
}

// Recent returns the limit most recently created entries, newest first.
func (l *Ledger) Recent(limit int) ([]*types.AuditEntry, error) {
	return l.query(types.Query{OrderBy: newestFirst, Limit: limit})
}

// Reset bulk-clears the ledger. Reserved for test fixtures; production
// code paths never call it.
func (l *Ledger) Reset() error {
	return l.store.Clear(types.NamespaceAudit)
}

func (l *Ledger) query(q types.Query) ([]*types.AuditEntry, error) {
	recs, err := l.store.Query(types.NamespaceAudit, q)
	if err != nil {
		return nil, err
	}
	entries := make([]*types.AuditEntry, 0, len(recs))
	for _, rec := range recs {
		entry, ok := rec.(*types.AuditEntry)
		if !ok {
			return nil, fmt.Errorf("%w: audit namespace holds %T", types.ErrInvalidRecord, rec)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
