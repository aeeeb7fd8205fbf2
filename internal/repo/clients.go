package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Clients manages the clients namespace. Clients support hard delete
// only.
type Clients struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewClients creates a client repository.
func NewClients(store types.Store, ledger *audit.Ledger) *Clients {
	return &Clients{store: store, ledger: ledger}
}

// Create persists a new client and audits the creation. The id,
// timestamps, and initial version are assigned here; Status defaults to
// active.
func (r *Clients) Create(c *types.Client, actor audit.Actor) error {
	if c.Name == "" {
		return fmt.Errorf("%w: client name must not be empty", types.ErrInvalidRecord)
	}
	if c.Status == "" {
		c.Status = types.ClientStatusActive
	}
	c.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceClients, c); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityClient, c.ID, c.Name); err != nil {
		return fmt.Errorf("auditing client create: %w", err)
	}
	return nil
}

// Update saves a modified client. Returns types.ErrNotFound when the id
// does not exist; a stale version fails with a conflict from the store.
func (r *Clients) Update(c *types.Client, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceClients, c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	c.Bump(time.Now())
	if err := r.store.Save(types.NamespaceClients, c); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityClient, c.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing client update: %w", err)
	}
	return nil
}

// Get retrieves a client by id; absence is signaled by the bool.
func (r *Clients) Get(id string) (*types.Client, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceClients, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Client), true, nil
}

// List returns all clients ordered by name.
func (r *Clients) List() ([]*types.Client, error) {
	recs, err := r.store.Query(types.NamespaceClients, types.Query{
		OrderBy: &types.OrderBy{Field: "name"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Client](recs)
}

// ListByStatus returns clients with the given status, ordered by name.
func (r *Clients) ListByStatus(status string) ([]*types.Client, error) {
	recs, err := r.store.Query(types.NamespaceClients, types.Query{
		Where:   types.Where{"status": status},
		OrderBy: &types.OrderBy{Field: "name"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Client](recs)
}

// Search returns clients whose name, contact name, or email contains
// term, case-insensitively, ordered by name.
func (r *Clients) Search(term string) ([]*types.Client, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	var out []*types.Client
	for _, c := range all {
		if containsFold(c.Name, term) || containsFold(c.ContactName, term) || containsFold(c.Email, term) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Delete removes a client permanently and audits the deletion.
func (r *Clients) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceClients, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityClient, id); err != nil {
		return fmt.Errorf("auditing client delete: %w", err)
	}
	return nil
}

// Import merges externally sourced clients into the local store,
// skipping any record whose version is not strictly greater than the
// stored one.
func (r *Clients) Import(clients []*types.Client, actor audit.Actor) (ImportResult, error) {
	recs := make([]types.Record, len(clients))
	for i, c := range clients {
		recs[i] = c
	}
	res, err := mergeRecords(r.store, types.NamespaceClients, recs)
	if err != nil {
		return res, err
	}
	if err := r.ledger.LogImport(actor, entityClient, res.Imported, res.Skipped); err != nil {
		return res, fmt.Errorf("auditing client import: %w", err)
	}
	return res, nil
}
