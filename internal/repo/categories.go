package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Categories manages the categories and subcategories namespaces of the
// parts library. Both list in explicit sort order, with name as the
// tiebreak left to insertion order.
type Categories struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewCategories creates a category repository.
func NewCategories(store types.Store, ledger *audit.Ledger) *Categories {
	return &Categories{store: store, ledger: ledger}
}

// Create persists a new category.
func (r *Categories) Create(c *types.Category, actor audit.Actor) error {
	if c.Name == "" {
		return fmt.Errorf("%w: category name must not be empty", types.ErrInvalidRecord)
	}
	c.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceCategories, c); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityCategory, c.ID, c.Name); err != nil {
		return fmt.Errorf("auditing category create: %w", err)
	}
	return nil
}

// Update saves a modified category.
func (r *Categories) Update(c *types.Category, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceCategories, c.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	c.Bump(time.Now())
	if err := r.store.Save(types.NamespaceCategories, c); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityCategory, c.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing category update: %w", err)
	}
	return nil
}

// Get retrieves a category by id.
func (r *Categories) Get(id string) (*types.Category, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceCategories, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Category), true, nil
}

// List returns all categories in explicit sort order.
func (r *Categories) List() ([]*types.Category, error) {
	recs, err := r.store.Query(types.NamespaceCategories, types.Query{
		OrderBy: &types.OrderBy{Field: "sort_order"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Category](recs)
}

// Delete removes a category permanently.
func (r *Categories) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceCategories, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityCategory, id); err != nil {
		return fmt.Errorf("auditing category delete: %w", err)
	}
	return nil
}

// CreateSub persists a new subcategory under its parent category.
func (r *Categories) CreateSub(s *types.Subcategory, actor audit.Actor) error {
	if s.Name == "" {
		return fmt.Errorf("%w: subcategory name must not be empty", types.ErrInvalidRecord)
	}
	if s.CategoryID == "" {
		return fmt.Errorf("%w: subcategory category id must not be empty", types.ErrInvalidRecord)
	}
	s.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceSubcategories, s); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entitySubcategory, s.ID, s.Name); err != nil {
		return fmt.Errorf("auditing subcategory create: %w", err)
	}
	return nil
}

// UpdateSub saves a modified subcategory.
func (r *Categories) UpdateSub(s *types.Subcategory, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceSubcategories, s.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	s.Bump(time.Now())
	if err := r.store.Save(types.NamespaceSubcategories, s); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entitySubcategory, s.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing subcategory update: %w", err)
	}
	return nil
}

// GetSub retrieves a subcategory by id.
func (r *Categories) GetSub(id string) (*types.Subcategory, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceSubcategories, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Subcategory), true, nil
}

// ListSubs returns a category's subcategories in explicit sort order.
func (r *Categories) ListSubs(categoryID string) ([]*types.Subcategory, error) {
	recs, err := r.store.Query(types.NamespaceSubcategories, types.Query{
		Where:   types.Where{"category_id": categoryID},
		OrderBy: &types.OrderBy{Field: "sort_order"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Subcategory](recs)
}

// DeleteSub removes a subcategory permanently.
func (r *Categories) DeleteSub(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceSubcategories, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entitySubcategory, id); err != nil {
		return fmt.Errorf("auditing subcategory delete: %w", err)
	}
	return nil
}
