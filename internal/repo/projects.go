package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// validProjectStatuses is the set of recognized project status values.
var validProjectStatuses = map[string]bool{
	types.ProjectStatusDraft:     true,
	types.ProjectStatusQuoted:    true,
	types.ProjectStatusActive:    true,
	types.ProjectStatusCompleted: true,
	types.ProjectStatusArchived:  true,
}

// Projects manages the projects namespace. A project's configuration
// pins immutable version ids from the parts library; once frozen, the
// configuration is only changed through Amend or EmergencyUnlock, both
// of which leave a ledger trail.
type Projects struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewProjects creates a project repository.
func NewProjects(store types.Store, ledger *audit.Ledger) *Projects {
	return &Projects{store: store, ledger: ledger}
}

// Create persists a new project in draft status and audits the
// creation.
func (r *Projects) Create(p *types.Project, actor audit.Actor) error {
	if p.Name == "" {
		return fmt.Errorf("%w: project name must not be empty", types.ErrInvalidRecord)
	}
	if p.ClientID == "" {
		return fmt.Errorf("%w: project client id must not be empty", types.ErrInvalidRecord)
	}
	if p.Status == "" {
		p.Status = types.ProjectStatusDraft
	}
	if !validProjectStatuses[p.Status] {
		return fmt.Errorf("%w: unknown project status %q", types.ErrInvalidRecord, p.Status)
	}
	p.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityProject, p.ID, p.Name); err != nil {
		return fmt.Errorf("auditing project create: %w", err)
	}
	return nil
}

// Update saves a modified project. Status changes must go through
// UpdateStatus; Update rejects them so every transition reaches the
// ledger with its from/to metadata. A frozen project is likewise
// rejected: changes to it go through Amend or EmergencyUnlock so the
// ledger keeps the post-freeze trail. Derived pricing totals written
// back by the pricing engine arrive through this same path and are
// subject to the same optimistic check.
func (r *Projects) Update(p *types.Project, actor audit.Actor) error {
	stored, ok, err := r.Get(p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if stored.Status != p.Status {
		return fmt.Errorf("%w: use UpdateStatus for status changes", types.ErrInvalidTransition)
	}
	if stored.Frozen {
		return fmt.Errorf("%w: project is frozen; use Amend or EmergencyUnlock", types.ErrInvalidTransition)
	}
	if p.Frozen {
		return fmt.Errorf("%w: use Freeze to freeze a configuration", types.ErrInvalidTransition)
	}
	p.Bump(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityProject, p.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing project update: %w", err)
	}
	return nil
}

// UpdateStatus transitions a project to a new status and records the
// transition with fromStatus/toStatus/reason metadata.
func (r *Projects) UpdateStatus(id, to, reason string, actor audit.Actor) error {
	if !validProjectStatuses[to] {
		return fmt.Errorf("%w: unknown project status %q", types.ErrInvalidTransition, to)
	}
	p, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	from := p.Status
	if from == to {
		return nil
	}
	p.Status = to
	p.Bump(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogStatusTransition(actor, entityProject, id, from, to, reason); err != nil {
		return fmt.Errorf("auditing project status change: %w", err)
	}
	return nil
}

// Freeze marks the project configuration frozen. Idempotent: freezing a
// frozen project is a no-op and is not audited twice.
func (r *Projects) Freeze(id string, actor audit.Actor) error {
	p, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if p.Frozen {
		return nil
	}
	p.Frozen = true
	p.Bump(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogFreeze(actor, entityProject, id); err != nil {
		return fmt.Errorf("auditing project freeze: %w", err)
	}
	return nil
}

// Amend saves a change to a frozen project, recording an amendment
// entry. Amending an unfrozen project is a normal Update.
func (r *Projects) Amend(p *types.Project, note string, actor audit.Actor) error {
	stored, ok, err := r.Get(p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if stored.Status != p.Status {
		return fmt.Errorf("%w: use UpdateStatus for status changes", types.ErrInvalidTransition)
	}
	if !stored.Frozen {
		return r.Update(p, actor)
	}
	// An amendment never thaws the project.
	p.Frozen = true
	p.Bump(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogAmendment(actor, entityProject, p.ID, note); err != nil {
		return fmt.Errorf("auditing project amendment: %w", err)
	}
	return nil
}

// EmergencyUnlock clears the frozen flag outside the normal flow and
// records a critical-severity ledger entry.
func (r *Projects) EmergencyUnlock(id, reason string, actor audit.Actor) error {
	p, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if !p.Frozen {
		return nil
	}
	p.Frozen = false
	p.Bump(time.Now())
	if err := r.store.Save(types.NamespaceProjects, p); err != nil {
		return err
	}
	if err := r.ledger.LogEmergencyUnlock(actor, entityProject, id, reason); err != nil {
		return fmt.Errorf("auditing emergency unlock: %w", err)
	}
	return nil
}

// RecordDocument logs that a document of the given kind was generated
// from the project. Rendering itself happens outside this core.
func (r *Projects) RecordDocument(id, kind string, actor audit.Actor) error {
	_, ok, err := r.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	return r.ledger.LogGenerateDocument(actor, entityProject, id, kind)
}

// Get retrieves a project by id; absence is signaled by the bool.
func (r *Projects) Get(id string) (*types.Project, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceProjects, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Project), true, nil
}

// List returns all projects ordered by name.
func (r *Projects) List() ([]*types.Project, error) {
	recs, err := r.store.Query(types.NamespaceProjects, types.Query{
		OrderBy: &types.OrderBy{Field: "name"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Project](recs)
}

// ListByClient returns a client's projects, newest first.
func (r *Projects) ListByClient(clientID string) ([]*types.Project, error) {
	recs, err := r.store.Query(types.NamespaceProjects, types.Query{
		Where:   types.Where{"client_id": clientID},
		OrderBy: &types.OrderBy{Field: "created_at", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Project](recs)
}

// PinnedArticleVersions resolves the article versions pinned by the
// project's included configuration lines. Because the lines store
// immutable version ids, the result is unaffected by any later
// evolution of the article templates.
func (r *Projects) PinnedArticleVersions(p *types.Project) ([]*types.ArticleVersion, error) {
	var out []*types.ArticleVersion
	for _, line := range p.Configuration {
		if !line.Included || line.ArticleVersionID == "" {
			continue
		}
		rec, ok, err := r.store.Get(types.NamespaceArticleVersions, line.ArticleVersionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("pinned article version %s: %w", line.ArticleVersionID, types.ErrNotFound)
		}
		out = append(out, rec.(*types.ArticleVersion))
	}
	return out, nil
}

// PinnedKitVersions resolves the kit versions pinned by the project's
// included configuration lines.
func (r *Projects) PinnedKitVersions(p *types.Project) ([]*types.KitVersion, error) {
	var out []*types.KitVersion
	for _, line := range p.Configuration {
		if !line.Included || line.KitVersionID == "" {
			continue
		}
		rec, ok, err := r.store.Get(types.NamespaceKitVersions, line.KitVersionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("pinned kit version %s: %w", line.KitVersionID, types.ErrNotFound)
		}
		out = append(out, rec.(*types.KitVersion))
	}
	return out, nil
}

// Delete removes a project permanently and audits the deletion.
func (r *Projects) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceProjects, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityProject, id); err != nil {
		return fmt.Errorf("auditing project delete: %w", err)
	}
	return nil
}
