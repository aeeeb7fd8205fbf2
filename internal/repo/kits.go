package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Kits manages the kits and kit-versions namespaces. Kit version lines
// pin article-version ids, so a kit snapshot stays reproducible even as
// the article templates underneath it evolve.
type Kits struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewKits creates a kit repository.
func NewKits(store types.Store, ledger *audit.Ledger) *Kits {
	return &Kits{store: store, ledger: ledger}
}

// Create persists a new kit template. Codes are unique.
func (r *Kits) Create(k *types.Kit, actor audit.Actor) error {
	if k.Code == "" || k.Name == "" {
		return fmt.Errorf("%w: kit code and name must not be empty", types.ErrInvalidRecord)
	}
	if _, ok, err := r.GetByCode(k.Code); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: kit code %q", types.ErrDuplicateCode, k.Code)
	}
	k.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceKits, k); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityKit, k.ID, k.Name); err != nil {
		return fmt.Errorf("auditing kit create: %w", err)
	}
	return nil
}

// Update saves a modified kit template.
func (r *Kits) Update(k *types.Kit, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceKits, k.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	k.Bump(time.Now())
	if err := r.store.Save(types.NamespaceKits, k); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityKit, k.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing kit update: %w", err)
	}
	return nil
}

// Get retrieves a kit by id.
func (r *Kits) Get(id string) (*types.Kit, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceKits, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Kit), true, nil
}

// GetByCode looks up a kit by business code, case-sensitive exact.
func (r *Kits) GetByCode(code string) (*types.Kit, bool, error) {
	recs, err := r.store.Query(types.NamespaceKits, types.Query{
		Where: types.Where{"code": code},
		Limit: 1,
	})
	if err != nil {
		return nil, false, err
	}
	if len(recs) == 0 {
		return nil, false, nil
	}
	return recs[0].(*types.Kit), true, nil
}

// List returns all kits ordered by code.
func (r *Kits) List() ([]*types.Kit, error) {
	recs, err := r.store.Query(types.NamespaceKits, types.Query{
		OrderBy: &types.OrderBy{Field: "code"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Kit](recs)
}

// Search returns kits whose code, name, or description contains term,
// case-insensitively.
func (r *Kits) Search(term string) ([]*types.Kit, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	var out []*types.Kit
	for _, k := range all {
		if containsFold(k.Code, term) || containsFold(k.Name, term) || containsFold(k.Description, term) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Delete removes a kit template permanently. Cut versions remain.
func (r *Kits) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceKits, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityKit, id); err != nil {
		return fmt.Errorf("auditing kit delete: %w", err)
	}
	return nil
}

// CreateVersion cuts a new immutable kit snapshot. Every line must pin
// an existing article version; the version number is the next in the
// kit's sequence and the status starts at draft.
func (r *Kits) CreateVersion(kitID string, v *types.KitVersion, actor audit.Actor) error {
	if _, ok, err := r.Get(kitID); err != nil {
		return err
	} else if !ok {
		return types.ErrNotFound
	}
	for _, line := range v.Lines {
		_, ok, err := r.store.Get(types.NamespaceArticleVersions, line.ArticleVersionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("kit line article version %s: %w", line.ArticleVersionID, types.ErrNotFound)
		}
	}

	next, err := r.nextVersionNumber(kitID)
	if err != nil {
		return err
	}
	v.KitID = kitID
	v.VersionNumber = next
	v.Status = types.VersionStatusDraft
	v.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceKitVersions, v); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityKitVersion, v.ID,
		fmt.Sprintf("v%d of kit %s", next, kitID)); err != nil {
		return fmt.Errorf("auditing kit version create: %w", err)
	}
	return nil
}

func (r *Kits) nextVersionNumber(kitID string) (int, error) {
	recs, err := r.store.Query(types.NamespaceKitVersions, types.Query{
		Where:   types.Where{"kit_id": kitID},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
		Limit:   1,
	})
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 1, nil
	}
	return recs[0].(*types.KitVersion).VersionNumber + 1, nil
}

// Versions returns all versions of a kit, newest first.
func (r *Kits) Versions(kitID string) ([]*types.KitVersion, error) {
	recs, err := r.store.Query(types.NamespaceKitVersions, types.Query{
		Where:   types.Where{"kit_id": kitID},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.KitVersion](recs)
}

// ApprovedVersions returns the approved versions of a kit, newest
// first.
func (r *Kits) ApprovedVersions(kitID string) ([]*types.KitVersion, error) {
	recs, err := r.store.Query(types.NamespaceKitVersions, types.Query{
		Where: types.Where{
			"kit_id": kitID,
			"status": types.VersionStatusApproved,
		},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.KitVersion](recs)
}

// GetVersion retrieves a specific kit version by id (the pin lookup).
func (r *Kits) GetVersion(id string) (*types.KitVersion, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceKitVersions, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.KitVersion), true, nil
}

// Approve transitions a draft kit version to approved. One-way.
func (r *Kits) Approve(versionID string, actor audit.Actor) error {
	v, ok, err := r.GetVersion(versionID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if err := v.Approve(); err != nil {
		return err
	}
	v.Bump(time.Now())
	if err := r.store.Save(types.NamespaceKitVersions, v); err != nil {
		return err
	}
	if err := r.ledger.LogApprove(actor, entityKitVersion, versionID, v.VersionNumber); err != nil {
		return fmt.Errorf("auditing kit version approval: %w", err)
	}
	return nil
}

// Import merges externally sourced kits, skipping any whose version is
// not strictly greater than the stored one.
func (r *Kits) Import(kits []*types.Kit, actor audit.Actor) (ImportResult, error) {
	recs := make([]types.Record, len(kits))
	for i, k := range kits {
		recs[i] = k
	}
	res, err := mergeRecords(r.store, types.NamespaceKits, recs)
	if err != nil {
		return res, err
	}
	if err := r.ledger.LogImport(actor, entityKit, res.Imported, res.Skipped); err != nil {
		return res, fmt.Errorf("auditing kit import: %w", err)
	}
	return res, nil
}
