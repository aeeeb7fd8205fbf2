package repo

import (
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Articles manages the articles and article-versions namespaces. The
// article is the mutable template; its versions are immutable snapshots
// with a per-article monotonic version number and a one-way
// draft -> approved status.
type Articles struct {
	store  types.Store
	ledger *audit.Ledger
}

// NewArticles creates an article repository.
func NewArticles(store types.Store, ledger *audit.Ledger) *Articles {
	return &Articles{store: store, ledger: ledger}
}

// Create persists a new article template. Business codes are unique:
// an existing article with the same code fails with ErrDuplicateCode.
func (r *Articles) Create(a *types.Article, actor audit.Actor) error {
	if a.Code == "" || a.Name == "" {
		return fmt.Errorf("%w: article code and name must not be empty", types.ErrInvalidRecord)
	}
	if _, ok, err := r.GetByCode(a.Code); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: article code %q", types.ErrDuplicateCode, a.Code)
	}
	a.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceArticles, a); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityArticle, a.ID, a.Name); err != nil {
		return fmt.Errorf("auditing article create: %w", err)
	}
	return nil
}

// Update saves a modified article template. Versions already cut from
// the template are unaffected.
func (r *Articles) Update(a *types.Article, actor audit.Actor) error {
	_, ok, err := r.store.Get(types.NamespaceArticles, a.ID)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	a.Bump(time.Now())
	if err := r.store.Save(types.NamespaceArticles, a); err != nil {
		return err
	}
	if err := r.ledger.LogUpdate(actor, entityArticle, a.ID, nil, nil); err != nil {
		return fmt.Errorf("auditing article update: %w", err)
	}
	return nil
}

// Get retrieves an article by id.
func (r *Articles) Get(id string) (*types.Article, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceArticles, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.Article), true, nil
}

// GetByCode looks up an article by business code. The match is
// case-sensitive and exact.
func (r *Articles) GetByCode(code string) (*types.Article, bool, error) {
	recs, err := r.store.Query(types.NamespaceArticles, types.Query{
		Where: types.Where{"code": code},
		Limit: 1,
	})
	if err != nil {
		return nil, false, err
	}
	if len(recs) == 0 {
		return nil, false, nil
	}
	return recs[0].(*types.Article), true, nil
}

// List returns all articles ordered by code.
func (r *Articles) List() ([]*types.Article, error) {
	recs, err := r.store.Query(types.NamespaceArticles, types.Query{
		OrderBy: &types.OrderBy{Field: "code"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Article](recs)
}

// ListBySubcategory returns the articles of one subcategory, ordered by
// code.
func (r *Articles) ListBySubcategory(subcategoryID string) ([]*types.Article, error) {
	recs, err := r.store.Query(types.NamespaceArticles, types.Query{
		Where:   types.Where{"subcategory_id": subcategoryID},
		OrderBy: &types.OrderBy{Field: "code"},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.Article](recs)
}

// Search returns articles whose code, name, or description contains
// term, case-insensitively, ordered by code.
func (r *Articles) Search(term string) ([]*types.Article, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}
	var out []*types.Article
	for _, a := range all {
		if containsFold(a.Code, term) || containsFold(a.Name, term) || containsFold(a.Description, term) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Delete removes an article template permanently. Its versions remain;
// projects pinning them stay reproducible.
func (r *Articles) Delete(id string, actor audit.Actor) error {
	if err := r.store.Delete(types.NamespaceArticles, id); err != nil {
		return err
	}
	if err := r.ledger.LogDelete(actor, entityArticle, id); err != nil {
		return fmt.Errorf("auditing article delete: %w", err)
	}
	return nil
}

// CreateVersion cuts a new immutable snapshot of an article. The
// version number is the next in the article's sequence and the status
// always starts at draft.
func (r *Articles) CreateVersion(articleID string, v *types.ArticleVersion, actor audit.Actor) error {
	if _, ok, err := r.Get(articleID); err != nil {
		return err
	} else if !ok {
		return types.ErrNotFound
	}

	next, err := r.nextVersionNumber(articleID)
	if err != nil {
		return err
	}
	v.ArticleID = articleID
	v.VersionNumber = next
	v.Status = types.VersionStatusDraft
	v.Entity = types.NewEntity(time.Now())
	if err := r.store.Save(types.NamespaceArticleVersions, v); err != nil {
		return err
	}
	if err := r.ledger.LogCreate(actor, entityArticleVersion, v.ID,
		fmt.Sprintf("v%d of article %s", next, articleID)); err != nil {
		return fmt.Errorf("auditing article version create: %w", err)
	}
	return nil
}

// nextVersionNumber returns max(version_number)+1 for the article, or 1
// for the first version.
func (r *Articles) nextVersionNumber(articleID string) (int, error) {
	recs, err := r.store.Query(types.NamespaceArticleVersions, types.Query{
		Where:   types.Where{"article_id": articleID},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
		Limit:   1,
	})
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 1, nil
	}
	return recs[0].(*types.ArticleVersion).VersionNumber + 1, nil
}

// Versions returns all versions of an article, newest first.
func (r *Articles) Versions(articleID string) ([]*types.ArticleVersion, error) {
	recs, err := r.store.Query(types.NamespaceArticleVersions, types.Query{
		Where:   types.Where{"article_id": articleID},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.ArticleVersion](recs)
}

// ApprovedVersions returns the approved versions of an article, newest
// first. This is a first-class operation so callers never filter by
// status themselves.
func (r *Articles) ApprovedVersions(articleID string) ([]*types.ArticleVersion, error) {
	recs, err := r.store.Query(types.NamespaceArticleVersions, types.Query{
		Where: types.Where{
			"article_id": articleID,
			"status":     types.VersionStatusApproved,
		},
		OrderBy: &types.OrderBy{Field: "version_number", Desc: true},
	})
	if err != nil {
		return nil, err
	}
	return collect[*types.ArticleVersion](recs)
}

// GetVersion retrieves a specific version by id. This is the pin
// lookup: configurations store version ids and re-read them here.
func (r *Articles) GetVersion(id string) (*types.ArticleVersion, bool, error) {
	rec, ok, err := r.store.Get(types.NamespaceArticleVersions, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return rec.(*types.ArticleVersion), true, nil
}

// Approve transitions a draft version to approved and audits it.
// Approval is one-way: approving a non-draft fails with
// ErrInvalidTransition.
func (r *Articles) Approve(versionID string, actor audit.Actor) error {
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
	if err := r.store.Save(types.NamespaceArticleVersions, v); err != nil {
		return err
	}
	if err := r.ledger.LogApprove(actor, entityArticleVersion, versionID, v.VersionNumber); err != nil {
		return fmt.Errorf("auditing article version approval: %w", err)
	}
	return nil
}

// Import merges externally sourced articles, skipping any whose version
// is not strictly greater than the stored one.
func (r *Articles) Import(articles []*types.Article, actor audit.Actor) (ImportResult, error) {
	recs := make([]types.Record, len(articles))
	for i, a := range articles {
		recs[i] = a
	}
	res, err := mergeRecords(r.store, types.NamespaceArticles, recs)
	if err != nil {
		return res, err
	}
	if err := r.ledger.LogImport(actor, entityArticle, res.Imported, res.Skipped); err != nil {
		return res, fmt.Errorf("auditing article import: %w", err)
	}
	return res, nil
}
