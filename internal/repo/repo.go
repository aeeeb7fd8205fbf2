// Package repo implements the per-entity repositories sitting between
// callers and the storage adapter. Repositories own the domain-level
// invariants: deterministic list ordering, soft versus hard delete
// policy, approval-state queries, version-pin lookups, field-clearing
// side effects, and the idempotent batch import. Every significant
// mutation feeds the audit ledger through its sanctioned log helpers.
//
// Backend and query-engine errors propagate unmodified; repositories
// add no translation beyond enforcing their own invariants before a
// record ever reaches the adapter.
package repo

import (
	"fmt"
	"strings"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Entity type names used in audit entries.
const (
	entityClient         = "Client"
	entityProject        = "Project"
	entityCategory       = "Category"
	entitySubcategory    = "Subcategory"
	entityArticle        = "Article"
	entityArticleVersion = "ArticleVersion"
	entityKit            = "Kit"
	entityKitVersion     = "KitVersion"
	entityStaff          = "Staff"
	entityTimesheet      = "Timesheet"
)

// ImportResult reports the outcome of an idempotent batch import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// mergeRecords performs the merge-style bulk load: an incoming record
// whose version is not strictly greater than the locally stored one is
// skipped, everything else overwrites. Used by the repository Import
// operations.
func mergeRecords(store types.Store, namespace string, recs []types.Record) (ImportResult, error) {
	var res ImportResult
	for _, rec := range recs {
		stored, ok, err := store.Get(namespace, rec.RecordID())
		if err != nil {
			return res, err
		}
		if ok && rec.Meta().Version <= stored.Meta().Version {
			res.Skipped++
			continue
		}
		if err := store.Save(namespace, rec); err != nil {
			return res, err
		}
		res.Imported++
	}
	return res, nil
}

// collect asserts a slice of store records to one concrete entity type.
func collect[T types.Record](recs []types.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, ok := rec.(T)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected record type %T", types.ErrInvalidRecord, rec)
		}
		out = append(out, v)
	}
	return out, nil
}

// containsFold reports a case-insensitive substring match.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
