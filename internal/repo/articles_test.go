package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

func TestArticlesCreateAndDuplicateCode(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "HULL-LAM-01", Name: "Hull laminate", Unit: "m2"}
	require.NoError(t, articles.Create(a, tester))

	dup := &types.Article{Code: "HULL-LAM-01", Name: "Other laminate"}
	err := articles.Create(dup, tester)
	assert.ErrorIs(t, err, types.ErrDuplicateCode)

	err = articles.Create(&types.Article{Name: "No code"}, tester)
	assert.ErrorIs(t, err, types.ErrInvalidRecord)
}

func TestArticlesGetByCode(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "KEEL-01", Name: "Cast iron keel"}
	require.NoError(t, articles.Create(a, tester))

	got, ok, err := articles.GetByCode("KEEL-01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	_, ok, err = articles.GetByCode("keel-01")
	require.NoError(t, err)
	assert.False(t, ok, "code lookup is case-sensitive")
}

func TestArticlesVersionSequence(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "WINCH-40", Name: "Primary winch"}
	require.NoError(t, articles.Create(a, tester))

	v1 := &types.ArticleVersion{UnitPrice: 1850}
	require.NoError(t, articles.CreateVersion(a.ID, v1, tester))
	assert.Equal(t, 1, v1.VersionNumber)
	assert.Equal(t, types.VersionStatusDraft, v1.Status, "new versions start as drafts")
	assert.Equal(t, a.ID, v1.ArticleID)

	v2 := &types.ArticleVersion{UnitPrice: 1975}
	require.NoError(t, articles.CreateVersion(a.ID, v2, tester))
	assert.Equal(t, 2, v2.VersionNumber, "version numbers are per-article monotonic")

	versions, err := articles.Versions(a.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber, "newest first")

	err = articles.CreateVersion("missing", &types.ArticleVersion{}, tester)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestArticlesApproveOneWay(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "RUD-05", Name: "Rudder blade"}
	require.NoError(t, articles.Create(a, tester))
	v := &types.ArticleVersion{UnitPrice: 980}
	require.NoError(t, articles.CreateVersion(a.ID, v, tester))

	require.NoError(t, articles.Approve(v.ID, tester))
	got, ok, err := articles.GetVersion(v.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.VersionStatusApproved, got.Status)
	assert.Equal(t, types.ActionApprove, lastAuditAction(t, ledger, entityArticleVersion, v.ID))

	err = articles.Approve(v.ID, tester)
	assert.ErrorIs(t, err, types.ErrInvalidTransition, "no approved -> draft path")

	err = articles.Approve("missing", tester)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestArticlesApprovedVersions(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "SAIL-M1", Name: "Mainsail"}
	require.NoError(t, articles.Create(a, tester))

	v1 := &types.ArticleVersion{UnitPrice: 6200}
	require.NoError(t, articles.CreateVersion(a.ID, v1, tester))
	require.NoError(t, articles.Approve(v1.ID, tester))

	v2 := &types.ArticleVersion{UnitPrice: 6450}
	require.NoError(t, articles.CreateVersion(a.ID, v2, tester))

	approved, err := articles.ApprovedVersions(a.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1, "drafts stay out of the approved list")
	assert.Equal(t, v1.ID, approved[0].ID)
}

func TestArticlesDeleteKeepsVersions(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	a := &types.Article{Code: "TEAK-D1", Name: "Teak decking"}
	require.NoError(t, articles.Create(a, tester))
	v := &types.ArticleVersion{UnitPrice: 300}
	require.NoError(t, articles.CreateVersion(a.ID, v, tester))

	require.NoError(t, articles.Delete(a.ID, tester))

	_, ok, err := articles.Get(a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = articles.GetVersion(v.ID)
	require.NoError(t, err)
	assert.True(t, ok, "cut versions outlive the template so pins keep resolving")
}

func TestArticlesSearch(t *testing.T) {
	store, ledger := newFixture(t)
	articles := NewArticles(store, ledger)

	for _, a := range []*types.Article{
		{Code: "NAV-GPS", Name: "Chartplotter", Description: "12-inch display"},
		{Code: "NAV-VHF", Name: "VHF radio"},
		{Code: "GAL-STV", Name: "Galley stove"},
	} {
		require.NoError(t, articles.Create(a, tester))
	}

	got, err := articles.Search("nav")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = articles.Search("display")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "NAV-GPS", got[0].Code)
}
