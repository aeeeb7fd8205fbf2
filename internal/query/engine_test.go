package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

func entry(staffID string, hours float64, billable bool, rate *float64) *types.TimesheetEntry {
	return &types.TimesheetEntry{
		Entity:      types.NewEntity(time.Now()),
		StaffID:     staffID,
		Hours:       hours,
		Billable:    billable,
		BillingRate: rate,
	}
}

func client(name, status string) *types.Client {
	return &types.Client{
		Entity: types.NewEntity(time.Now()),
		Name:   name,
		Status: status,
	}
}

func names(t *testing.T, recs []types.Record) []string {
	t.Helper()
	out := make([]string, len(recs))
	for i, rec := range recs {
		c, ok := rec.(*types.Client)
		require.True(t, ok)
		out[i] = c.Name
	}
	return out
}

func TestMatchEquality(t *testing.T) {
	c := client("Alpha", types.ClientStatusActive)

	assert.True(t, Match(c, types.Where{"status": "active"}))
	assert.False(t, Match(c, types.Where{"status": "inactive"}))
	assert.True(t, Match(c, nil), "nil filter matches everything")
	assert.True(t, Match(c, types.Where{}))
}

func TestMatchConjunction(t *testing.T) {
	c := client("Alpha", types.ClientStatusActive)

	assert.True(t, Match(c, types.Where{"status": "active", "name": "Alpha"}))
	assert.False(t, Match(c, types.Where{"status": "active", "name": "Beta"}),
		"entries are ANDed")
}

func TestMatchSetMembership(t *testing.T) {
	c := client("Alpha", "quoted")

	assert.True(t, Match(c, types.Where{"status": []string{"draft", "quoted"}}))
	assert.False(t, Match(c, types.Where{"status": []string{"active", "completed"}}))
	assert.False(t, Match(c, types.Where{"status": []string{}}), "empty set matches nothing")
	assert.True(t, Match(c, types.Where{"status": []any{"quoted", 7}}),
		"mixed-type sets match by element equality")
}

func TestMatchNilFilter(t *testing.T) {
	rate := 85.0
	withRate := entry("s1", 8, true, &rate)
	withoutRate := entry("s2", 6, false, nil)

	assert.False(t, Match(withRate, types.Where{"billing_rate": nil}))
	assert.True(t, Match(withoutRate, types.Where{"billing_rate": nil}),
		"nil filter matches only absent values")
	assert.False(t, Match(withRate, types.Where{"unknown_field": "x"}),
		"unknown field behaves as absent and fails a non-nil filter")
	assert.True(t, Match(withRate, types.Where{"unknown_field": nil}))
}

func TestMatchNumericWidening(t *testing.T) {
	e := entry("s1", 8, true, nil)

	assert.True(t, Match(e, types.Where{"hours": 8}),
		"int filter matches float64 field")
	assert.True(t, Match(e, types.Where{"hours": int64(8)}))
	assert.False(t, Match(e, types.Where{"hours": 9}))
}

func TestSortNilOrdering(t *testing.T) {
	rate1, rate2 := 60.0, 90.0
	recs := []types.Record{
		entry("a", 1, true, &rate2),
		entry("b", 1, false, nil),
		entry("c", 1, true, &rate1),
	}

	Sort(recs, types.OrderBy{Field: "billing_rate"})
	asc := []string{
		recs[0].(*types.TimesheetEntry).StaffID,
		recs[1].(*types.TimesheetEntry).StaffID,
		recs[2].(*types.TimesheetEntry).StaffID,
	}
	assert.Equal(t, []string{"c", "a", "b"}, asc, "nil sorts last ascending")

	Sort(recs, types.OrderBy{Field: "billing_rate", Desc: true})
	desc := []string{
		recs[0].(*types.TimesheetEntry).StaffID,
		recs[1].(*types.TimesheetEntry).StaffID,
		recs[2].(*types.TimesheetEntry).StaffID,
	}
	assert.Equal(t, []string{"b", "a", "c"}, desc, "nil sorts first descending")
}

func TestSortStable(t *testing.T) {
	recs := []types.Record{
		client("first", "active"),
		client("second", "active"),
		client("third", "active"),
	}

	Sort(recs, types.OrderBy{Field: "status"})
	assert.Equal(t, []string{"first", "second", "third"}, names(t, recs),
		"equal keys keep input order")
}

func TestApplyFilterSortPaginate(t *testing.T) {
	recs := []types.Record{
		client("Echo", "active"),
		client("Alpha", "active"),
		client("Delta", "inactive"),
		client("Charlie", "active"),
		client("Bravo", "active"),
	}

	got, err := Apply(recs, types.Query{
		Where:   types.Where{"status": "active"},
		OrderBy: &types.OrderBy{Field: "name"},
		Offset:  1,
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bravo", "Charlie"}, names(t, got),
		"offset applies strictly before limit")
}

func TestApplyOffsetLimitWindows(t *testing.T) {
	recs := []types.Record{
		client("a", ""), client("b", ""), client("c", ""),
		client("d", ""), client("e", ""),
	}

	tests := []struct {
		name   string
		limit  int
		offset int
		want   []string
	}{
		{"no paging returns all", 0, 0, []string{"a", "b", "c", "d", "e"}},
		{"limit only", 2, 0, []string{"a", "b"}},
		{"offset only", 0, 3, []string{"d", "e"}},
		{"middle window", 2, 2, []string{"c", "d"}},
		{"offset past end", 2, 10, []string{}},
		{"limit past end", 10, 3, []string{"d", "e"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(recs, types.Query{
				OrderBy: &types.OrderBy{Field: "name"},
				Limit:   tt.limit,
				Offset:  tt.offset,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(t, got))
		})
	}
}

func TestApplyRejectsNegativePaging(t *testing.T) {
	recs := []types.Record{client("a", "")}

	_, err := Apply(recs, types.Query{Limit: -1})
	assert.ErrorIs(t, err, types.ErrInvalidPage)

	_, err = Apply(recs, types.Query{Offset: -1})
	assert.ErrorIs(t, err, types.ErrInvalidPage)
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	recs := []types.Record{
		client("b", ""),
		client("a", ""),
	}

	_, err := Apply(recs, types.Query{OrderBy: &types.OrderBy{Field: "name"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names(t, recs), "input order preserved")
}

func TestCompareValuesTimeOrdering(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	a := &types.TimesheetEntry{Entity: types.NewEntity(time.Now()), StaffID: "a", Date: late}
	b := &types.TimesheetEntry{Entity: types.NewEntity(time.Now()), StaffID: "b", Date: early}
	recs := []types.Record{a, b}

	Sort(recs, types.OrderBy{Field: "date"})
	assert.Equal(t, "b", recs[0].(*types.TimesheetEntry).StaffID)

	Sort(recs, types.OrderBy{Field: "date", Desc: true})
	assert.Equal(t, "a", recs[0].(*types.TimesheetEntry).StaffID)
}
