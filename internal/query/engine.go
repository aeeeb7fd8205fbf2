// Package query implements the in-memory query engine shared by the
// storage backends: filter, sort, and paginate over an already-loaded
// namespace sequence. Field access goes through the typed Record.Field
// accessor, never reflection over struct fields, so each entity type
// controls exactly which names are queryable.
package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Apply evaluates q over recs and returns the matching page. The input
// slice is not modified. Filtering runs first, then ordering, then
// offset strictly before limit.
func Apply(recs []types.Record, q types.Query) ([]types.Record, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return nil, types.ErrInvalidPage
	}

	out := make([]types.Record, 0, len(recs))
	for _, rec := range recs {
		if Match(rec, q.Where) {
			out = append(out, rec)
		}
	}

	if q.OrderBy != nil {
		Sort(out, *q.OrderBy)
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []types.Record{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

// Match reports whether rec satisfies every entry of where. An empty or
// nil where matches everything. A field name the record type does not
// know behaves as an absent (nil) value.
func Match(rec types.Record, where types.Where) bool {
	for name, want := range where {
		got, _ := rec.Field(name)
		if !matchValue(got, want) {
			return false
		}
	}
	return true
}

// matchValue applies the filter semantics for a single field: nil filter
// matches only nil values, slice filter means set membership, anything
// else is equality.
func matchValue(got, want any) bool {
	if isNil(want) {
		return isNil(got)
	}
	rv := reflect.ValueOf(want)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			if equalValues(got, rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	}
	return equalValues(got, want)
}

// Sort orders recs in place by one field. Absent/nil values compare
// greater than any present value, so they land last in ascending order
// and first in descending order. Equal values keep their input order.
func Sort(recs []types.Record, by types.OrderBy) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, _ := recs[i].Field(by.Field)
		b, _ := recs[j].Field(by.Field)
		c := compareValues(a, b)
		if by.Desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues returns -1, 0, or 1. Nil sorts after everything.
func compareValues(a, b any) int {
	aNil, bNil := isNil(a), isNil(b)
	switch {
	case aNil && bNil:
		return 0
	case aNil:
		return 1
	case bNil:
		return -1
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ab && bb:
				return -1
			case ab && !bb:
				return 1
			}
			return 0
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs)
		}
	}
	// Mixed or unrecognized types: fall back to a stable textual order.
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// equalValues tests equality with numeric widening, so an int64 loaded
// from storage still matches an int filter value.
func equalValues(a, b any) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
		return false
	}
	if at, aok := a.(time.Time); aok {
		bt, bok := b.(time.Time)
		return bok && at.Equal(bt)
	}
	if reflect.TypeOf(a) == reflect.TypeOf(b) && reflect.TypeOf(a).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// isNil reports whether v is nil, including typed nil pointers, maps,
// and slices hiding behind a non-nil interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// toFloat widens any numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
