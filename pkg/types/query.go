package types

import "errors"

// Where maps field names to match values. Each entry is an equality test
// against the record's field, except:
//   - a slice value means set membership (record value equals any element);
//   - a nil value matches only records whose field is nil/absent.
//
// Entries are ANDed together. Field names match the JSON tags of the
// record type (see Record.Field).
type Where map[string]any

// OrderBy sorts results by a single field. A nil/absent field value
// sorts after every present value in ascending order and before every
// present value in descending order.
type OrderBy struct {
	Field string
	Desc  bool
}

// Query describes a filtered, ordered, paginated read over one
// namespace. Offset drops leading records strictly before Limit keeps
// them, so combining both always yields a correct page window. A zero
// Limit means no limit.
type Query struct {
	Where   Where
	OrderBy *OrderBy
	Limit   int
	Offset  int
}

// Query evaluation errors.
var (
	ErrInvalidFilter = errors.New("invalid filter value")
	ErrInvalidPage   = errors.New("limit and offset must not be negative")
)
