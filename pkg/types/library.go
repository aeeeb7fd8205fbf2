package types

// Category is a top-level grouping in the parts library (hull, deck,
// rigging, ...). SortOrder is an explicit position for list views.
type Category struct {
	Entity
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Field implements Record.
func (c *Category) Field(name string) (any, bool) {
	switch name {
	case "name":
		return c.Name, true
	case "sort_order":
		return c.SortOrder, true
	}
	return c.baseField(name)
}

// Subcategory is a second-level grouping under a Category.
type Subcategory struct {
	Entity
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
}

// Field implements Record.
func (s *Subcategory) Field(name string) (any, bool) {
	switch name {
	case "category_id":
		return s.CategoryID, true
	case "name":
		return s.Name, true
	case "sort_order":
		return s.SortOrder, true
	}
	return s.baseField(name)
}
