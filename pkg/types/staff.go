package types

// Staff is a yard employee. Staff support a reversible deactivate and
// reactivate (IsActive flag) in addition to hard delete; most other
// entity types support hard delete only.
type Staff struct {
	Entity
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	HourlyRate float64 `json:"hourly_rate"`
	IsActive   bool    `json:"is_active"`
}

// Field implements Record.
func (s *Staff) Field(name string) (any, bool) {
	switch name {
	case "name":
		return s.Name, true
	case "email":
		return s.Email, true
	case "role":
		return s.Role, true
	case "hourly_rate":
		return s.HourlyRate, true
	case "is_active":
		return s.IsActive, true
	}
	return s.baseField(name)
}
