package types

// Client statuses.
const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
)

// Client is a customer of the boatyard.
type Client struct {
	Entity
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// Field implements Record.
func (c *Client) Field(name string) (any, bool) {
	switch name {
	case "name":
		return c.Name, true
	case "contact_name":
		return c.ContactName, true
	case "email":
		return c.Email, true
	case "phone":
		return c.Phone, true
	case "address":
		return c.Address, true
	case "status":
		return c.Status, true
	case "notes":
		return c.Notes, true
	}
	return c.baseField(name)
}
