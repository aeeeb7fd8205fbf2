package types

// Project statuses. Transitions are validated by the project repository;
// the store accepts any value.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusQuoted    = "quoted"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// ConfigurationLine is one line of a project's build configuration. It
// pins a specific immutable version id (article version or kit version),
// never the mutable template, so a frozen configuration remains
// reproducible as the library evolves.
type ConfigurationLine struct {
	ArticleVersionID string  `json:"article_version_id,omitempty"`
	KitVersionID     string  `json:"kit_version_id,omitempty"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Included         bool    `json:"included"`
}

// Project is one build or refit job for a client. TotalPrice is a
// derived value written back by the pricing engine through the normal
// Save contract, subject to the same optimistic check as any update.
type Project struct {
	Entity
	Name          string              `json:"name"`
	ClientID      string              `json:"client_id"`
	Status        string              `json:"status"`
	BoatModel     string              `json:"boat_model"`
	Configuration []ConfigurationLine `json:"configuration,omitempty"`
	TotalPrice    float64             `json:"total_price"`
	Frozen        bool                `json:"frozen"`
	Notes         string              `json:"notes"`
}

// Field implements Record.
func (p *Project) Field(name string) (any, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "client_id":
		return p.ClientID, true
	case "status":
		return p.Status, true
	case "boat_model":
		return p.BoatModel, true
	case "total_price":
		return p.TotalPrice, true
	case "frozen":
		return p.Frozen, true
	case "notes":
		return p.Notes, true
	}
	return p.baseField(name)
}

// PinnedVersionIDs returns the version ids referenced by included
// configuration lines, article versions first.
func (p *Project) PinnedVersionIDs() []string {
	var ids []string
	for _, line := range p.Configuration {
		if !line.Included {
			continue
		}
		if line.ArticleVersionID != "" {
			ids = append(ids, line.ArticleVersionID)
		}
	}
	for _, line := range p.Configuration {
		if !line.Included {
			continue
		}
		if line.KitVersionID != "" {
			ids = append(ids, line.KitVersionID)
		}
	}
	return ids
}
