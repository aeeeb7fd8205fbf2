package types

// Version statuses shared by article and kit versions. Approval is a
// one-way transition draft -> approved, enforced by the repository
// layer; the store itself accepts any value.
const (
	VersionStatusDraft    = "draft"
	VersionStatusApproved = "approved"
)

// Article is a mutable parts-library template. Its immutable snapshots
// live in the article-versions namespace as ArticleVersion records.
type Article struct {
	Entity
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	SubcategoryID string `json:"subcategory_id"`
	Unit          string `json:"unit"`
}

// Field implements Record.
func (a *Article) Field(name string) (any, bool) {
	switch name {
	case "code":
		return a.Code, true
	case "name":
		return a.Name, true
	case "description":
		return a.Description, true
	case "subcategory_id":
		return a.SubcategoryID, true
	case "unit":
		return a.Unit, true
	}
	return a.baseField(name)
}

// ArticleVersion is an immutable snapshot of an Article. VersionNumber
// is monotonically increasing per parent article. Projects pin the id of
// a specific ArticleVersion, never the mutable Article.
type ArticleVersion struct {
	Entity
	ArticleID     string         `json:"article_id"`
	VersionNumber int            `json:"version_number"`
	Status        string         `json:"status"`
	UnitPrice     float64        `json:"unit_price"`
	Specs         map[string]any `json:"specs,omitempty"`
	Notes         string         `json:"notes"`
}

// Field implements Record.
func (v *ArticleVersion) Field(name string) (any, bool) {
	switch name {
	case "article_id":
		return v.ArticleID, true
	case "version_number":
		return v.VersionNumber, true
	case "status":
		return v.Status, true
	case "unit_price":
		return v.UnitPrice, true
	case "notes":
		return v.Notes, true
	}
	return v.baseField(name)
}

// Approve transitions the version from draft to approved. Returns
// ErrInvalidTransition when the version is not a draft; there is no
// approved -> draft path.
func (v *ArticleVersion) Approve() error {
	if v.Status != VersionStatusDraft {
		return ErrInvalidTransition
	}
	v.Status = VersionStatusApproved
	return nil
}
