package types

// Kit is a mutable template bundling library articles (a rigging kit, an
// electrics package). Its immutable snapshots live in the kit-versions
// namespace as KitVersion records.
type Kit struct {
	Entity
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Field implements Record.
func (k *Kit) Field(name string) (any, bool) {
	switch name {
	case "code":
		return k.Code, true
	case "name":
		return k.Name, true
	case "description":
		return k.Description, true
	}
	return k.baseField(name)
}

// KitLine is one component of a kit version. It pins a specific
// article-version id, keeping the kit snapshot reproducible even as the
// underlying article templates evolve.
type KitLine struct {
	ArticleVersionID string  `json:"article_version_id"`
	Quantity         float64 `json:"quantity"`
}

// KitVersion is an immutable snapshot of a Kit. VersionNumber is
// monotonically increasing per parent kit.
type KitVersion struct {
	Entity
	KitID         string    `json:"kit_id"`
	VersionNumber int       `json:"version_number"`
	Status        string    `json:"status"`
	Lines         []KitLine `json:"lines,omitempty"`
	Notes         string    `json:"notes"`
}

// Field implements Record.
func (v *KitVersion) Field(name string) (any, bool) {
	switch name {
	case "kit_id":
		return v.KitID, true
	case "version_number":
		return v.VersionNumber, true
	case "status":
		return v.Status, true
	case "notes":
		return v.Notes, true
	}
	return v.baseField(name)
}

// Approve transitions the version from draft to approved. One-way, same
// rule as ArticleVersion.Approve.
func (v *KitVersion) Approve() error {
	if v.Status != VersionStatusDraft {
		return ErrInvalidTransition
	}
	v.Status = VersionStatusApproved
	return nil
}
