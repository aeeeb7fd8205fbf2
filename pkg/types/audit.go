package types

// Audit action kinds.
const (
	ActionCreate           = "create"
	ActionUpdate           = "update"
	ActionArchive          = "archive"
	ActionStatusTransition = "status_transition"
	ActionApprove          = "approve"
	ActionFreeze           = "freeze"
	ActionGenerateDocument = "generate_document"
	ActionAmendment        = "amendment"
	ActionEmergencyUnlock  = "emergency_unlock"
	ActionImport           = "import"
	ActionDelete           = "delete"
)

// AuditEntry is one record of the append-only audit ledger. Entries are
// immutable once created: the ledger exposes no update path, and the
// only delete is a bulk reset reserved for test fixtures. The entry
// timestamp is CreatedAt.
type AuditEntry struct {
	Entity
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name"`
	Action      string         `json:"action"`
	EntityType  string         `json:"entity_type"`
	EntityID    string         `json:"entity_id"`
	Description string         `json:"description"`
	Before      map[string]any `json:"before,omitempty"`
	After       map[string]any `json:"after,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Field implements Record.
func (a *AuditEntry) Field(name string) (any, bool) {
	switch name {
	case "user_id":
		return a.UserID, true
	case "user_name":
		return a.UserName, true
	case "action":
		return a.Action, true
	case "entity_type":
		return a.EntityType, true
	case "entity_id":
		return a.EntityID, true
	case "description":
		return a.Description, true
	}
	return a.baseField(name)
}
