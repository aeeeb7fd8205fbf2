package audit

import (
	"fmt"

	"github.com/skagerrak-boats/slipway/pkg/types"
)

// Log helpers standardize description text and metadata shape per
// action kind. They are the only sanctioned way product code writes
// audit entries; uniform shape keeps the ledger queryable for later
// reporting.

// LogCreate records the creation of an entity.
func (l *Ledger) LogCreate(actor Actor, entityType, entityID, name string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionCreate,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Created %s %q", entityType, name),
	})
	return err
}

// LogUpdate records a field-level update with optional before/after
// snapshots.
func (l *Ledger) LogUpdate(actor Actor, entityType, entityID string, before, after map[string]any) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionUpdate,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Updated %s %s", entityType, entityID),
		Before:      before,
		After:       after,
	})
	return err
}

// LogStatusTransition records a status change. Metadata always carries
// fromStatus, toStatus, and the optional reason.
func (l *Ledger) LogStatusTransition(actor Actor, entityType, entityID, from, to, reason string) error {
	md := map[string]any{
		"fromStatus": from,
		"toStatus":   to,
	}
	if reason != "" {
		md["reason"] = reason
	}
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionStatusTransition,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Changed %s %s status from %s to %s", entityType, entityID, from, to),
		Metadata:    md,
	})
	return err
}

// LogApprove records a draft version becoming approved.
func (l *Ledger) LogApprove(actor Actor, entityType, entityID string, versionNumber int) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionApprove,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Approved %s version %d", entityType, versionNumber),
		Metadata:    map[string]any{"versionNumber": versionNumber},
	})
	return err
}

// LogFreeze records a project configuration being frozen.
func (l *Ledger) LogFreeze(actor Actor, entityType, entityID string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionFreeze,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Froze %s %s configuration", entityType, entityID),
	})
	return err
}

// LogArchive records a soft delete or deactivation.
func (l *Ledger) LogArchive(actor Actor, entityType, entityID, name string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionArchive,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Archived %s %q", entityType, name),
	})
	return err
}

// LogEmergencyUnlock records an out-of-band unlock of a frozen or
// approved record. Metadata always tags severity critical.
func (l *Ledger) LogEmergencyUnlock(actor Actor, entityType, entityID, reason string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionEmergencyUnlock,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Emergency unlock of %s %s", entityType, entityID),
		Metadata: map[string]any{
			"severity": "critical",
			"reason":   reason,
		},
	})
	return err
}

// LogImport records the outcome of a bulk merge import.
func (l *Ledger) LogImport(actor Actor, entityType string, imported, skipped int) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionImport,
		EntityType:  entityType,
		Description: fmt.Sprintf("Imported %d %s records, skipped %d", imported, entityType, skipped),
		Metadata: map[string]any{
			"imported": imported,
			"skipped":  skipped,
		},
	})
	return err
}

// LogDelete records an irreversible hard delete.
func (l *Ledger) LogDelete(actor Actor, entityType, entityID string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionDelete,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Deleted %s %s", entityType, entityID),
	})
	return err
}

// LogGenerateDocument records a document rendered from an entity.
func (l *Ledger) LogGenerateDocument(actor Actor, entityType, entityID, kind string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionGenerateDocument,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Generated %s document for %s %s", kind, entityType, entityID),
		Metadata:    map[string]any{"documentKind": kind},
	})
	return err
}

// LogAmendment records a post-freeze amendment.
func (l *Ledger) LogAmendment(actor Actor, entityType, entityID, note string) error {
	_, err := l.Append(Input{
		Actor:       actor,
		Action:      types.ActionAmendment,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: fmt.Sprintf("Amended %s %s: %s", entityType, entityID, note),
		Metadata:    map[string]any{"note": note},
	})
	return err
}
