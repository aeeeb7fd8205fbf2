package types

import (
	"errors"
	"fmt"
)

// Store is the persistence adapter contract the rest of the system
// depends on. A future backend (or the bundled relational one) swaps in
// behind this seam without touching any repository code.
//
// Not-found discipline: Get signals absence through its bool result and
// never through an error. Operations that require existence are a
// repository concern and return ErrNotFound there.
type Store interface {
	// Save creates or updates a record in the namespace, applying the
	// optimistic concurrency check: when both the stored and the
	// incoming version are greater than zero, the incoming version must
	// be strictly greater or Save fails with a *ConflictError. When
	// either side is zero the write is accepted unconditionally.
	Save(namespace string, rec Record) error

	// Get retrieves a record by id. The bool reports presence.
	Get(namespace, id string) (Record, bool, error)

	// GetAll returns every record in the namespace in insertion order.
	// A missing or empty namespace yields an empty slice.
	GetAll(namespace string) ([]Record, error)

	// Query returns the records matching q (see Query for semantics).
	Query(namespace string, q Query) ([]Record, error)

	// Delete removes a record by id. Deleting an absent id is a no-op.
	Delete(namespace, id string) error

	// SaveMany saves a batch of records under the same rules as Save.
	// The batch is applied as a unit: a conflict on any record leaves
	// the namespace unchanged.
	SaveMany(namespace string, recs []Record) error

	// Transaction runs fn against a transaction-scoped Store. The filekv
	// backend provides call scoping only (no isolation, no rollback);
	// the sqlite backend provides a real transaction that rolls back
	// when fn returns an error.
	Transaction(fn func(tx Store) error) error

	// Clear removes every record in the namespace. Reserved for test
	// fixtures; production code paths never call it.
	Clear(namespace string) error

	// Count returns the number of records matching where. A nil or
	// empty where counts the whole namespace.
	Count(namespace string, where Where) (int, error)
}

// Backend is a Store with an attachable lifecycle, mirroring how the CLI
// and tests construct one explicit instance at startup instead of
// relying on hidden global state.
type Backend interface {
	Store

	// Attach connects the backend using config. Creates the data
	// directory if needed. Returns ErrAlreadyAttached on a second call.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach,
	// store operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached    = errors.New("store is detached")
	ErrAlreadyAttached  = errors.New("store is already attached")
	ErrNamespaceUnknown = errors.New("unknown namespace")
)

// Operation errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidRecord     = errors.New("invalid record")
	ErrInvalidID         = errors.New("invalid record ID")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrDuplicateCode     = errors.New("duplicate business code")
)

// ErrConflict is the sentinel matched by errors.Is for optimistic
// concurrency failures. The concrete error is always a *ConflictError
// carrying the namespace, id, and both version numbers.
var ErrConflict = errors.New("version conflict")

// ConflictError reports a failed optimistic concurrency check. The
// caller must re-fetch the record, re-apply its change, and retry; the
// core performs no automatic retry.
type ConflictError struct {
	Namespace       string
	ID              string
	StoredVersion   int64
	IncomingVersion int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict in %s/%s: stored version %d, incoming version %d",
		e.Namespace, e.ID, e.StoredVersion, e.IncomingVersion)
}

// Is makes errors.Is(err, ErrConflict) match any *ConflictError.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
