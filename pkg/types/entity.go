package types

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base shape every stored record embeds.
//
// ID is opaque, globally unique, and stable for the record's lifetime.
// CreatedAt is immutable after creation; UpdatedAt is set on every
// mutation. Version is the optimistic concurrency counter: it must
// increase by exactly one on every successful mutation that changes the
// record. Records with Version 0 are unversioned seed/bootstrap writes
// and bypass the concurrency check (see Store.Save).
type Entity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// NewEntity returns a fresh Entity with a generated ID, both timestamps
// set to now, and Version 1 so the optimistic check is active from the
// first update.
func NewEntity(now time.Time) Entity {
	return Entity{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// NewID generates a UUID v7 string. UUID v7 ids are time-ordered, so
// lexicographic order on ids matches creation order.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails.
		return uuid.New().String()
	}
	return id.String()
}

// RecordID returns the entity ID.
func (e *Entity) RecordID() string { return e.ID }

// Meta returns the embedded Entity itself, giving callers uniform access
// to id, timestamps, and version on any concrete record type.
func (e *Entity) Meta() *Entity { return e }

// Bump marks a mutation: UpdatedAt moves to now and Version increases by
// exactly one. Repositories call Bump before handing a record to the
// store; the store then enforces that the incoming version is strictly
// greater than the stored one.
func (e *Entity) Bump(now time.Time) {
	e.UpdatedAt = now
	e.Version++
}

// baseField resolves the field names shared by all records.
func (e *Entity) baseField(name string) (any, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "created_at":
		return e.CreatedAt, true
	case "updated_at":
		return e.UpdatedAt, true
	case "version":
		return e.Version, true
	}
	return nil, false
}

// Record is the contract every stored record satisfies. Field is a typed
// accessor used by the query engine: it returns the value of the named
// field (nil for an absent optional) and reports whether the name is
// known to the record type. Field names match the JSON tags.
type Record interface {
	RecordID() string
	Meta() *Entity
	Field(name string) (any, bool)
}
