// Package types defines the persistence contracts for the slipway storage
// core: the Entity base shape every stored record embeds, the Record and
// Store interfaces, query types, the standard namespaces, and the entity
// structs for the boat-builder records system (clients, projects, the
// versioned parts library, staff, timesheets, and the audit ledger).
//
// Concrete backends live in internal/filekv and internal/sqlite; both
// implement the same Store contract so the repository layer never depends
// on a specific storage medium.
package types
