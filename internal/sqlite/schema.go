// Package sqlite implements the relational storage backend for slipway.
// Records are stored per-key in a single generic table, so writes are
// constant-time in namespace size instead of the whole-namespace
// rewrite the file backend performs, while the same optimistic-version
// contract holds. Transactions are real: a failing function rolls back
// every write made through its transaction-scoped store.
package sqlite

// Schema DDL. One generic table holds every namespace; the namespace
// column partitions it and the composite primary key gives keyed
// access. The data column carries the full JSON record; version and the
// timestamps are mirrored into columns for the concurrency check and
// insertion-order reads.
const schemaSQL = `CREATE TABLE IF NOT EXISTS records (
    namespace TEXT NOT NULL,
    id TEXT NOT NULL,
    version INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (namespace, id)
);`
