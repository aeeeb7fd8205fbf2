package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/skagerrak-boats/slipway/internal/query"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// dbtx abstracts *sql.DB and *sql.Tx so every operation runs unchanged
// inside or outside an explicit transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// saveRecord performs the optimistic-concurrency check and upserts the
// record. Running the check and the write on the same dbtx (a
// transaction) makes the pair atomic, which closes the load-to-persist
// race window the file backend still has.
func saveRecord(q dbtx, namespace string, rec types.Record) error {
	if rec == nil || rec.RecordID() == "" {
		return types.ErrInvalidID
	}

	var stored int64
	err := q.QueryRow(
		"SELECT version FROM records WHERE namespace = ? AND id = ?",
		namespace, rec.RecordID()).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		// Create path, no check.
	case err != nil:
		return fmt.Errorf("checking %s/%s: %w", namespace, rec.RecordID(), err)
	default:
		incoming := rec.Meta().Version
		if stored > 0 && incoming > 0 && incoming <= stored {
			return &types.ConflictError{
				Namespace:       namespace,
				ID:              rec.RecordID(),
				StoredVersion:   stored,
				IncomingVersion: incoming,
			}
		}
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling %s record: %w", namespace, err)
	}
	meta := rec.Meta()
	_, err = q.Exec(`
		INSERT INTO records (namespace, id, version, created_at, updated_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, id) DO UPDATE SET
			version = excluded.version,
			updated_at = excluded.updated_at,
			data = excluded.data`,
		namespace, rec.RecordID(), meta.Version,
		meta.CreatedAt.Format(time.RFC3339Nano),
		meta.UpdatedAt.Format(time.RFC3339Nano),
		string(data))
	if err != nil {
		return fmt.Errorf("upserting %s/%s: %w", namespace, rec.RecordID(), err)
	}
	return nil
}

// getRecord retrieves and decodes one record.
func getRecord(q dbtx, factory func() types.Record, namespace, id string) (types.Record, bool, error) {
	var data string
	err := q.QueryRow(
		"SELECT data FROM records WHERE namespace = ? AND id = ?",
		namespace, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s/%s: %w", namespace, id, err)
	}
	rec := factory()
	if err := json.Unmarshal([]byte(data), rec); err != nil {
		return nil, false, fmt.Errorf("decoding %s/%s: %w", namespace, id, err)
	}
	return rec, true, nil
}

// getAllRecords returns the namespace in insertion order (rowid order;
// an upsert keeps the original rowid, matching the file backend's
// replace-in-place behavior).
func getAllRecords(q dbtx, factory func() types.Record, namespace string) ([]types.Record, error) {
	rows, err := q.Query(
		"SELECT data FROM records WHERE namespace = ? ORDER BY rowid", namespace)
	if err != nil {
		return nil, fmt.Errorf("reading namespace %s: %w", namespace, err)
	}
	defer rows.Close()

	recs := []types.Record{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", namespace, err)
		}
		rec := factory()
		if err := json.Unmarshal([]byte(data), rec); err != nil {
			return nil, fmt.Errorf("decoding %s record: %w", namespace, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// deleteRecord removes one record; deleting an absent id is a no-op.
func deleteRecord(q dbtx, namespace, id string) error {
	if _, err := q.Exec(
		"DELETE FROM records WHERE namespace = ? AND id = ?", namespace, id); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", namespace, id, err)
	}
	return nil
}

// clearNamespace removes every record in the namespace.
func clearNamespace(q dbtx, namespace string) error {
	if _, err := q.Exec(
		"DELETE FROM records WHERE namespace = ?", namespace); err != nil {
		return fmt.Errorf("clearing %s: %w", namespace, err)
	}
	return nil
}

// countRecords counts matches. The unfiltered case stays in SQL; a
// filtered count loads the namespace and reuses the engine so filter
// semantics cannot drift between backends.
func countRecords(q dbtx, factory func() types.Record, namespace string, where types.Where) (int, error) {
	if len(where) == 0 {
		var n int
		err := q.QueryRow(
			"SELECT COUNT(*) FROM records WHERE namespace = ?", namespace).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("counting %s: %w", namespace, err)
		}
		return n, nil
	}
	recs, err := getAllRecords(q, factory, namespace)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range recs {
		if query.Match(rec, where) {
			n++
		}
	}
	return n, nil
}

// queryRecords evaluates a full query over the loaded namespace. Filter
// pushdown into SQL is deliberately out of scope: real indexing is not
// a goal of this core, and sharing the in-memory engine keeps both
// backends semantically identical.
func queryRecords(q dbtx, factory func() types.Record, namespace string, qu types.Query) ([]types.Record, error) {
	recs, err := getAllRecords(q, factory, namespace)
	if err != nil {
		return nil, err
	}
	return query.Apply(recs, qu)
}
