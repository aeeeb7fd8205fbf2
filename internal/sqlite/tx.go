package sqlite

import "github.com/skagerrak-boats/slipway/pkg/types"

// txStore is the transaction-scoped view handed to Transaction
// callbacks. Every operation runs on the wrapped *sql.Tx; commit and
// rollback stay with the backend that opened the transaction.
type txStore struct {
	backend *Backend
	tx      dbtx
}

var _ types.Store = (*txStore)(nil)

func (t *txStore) Save(namespace string, rec types.Record) error {
	if _, err := t.backend.factory(namespace); err != nil {
		return err
	}
	return saveRecord(t.tx, namespace, rec)
}

func (t *txStore) Get(namespace, id string) (types.Record, bool, error) {
	f, err := t.backend.factory(namespace)
	if err != nil {
		return nil, false, err
	}
	return getRecord(t.tx, f, namespace, id)
}

func (t *txStore) GetAll(namespace string) ([]types.Record, error) {
	f, err := t.backend.factory(namespace)
	if err != nil {
		return nil, err
	}
	return getAllRecords(t.tx, f, namespace)
}

func (t *txStore) Query(namespace string, q types.Query) ([]types.Record, error) {
	f, err := t.backend.factory(namespace)
	if err != nil {
		return nil, err
	}
	return queryRecords(t.tx, f, namespace, q)
}

func (t *txStore) Delete(namespace, id string) error {
	if _, err := t.backend.factory(namespace); err != nil {
		return err
	}
	return deleteRecord(t.tx, namespace, id)
}

func (t *txStore) SaveMany(namespace string, recs []types.Record) error {
	if _, err := t.backend.factory(namespace); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := saveRecord(t.tx, namespace, rec); err != nil {
			return err
		}
	}
	return nil
}

// Transaction on an already-open transaction is call scoping only:
// SQLite has no true nesting here, so fn joins the current transaction.
func (t *txStore) Transaction(fn func(tx types.Store) error) error {
	return fn(t)
}

func (t *txStore) Clear(namespace string) error {
	if _, err := t.backend.factory(namespace); err != nil {
		return err
	}
	return clearNamespace(t.tx, namespace)
}

func (t *txStore) Count(namespace string, where types.Where) (int, error) {
	f, err := t.backend.factory(namespace)
	if err != nil {
		return 0, err
	}
	return countRecords(t.tx, f, namespace, where)
}
