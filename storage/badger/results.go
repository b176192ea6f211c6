package badger

import (
	"context"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/qaembed/core"
	"github.com/poiesic/qaembed/storage"
)

// ResultStore implements storage.ResultWriter for BadgerDB.
// Records are keyed by content ID, so rerunning the same input overwrites
// rather than duplicates.
type ResultStore struct {
	backend *Backend
	owned   bool
}

var _ storage.ResultWriter = (*ResultStore)(nil)

// NewResultStore creates a ResultStore on an open backend. The caller keeps
// ownership of the backend.
func NewResultStore(backend *Backend) *ResultStore {
	return &ResultStore{backend: backend}
}

// OpenResultStore opens a database in dir and returns a store that closes it.
func OpenResultStore(dir string) (*ResultStore, error) {
	backend, err := OpenBackend(dir, false, nil)
	if err != nil {
		return nil, err
	}
	return &ResultStore{backend: backend, owned: true}, nil
}

// Write stores all records in a single transaction.
func (s *ResultStore) Write(ctx context.Context, records []*core.ResultRecord) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if dups := storage.Duplicates(records); len(dups) > 0 {
		s.backend.logger.Warn("duplicate records overwrite an earlier result", "count", len(dups), "ordinals", dups)
	}
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.Set(makeResultKey(record.Id), storage.MarshalResultRecord(record)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}

	s.backend.logger.Debug("results stored", "count", len(records))
	return nil
}

// Get retrieves a single result record by ID.
// Returns storage.ErrNotFound if the record doesn't exist.
func (s *ResultStore) Get(ctx context.Context, id core.ID) (*core.ResultRecord, error) {
	var record *core.ResultRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeResultKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			record, err = storage.UnmarshalResultRecord(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// All returns every stored record ordered by ID.
func (s *ResultStore) All(ctx context.Context) ([]*core.ResultRecord, error) {
	var records []*core.ResultRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(resultRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record *core.ResultRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalResultRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b *core.ResultRecord) int {
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
	return records, nil
}

// Close closes the backend if the store opened it.
func (s *ResultStore) Close() error {
	if s.owned && !s.backend.IsClosed() {
		return s.backend.Close()
	}
	return nil
}
