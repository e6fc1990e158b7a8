package badger

import (
	"context"
	"errors"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	"github.com/dgraph-io/badger/v4"
)

// KnowledgeRepository implements storage.KnowledgeRepository for BadgerDB.
type KnowledgeRepository struct {
	backend *Backend
}

var _ storage.KnowledgeRepository = (*KnowledgeRepository)(nil)

// NewKnowledgeRepository creates a new KnowledgeRepository.
func NewKnowledgeRepository(backend *Backend) *KnowledgeRepository {
	return &KnowledgeRepository{backend: backend}
}

// Close implements storage.KnowledgeRepository.
func (r *KnowledgeRepository) Close() error {
	return nil
}

// Get retrieves an entry by its normalized key.
func (r *KnowledgeRepository) Get(ctx context.Context, key string) (*core.KnowledgeEntry, error) {
	var result *core.KnowledgeEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeKnowledgeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalKnowledgeEntry(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Put inserts or overwrites an entry.
func (r *KnowledgeRepository) Put(ctx context.Context, entry *core.KnowledgeEntry) error {
	if err := core.ValidateKnowledgeEntry(entry); err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeKnowledgeKey(entry.Key), storage.MarshalKnowledgeEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes an entry by key.
func (r *KnowledgeRepository) Delete(ctx context.Context, key string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		k := makeKnowledgeKey(key)
		_, err := tx.Get(k)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(k); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Exists reports whether an entry with the given key is stored.
func (r *KnowledgeRepository) Exists(ctx context.Context, key string) (bool, error) {
	exists := false
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeKnowledgeKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	}, false)
	return exists, err
}

// Count returns the number of stored entries.
func (r *KnowledgeRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(knowledgePrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
