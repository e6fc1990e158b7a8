package badger

import (
	"context"
	"errors"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"
)

// TrustRepository implements storage.TrustRepository for BadgerDB.
type TrustRepository struct {
	backend *Backend
}

var _ storage.TrustRepository = (*TrustRepository)(nil)

// NewTrustRepository creates a new TrustRepository.
func NewTrustRepository(backend *Backend) *TrustRepository {
	return &TrustRepository{backend: backend}
}

// Close implements storage.TrustRepository.
func (r *TrustRepository) Close() error {
	return nil
}

// Get returns the stored score for a user, or core.TrustDefault if the user
// has never been scored.
func (r *TrustRepository) Get(ctx context.Context, userID string) (int, error) {
	score := core.TrustDefault
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTrustKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			score, _, err = varint.Int.Unmarshal(val)
			return err
		})
	}, false)
	return score, err
}

// Set stores a score for a user.
func (r *TrustRepository) Set(ctx context.Context, userID string, score int) error {
	buf := make([]byte, varint.Int.Size(score))
	varint.Int.Marshal(score, buf)
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeTrustKey(userID), buf); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of users with a stored score.
func (r *TrustRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(trustPrefix + ":")
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
