package badger

import (
	"bytes"
	"context"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	"github.com/dgraph-io/badger/v4"
)

// DefaultUndoCapacity bounds the undo buffer. The oldest record is evicted
// silently when a push would exceed it.
const DefaultUndoCapacity = 15

// UndoRepository implements storage.UndoRepository for BadgerDB.
// Records are keyed by a monotonic sequence; the lowest key is the oldest.
type UndoRepository struct {
	backend  *Backend
	idSeq    *badger.Sequence
	capacity int
}

var _ storage.UndoRepository = (*UndoRepository)(nil)

// NewUndoRepository creates a new UndoRepository with the given capacity.
// A capacity below 1 falls back to DefaultUndoCapacity.
func NewUndoRepository(backend *Backend, capacity int) (*UndoRepository, error) {
	if capacity < 1 {
		capacity = DefaultUndoCapacity
	}
	idSeq, err := backend.GetSequence(undoIDSeq)
	if err != nil {
		return nil, err
	}
	return &UndoRepository{
		backend:  backend,
		idSeq:    idSeq,
		capacity: capacity,
	}, nil
}

// Close releases the ID sequence.
func (r *UndoRepository) Close() error {
	return r.idSeq.Release()
}

// Push appends a record, evicting the oldest when the buffer is full.
func (r *UndoRepository) Push(ctx context.Context, record *core.UndoRecord) error {
	seq, err := r.nextSeq()
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeUndoKey(seq), storage.MarshalUndoRecord(record)); err != nil {
			return err
		}

		// Evict oldest entries beyond capacity.
		keys, err := r.bufferKeys(tx)
		if err != nil {
			return err
		}
		for len(keys) > r.capacity {
			if err := tx.Delete(keys[0]); err != nil {
				return err
			}
			keys = keys[1:]
		}
		return tx.Commit()
	}, true)
}

// Pop removes and returns the most recent record.
func (r *UndoRepository) Pop(ctx context.Context) (*core.UndoRecord, error) {
	var result *core.UndoRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := r.bufferKeys(tx)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return storage.ErrNotFound
		}
		newest := keys[len(keys)-1]
		item, err := tx.Get(newest)
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			result, err = storage.UnmarshalUndoRecord(val)
			return err
		}); err != nil {
			return err
		}
		if err := tx.Delete(newest); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Len returns the number of buffered records.
func (r *UndoRepository) Len(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		keys, err := r.bufferKeys(tx)
		if err != nil {
			return err
		}
		count = len(keys)
		return nil
	}, false)
	return count, err
}

// bufferKeys returns all undo keys in ascending (oldest first) order. The
// buffer never exceeds capacity+1 entries, so materializing the keys is cheap.
func (r *UndoRepository) bufferKeys(tx *badger.Txn) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(undoPrefix + ":")
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, bytes.Clone(iter.Item().Key()))
	}
	return keys, nil
}

// nextSeq returns the next non-zero sequence value. BadgerDB sequences can
// return 0 on first call, which would sort a fresh record before nothing.
func (r *UndoRepository) nextSeq() (uint64, error) {
	seq, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		seq, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return seq, nil
}
