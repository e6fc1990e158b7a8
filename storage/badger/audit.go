package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	"github.com/dgraph-io/badger/v4"
)

// AuditRepository implements storage.AuditRepository for BadgerDB.
// Besides the primary records it maintains a date index over ActionLearned
// entries so the learned-today counter does not scan the whole log.
type AuditRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(backend *Backend) (*AuditRepository, error) {
	idSeq, err := backend.GetSequence(auditIDSeq)
	if err != nil {
		return nil, err
	}
	return &AuditRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AuditRepository) Close() error {
	return r.idSeq.Release()
}

// Append adds a record to the log.
func (r *AuditRepository) Append(ctx context.Context, record *core.AuditRecord) error {
	if err := core.ValidateAuditRecord(record); err != nil {
		return err
	}
	seq, err := r.idSeq.Next()
	if err != nil {
		return err
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeAuditKey(seq), storage.MarshalAuditRecord(record)); err != nil {
			return err
		}
		if record.Action == core.ActionLearned {
			learnKey := makeAuditLearnKey(record.Timestamp, seq)
			if err := tx.Set(learnKey, nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the total number of log records.
func (r *AuditRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditPrefix + ":")
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

// CountLearnedSince returns the number of ActionLearned records with a
// timestamp at or after since, using the date index.
func (r *AuditRepository) CountLearnedSince(ctx context.Context, since time.Time) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(auditLearnPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		start := makePartialAuditLearnKey(since)
		for iter.Seek(start); iter.Valid(); iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), opts.Prefix) {
				break
			}
			count++
		}
		return nil
	}, false)
	return count, err
}
