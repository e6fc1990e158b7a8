package badger

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	"github.com/dgraph-io/badger/v4"
)

// SimilarityRepository implements storage.SimilarityRepository for BadgerDB.
// Records are keyed by the content hash of their question text, which makes
// question uniqueness structural: upserting the same question overwrites the
// same key.
type SimilarityRepository struct {
	backend *Backend
}

var _ storage.SimilarityRepository = (*SimilarityRepository)(nil)

// NewSimilarityRepository creates a new SimilarityRepository.
func NewSimilarityRepository(backend *Backend) *SimilarityRepository {
	return &SimilarityRepository{backend: backend}
}

// Close implements storage.SimilarityRepository.
func (r *SimilarityRepository) Close() error {
	return nil
}

// Upsert inserts a record or updates the existing record with the same
// question text in place, preserving CreatedAt and UseCount.
func (r *SimilarityRepository) Upsert(ctx context.Context, record *core.SimilarityRecord) error {
	if err := core.ValidateSimilarityRecord(record); err != nil {
		return err
	}
	record.Id = core.IDFromContent(record.Question)
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSimilarityKey(record.Id)

		old, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if old != nil {
			record.CreatedAt = old.CreatedAt
			record.UseCount = old.UseCount
		} else if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		record.LastUsed = now

		if err := tx.Set(key, storage.MarshalSimilarityRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetByQuestion retrieves the record for the exact question text.
func (r *SimilarityRepository) GetByQuestion(ctx context.Context, question string) (*core.SimilarityRecord, error) {
	var result *core.SimilarityRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSimilarityKey(core.IDFromContent(question))
		record, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil || record.Question != question {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindSimilar scans all stored vectors and returns the single record whose
// cosine similarity to the query vector is highest and strictly above
// threshold. Ties keep the first-seen record in key order.
func (r *SimilarityRepository) FindSimilar(ctx context.Context, vector []float32, threshold float32) (*core.SimilarityRecord, float32, error) {
	var best *core.SimilarityRecord
	bestScore := threshold

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(similarityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.SimilarityRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSimilarityRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			score := cosineSimilarity(vector, record.Vector)
			if score > bestScore {
				bestScore = score
				best = record
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, 0, err
	}
	if best == nil {
		return nil, 0, storage.ErrNotFound
	}
	return best, bestScore, nil
}

// Touch increments a record's use count and sets its last-used time.
func (r *SimilarityRepository) Touch(ctx context.Context, id core.ID, at time.Time) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSimilarityKey(id)
		record, err := r.readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		record.UseCount++
		record.LastUsed = at.UTC()
		if err := tx.Set(key, storage.MarshalSimilarityRecord(record)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ForEach iterates over all stored records in key order.
func (r *SimilarityRepository) ForEach(ctx context.Context, fn func(record *core.SimilarityRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(similarityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record *core.SimilarityRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalSimilarityRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// Stats returns aggregate counters over the stored records.
func (r *SimilarityRepository) Stats(ctx context.Context) (*storage.SimilarityStats, error) {
	stats := &storage.SimilarityStats{}
	sources := make(map[string]struct{})
	err := r.ForEach(ctx, func(record *core.SimilarityRecord) error {
		stats.Count++
		stats.TotalUses += record.UseCount
		if record.Source != "" {
			sources[record.Source] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.UniqueSources = len(sources)
	return stats, nil
}

// readRecord reads and unmarshals a similarity record, returning nil if the
// key does not exist.
func (r *SimilarityRepository) readRecord(tx *badger.Txn, key []byte) (*core.SimilarityRecord, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record *core.SimilarityRecord
	err = item.Value(func(val []byte) error {
		record, err = storage.UnmarshalSimilarityRecord(val)
		return err
	})
	return record, err
}

// cosineSimilarity computes the normalized dot product of two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
