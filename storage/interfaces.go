package storage

import (
	"context"
	"time"

	"github.com/banglabot/jiggasa/core"
)

// KnowledgeRepository stores exact-match question/answer entries keyed by the
// normalized question text. Implementations must be thread-safe.
type KnowledgeRepository interface {
	// Get retrieves an entry by its normalized key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (*core.KnowledgeEntry, error)

	// Put inserts or overwrites an entry. The write is durable before the
	// call returns.
	Put(ctx context.Context, entry *core.KnowledgeEntry) error

	// Delete removes an entry by key.
	// Returns ErrNotFound if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an entry with the given key is stored.
	Exists(ctx context.Context, key string) (bool, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// UndoRepository is a bounded FIFO of the most recent knowledge writes.
// When the buffer is full the oldest record is evicted silently on push.
type UndoRepository interface {
	// Push appends a record, evicting the oldest when the buffer is full.
	Push(ctx context.Context, record *core.UndoRecord) error

	// Pop removes and returns the most recent record.
	// Returns ErrNotFound when the buffer is empty.
	Pop(ctx context.Context) (*core.UndoRecord, error)

	// Len returns the number of buffered records.
	Len(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// AuditRepository is an append-only log of knowledge mutations.
type AuditRepository interface {
	// Append adds a record to the log. Records are never modified or removed.
	Append(ctx context.Context, record *core.AuditRecord) error

	// Count returns the total number of log records.
	Count(ctx context.Context) (int, error)

	// CountLearnedSince returns the number of ActionLearned records with a
	// timestamp at or after since.
	CountLearnedSince(ctx context.Context, since time.Time) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// TrustRepository stores per-user trust scores.
type TrustRepository interface {
	// Get returns the stored score for a user, or core.TrustDefault if the
	// user has never been scored.
	Get(ctx context.Context, userID string) (int, error)

	// Set stores a score for a user. The write is durable before the call
	// returns. Callers are responsible for clamping.
	Set(ctx context.Context, userID string, score int) error

	// Count returns the number of users with a stored score.
	Count(ctx context.Context) (int, error)

	// Close closes the repository and releases resources.
	Close() error
}

// SimilarityStats summarizes the persisted similarity index.
type SimilarityStats struct {
	Count         int
	TotalUses     int64
	UniqueSources int
}

// SimilarityRepository stores embedding-enriched question/answer records.
// Question text is unique; records are addressed by the content hash of the
// question.
type SimilarityRepository interface {
	// Upsert inserts a record or, when a record with the same question text
	// exists, updates it in place preserving CreatedAt and UseCount.
	Upsert(ctx context.Context, record *core.SimilarityRecord) error

	// GetByQuestion retrieves the record for the exact question text.
	// Returns ErrNotFound if no such record exists.
	GetByQuestion(ctx context.Context, question string) (*core.SimilarityRecord, error)

	// FindSimilar scans all stored vectors and returns the single record
	// whose cosine similarity to the query vector is highest and strictly
	// above threshold, along with that similarity.
	// Records without a vector are skipped.
	// Returns ErrNotFound when no record qualifies.
	FindSimilar(ctx context.Context, vector []float32, threshold float32) (*core.SimilarityRecord, float32, error)

	// Touch increments a record's use count and sets its last-used time.
	Touch(ctx context.Context, id core.ID, at time.Time) error

	// ForEach iterates over all stored records in key order.
	// Iteration stops at the first error returned by fn.
	ForEach(ctx context.Context, fn func(record *core.SimilarityRecord) error) error

	// Stats returns aggregate counters over the stored records.
	Stats(ctx context.Context) (*SimilarityStats, error)

	// Close closes the repository and releases resources.
	Close() error
}
