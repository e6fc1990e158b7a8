package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Similarity records use content-based hashing so that identical question
// text always maps to the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeQuestion returns the canonical question key: case-folded and
// whitespace-trimmed. No stemming or punctuation stripping happens here;
// two superficially different phrasings stay distinct keys, and semantic
// equivalence is the similarity index's job.
func NormalizeQuestion(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Trust score bounds. A user's score always stays inside [TrustMin, TrustMax]
// and starts at TrustDefault on first reference.
const (
	TrustMin     = 0
	TrustMax     = 100
	TrustDefault = 50
)

// ClampTrust clamps a trust score to [TrustMin, TrustMax].
func ClampTrust(score int) int {
	if score < TrustMin {
		return TrustMin
	}
	if score > TrustMax {
		return TrustMax
	}
	return score
}

// KnowledgeEntry is a single learned question/answer pair.
// Key is the normalized question text and is unique within the store.
type KnowledgeEntry struct {
	Key        string
	Answer     string
	LastWriter string
	WrittenAt  time.Time
}

// UndoRecord captures the state a knowledge write replaced, so the write can
// be rolled back. HadPrev distinguishes "previous answer was empty" from
// "the key did not exist before".
type UndoRecord struct {
	Key        string
	PrevAnswer string
	HadPrev    bool
	NewAnswer  string
	UserID     string
	Timestamp  time.Time
}

// AuditAction identifies the kind of mutation an audit record describes.
type AuditAction int

const (
	// ActionLearned records a knowledge write (manual teach or web learn).
	ActionLearned AuditAction = iota + 1
	// ActionUndid records a rollback of the most recent write.
	ActionUndid
	// ActionAutoLearned records an acceptance by the auto-learn pipeline.
	ActionAutoLearned
)

// String returns the action name as stored in exported logs.
func (a AuditAction) String() string {
	switch a {
	case ActionLearned:
		return "learned"
	case ActionUndid:
		return "undid"
	case ActionAutoLearned:
		return "auto_learned"
	default:
		return "unknown"
	}
}

// AuditRecord is an append-only log entry for a knowledge mutation.
// PrevAnswer is only populated for ActionUndid entries, Source only for
// ActionAutoLearned entries.
type AuditRecord struct {
	Question   string
	Answer     string
	PrevAnswer string
	Source     string
	UserID     string
	Action     AuditAction
	Timestamp  time.Time
}

// DefaultConfidence is assigned to similarity records that have not been
// scored explicitly.
const DefaultConfidence float32 = 0.8

// SimilarityRecord is a learned question/answer pair enriched with an
// embedding vector for semantic matching. Question text is unique within the
// index; re-recording the same question updates the row in place.
// Vector may be empty when no embedding model was available at write time,
// in which case the record is reachable only through exact-text lookup.
type SimilarityRecord struct {
	Id         ID
	Question   string
	Answer     string
	Vector     []float32
	Source     string
	Confidence float32
	UseCount   int64
	LastUsed   time.Time
	CreatedAt  time.Time
}
