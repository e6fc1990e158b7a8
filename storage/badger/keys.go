package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/banglabot/jiggasa/core"
)

// Key prefixes for different data types
const (
	knowledgePrefix  = "knowrec"
	undoPrefix       = "undorec"
	undoIDSeq        = "undoseq"
	auditPrefix      = "audrec"
	auditIDSeq       = "audseq"
	auditLearnPrefix = "audlearn"
	trustPrefix      = "trust"
	similarityPrefix = "simrec"
)

// makeKnowledgeKey generates a key for a knowledge entry by its normalized
// question key.
func makeKnowledgeKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", knowledgePrefix, key))
}

// makeUndoKey generates a key for an undo record by sequence number.
// BigEndian so lexicographic order equals insertion order.
func makeUndoKey(seq uint64) []byte {
	prefix := undoPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeAuditKey generates a key for an audit record by sequence number.
func makeAuditKey(seq uint64) []byte {
	prefix := auditPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeAuditLearnKey generates a composite key for the learned-action date
// index. Format: prefix:timestamp:seq, both BigEndian so a prefix seek walks
// the index in time order.
func makeAuditLearnKey(timestamp time.Time, seq uint64) []byte {
	prefix := auditLearnPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialAuditLearnKey generates a partial key for date range seeks over
// the learned-action index.
func makePartialAuditLearnKey(timestamp time.Time) []byte {
	prefix := auditLearnPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeTrustKey generates a key for a user's trust score.
func makeTrustKey(userID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", trustPrefix, userID))
}

// makeSimilarityKey generates a key for a similarity record by ID.
func makeSimilarityKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", similarityPrefix, id))
}
