// Copyright 2025 The Jiggasa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateKnowledgeEntry validates a KnowledgeEntry according to domain rules.
//
// Validation rules:
//   - Key must be non-empty and already normalized
//   - Answer must not be empty
//   - WrittenAt must not be in the future
//
// NOT validated:
//   - LastWriter (anonymous writers are allowed)
func ValidateKnowledgeEntry(entry *KnowledgeEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidKnowledgeEntry)
	}

	if strings.TrimSpace(entry.Key) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeEntry, ErrEmptyQuestion)
	}

	if entry.Key != NormalizeQuestion(entry.Key) {
		return fmt.Errorf("%w: key %q is not normalized", ErrInvalidKnowledgeEntry, entry.Key)
	}

	if strings.TrimSpace(entry.Answer) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeEntry, ErrEmptyAnswer)
	}

	if !IsValidTimestamp(entry.WrittenAt) {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeEntry, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateAuditRecord validates an AuditRecord according to domain rules.
func ValidateAuditRecord(record *AuditRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidAuditRecord)
	}

	if strings.TrimSpace(record.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAuditRecord, ErrEmptyQuestion)
	}

	if err := ValidateAuditAction(record.Action); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAuditRecord, err)
	}

	if !IsValidTimestamp(record.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidAuditRecord, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateAuditAction checks that an AuditAction is one of the known values.
func ValidateAuditAction(action AuditAction) error {
	switch action {
	case ActionLearned, ActionUndid, ActionAutoLearned:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidAction, action)
	}
}

// ValidateSimilarityRecord validates a SimilarityRecord according to domain rules.
//
// Validation rules:
//   - Question and Answer must not be empty
//   - Confidence must be in [0,1]
//
// NOT validated (populated lazily):
//   - Vector (empty until an embedding model is available)
//   - UseCount, LastUsed (updated on retrieval)
func ValidateSimilarityRecord(record *SimilarityRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidSimilarityRecord)
	}

	if strings.TrimSpace(record.Question) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSimilarityRecord, ErrEmptyQuestion)
	}

	if strings.TrimSpace(record.Answer) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSimilarityRecord, ErrEmptyAnswer)
	}

	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidSimilarityRecord, ErrInvalidConfidence)
	}

	return nil
}

// IsValidTimestamp returns true if the timestamp is not in the future.
// A small tolerance absorbs clock skew between writers.
func IsValidTimestamp(t time.Time) bool {
	return !t.After(time.Now().Add(1 * time.Minute))
}
