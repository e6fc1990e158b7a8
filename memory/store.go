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


// Package memory implements the exact-match knowledge store and the per-user
// trust ledger.
//
// A Store coordinates four repositories: the knowledge table, the bounded
// undo buffer, the append-only audit log, and the trust table. Every learn
// produces exactly one undo record and one audit record; every undo restores
// the prior state, logs a compensating audit record, and reduces the acting
// user's trust. All mutations are persisted before the call returns.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
)

// Trust score deltas. Deltas are fixed and independent of content.
const (
	// TrustIncrement is the default reward for a successful teach.
	TrustIncrement = 5
	// TrustDecrement is the default penalty for an explicit decrease.
	TrustDecrement = 10
	// UndoPenalty is applied to the acting user on every undo.
	UndoPenalty = 5
)

// Store is the exact-match knowledge store with undo and audit.
type Store struct {
	knowledge storage.KnowledgeRepository
	undo      storage.UndoRepository
	audit     storage.AuditRepository
	trust     storage.TrustRepository
	logger    *slog.Logger

	// mu serializes learn/undo so the knowledge, undo, and audit writes of
	// one operation never interleave with another's.
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewStore creates a new Store over the given repositories.
func NewStore(
	knowledge storage.KnowledgeRepository,
	undo storage.UndoRepository,
	audit storage.AuditRepository,
	trust storage.TrustRepository,
	opts ...Option,
) (*Store, error) {
	if knowledge == nil {
		return nil, ErrKnowledgeRepositoryRequired
	}
	if undo == nil {
		return nil, ErrUndoRepositoryRequired
	}
	if audit == nil {
		return nil, ErrAuditRepositoryRequired
	}
	if trust == nil {
		return nil, ErrTrustRepositoryRequired
	}

	s := &Store{
		knowledge: knowledge,
		undo:      undo,
		audit:     audit,
		trust:     trust,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Lookup returns the answer stored for the question, matching on the
// normalized key only. Returns storage.ErrNotFound when absent.
func (s *Store) Lookup(ctx context.Context, question string) (string, error) {
	entry, err := s.knowledge.Get(ctx, core.NormalizeQuestion(question))
	if err != nil {
		return "", err
	}
	return entry.Answer, nil
}

// Exists reports whether an answer is stored for the question.
func (s *Store) Exists(ctx context.Context, question string) (bool, error) {
	return s.knowledge.Exists(ctx, core.NormalizeQuestion(question))
}

// Learn stores an answer for the question, capturing the prior value in the
// undo buffer and appending an audit record. An existing entry is
// overwritten; manual-teach collision policy lives in the engine, not here.
func (s *Store) Learn(ctx context.Context, question, answer, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeQuestion(question)
	now := time.Now().UTC()

	undoRec := &core.UndoRecord{
		Key:       key,
		NewAnswer: answer,
		UserID:    userID,
		Timestamp: now,
	}
	old, err := s.knowledge.Get(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("learn: reading prior answer: %w", err)
	}
	if old != nil {
		undoRec.PrevAnswer = old.Answer
		undoRec.HadPrev = true
	}

	if err := s.undo.Push(ctx, undoRec); err != nil {
		return fmt.Errorf("learn: pushing undo record: %w", err)
	}

	entry := &core.KnowledgeEntry{
		Key:        key,
		Answer:     answer,
		LastWriter: userID,
		WrittenAt:  now,
	}
	if err := s.knowledge.Put(ctx, entry); err != nil {
		return fmt.Errorf("learn: writing entry: %w", err)
	}

	auditRec := &core.AuditRecord{
		Question:  question,
		Answer:    answer,
		UserID:    userID,
		Action:    core.ActionLearned,
		Timestamp: now,
	}
	if err := s.audit.Append(ctx, auditRec); err != nil {
		return fmt.Errorf("learn: appending audit record: %w", err)
	}

	s.logger.Debug("learned answer", "key", key, "user", userID)
	return nil
}

// AuditAutoLearn appends the separate audit record the auto-learn pipeline
// produces in addition to the regular learn record.
func (s *Store) AuditAutoLearn(ctx context.Context, question, answer, source, userID string) error {
	return s.audit.Append(ctx, &core.AuditRecord{
		Question:  question,
		Answer:    answer,
		Source:    source,
		UserID:    userID,
		Action:    core.ActionAutoLearned,
		Timestamp: time.Now().UTC(),
	})
}

// UndoResult describes the outcome of an Undo.
type UndoResult struct {
	Question   string
	PrevAnswer string
	Restored   bool // false means the key was removed because it had no prior answer
}

// Undo rolls back the most recent learn: the prior answer is restored, or the
// key removed if it did not exist before. The rollback is audit-logged as a
// compensating write and the acting user's trust is reduced by UndoPenalty.
// Returns ErrNothingToUndo when the buffer is empty; no state changes then.
func (s *Store) Undo(ctx context.Context, userID string) (*UndoResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.undo.Pop(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNothingToUndo
	}
	if err != nil {
		return nil, fmt.Errorf("undo: popping record: %w", err)
	}

	if last.HadPrev {
		entry := &core.KnowledgeEntry{
			Key:        last.Key,
			Answer:     last.PrevAnswer,
			LastWriter: userID,
			WrittenAt:  time.Now().UTC(),
		}
		if err := s.knowledge.Put(ctx, entry); err != nil {
			return nil, fmt.Errorf("undo: restoring prior answer: %w", err)
		}
	} else {
		err := s.knowledge.Delete(ctx, last.Key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("undo: removing entry: %w", err)
		}
	}

	auditRec := &core.AuditRecord{
		Question:   last.Key,
		Answer:     last.PrevAnswer,
		PrevAnswer: last.NewAnswer,
		UserID:     userID,
		Action:     core.ActionUndid,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.audit.Append(ctx, auditRec); err != nil {
		return nil, fmt.Errorf("undo: appending audit record: %w", err)
	}

	if _, err := s.DecreaseTrust(ctx, userID, UndoPenalty); err != nil {
		return nil, fmt.Errorf("undo: decreasing trust: %w", err)
	}

	s.logger.Debug("undid last learn", "key", last.Key, "user", userID)
	return &UndoResult{
		Question:   last.Key,
		PrevAnswer: last.PrevAnswer,
		Restored:   last.HadPrev,
	}, nil
}

// IncreaseTrust raises a user's trust score by amount, clamped to the trust
// bounds, and persists the new score before returning it.
func (s *Store) IncreaseTrust(ctx context.Context, userID string, amount int) (int, error) {
	current, err := s.trust.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	score := core.ClampTrust(current + amount)
	if err := s.trust.Set(ctx, userID, score); err != nil {
		return 0, err
	}
	return score, nil
}

// DecreaseTrust lowers a user's trust score by amount, clamped to the trust
// bounds, and persists the new score before returning it.
func (s *Store) DecreaseTrust(ctx context.Context, userID string, amount int) (int, error) {
	return s.IncreaseTrust(ctx, userID, -amount)
}

// TrustScore returns a user's current trust score, core.TrustDefault for
// unknown users.
func (s *Store) TrustScore(ctx context.Context, userID string) (int, error) {
	return s.trust.Get(ctx, userID)
}

// Stats summarizes the store.
type Stats struct {
	TotalLearned  int
	TodayLearned  int
	TotalLogs     int
	TotalUsers    int
	UndoAvailable int
}

// Stats returns counters over the knowledge table, audit log, trust table,
// and undo buffer. TodayLearned counts learn records since local midnight.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	totalLearned, err := s.knowledge.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayLearned, err := s.audit.CountLearnedSince(ctx, midnight)
	if err != nil {
		return nil, err
	}

	totalLogs, err := s.audit.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.trust.Count(ctx)
	if err != nil {
		return nil, err
	}

	undoAvailable, err := s.undo.Len(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalLearned:  totalLearned,
		TodayLearned:  todayLearned,
		TotalLogs:     totalLogs,
		TotalUsers:    totalUsers,
		UndoAvailable: undoAvailable,
	}, nil
}
