package jiggasa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/banglabot/jiggasa/memory"
	"github.com/banglabot/jiggasa/safety"
)

// AutoLearnMinAnswerLength is the minimum answer length for automatic
// absorption, stricter than the safety gate's own minimum so the engine does
// not memorize low-information snippets.
const AutoLearnMinAnswerLength = 10

// TeachResult is the outcome of a Teach call.
type TeachResult struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ExistingAnswer string `json:"existing_answer,omitempty"`
}

// UndoOutcome is the outcome of an Undo call.
type UndoOutcome struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Question string `json:"question,omitempty"`
}

// Teach stores a user-provided answer. An already-known question is never
// overwritten: the call fails and returns the existing answer. The answer
// passes the safety gate before any write; an over-length answer with an
// overridable verdict is truncated rather than rejected. Success increases
// the teaching user's trust score.
func (e *Engine) Teach(ctx context.Context, question, answer, userID string) (*TeachResult, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	exists, err := e.store.Exists(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("teach: checking question: %w", err)
	}
	if exists {
		existing, err := e.store.Lookup(ctx, question)
		if err != nil {
			return nil, fmt.Errorf("teach: reading existing answer: %w", err)
		}
		return &TeachResult{
			Success:        false,
			Message:        "এই প্রশ্নের উত্তর আমি আগে থেকেই জানি।",
			ExistingAnswer: existing,
		}, nil
	}

	verdict := e.safety.Check(question, answer)
	if !verdict.Safe {
		return &TeachResult{Success: false, Message: verdict.Reason}, nil
	}
	if verdict.CanOverride && utf8.RuneCountInString(answer) > safety.MaxAnswerLength {
		answer = safety.Truncate(answer)
	}
	if verdict.Warning {
		e.logger.Warn("teaching with safety warning", "reason", verdict.Reason, "user", userID)
	}

	if err := e.learner.Record(ctx, question, answer, "learned"); err != nil {
		return nil, fmt.Errorf("teach: recording similarity entry: %w", err)
	}
	if err := e.store.Learn(ctx, question, answer, userID); err != nil {
		return nil, fmt.Errorf("teach: storing knowledge: %w", err)
	}

	if _, err := e.store.IncreaseTrust(ctx, userID, memory.TrustIncrement); err != nil {
		e.logger.Warn("increasing trust failed", "user", userID, "err", err)
	}

	return &TeachResult{
		Success: true,
		Message: "নতুন জিনিস শিখেছি! ধন্যবাদ!",
	}, nil
}

// AutoLearn absorbs an answer discovered by the engine itself. The safety
// gate applies as for teaching, plus a stricter minimum answer length. The
// write goes through both the similarity index and the knowledge store, with
// a separate auto-learn audit record. Trust is not affected.
func (e *Engine) AutoLearn(ctx context.Context, question, answer, source, userID string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	verdict := e.safety.Check(question, answer)
	if !verdict.Safe {
		return fmt.Errorf("auto-learn rejected: %s", verdict.Reason)
	}
	if utf8.RuneCountInString(answer) < AutoLearnMinAnswerLength {
		return errors.New("auto-learn rejected: answer too short")
	}
	if verdict.CanOverride && utf8.RuneCountInString(answer) > safety.MaxAnswerLength {
		answer = safety.Truncate(answer)
	}

	if err := e.learner.Record(ctx, question, answer, source); err != nil {
		return fmt.Errorf("auto-learn: recording similarity entry: %w", err)
	}
	if err := e.store.Learn(ctx, question, answer, userID); err != nil {
		return fmt.Errorf("auto-learn: storing knowledge: %w", err)
	}
	if err := e.store.AuditAutoLearn(ctx, question, answer, source, userID); err != nil {
		e.logger.Warn("appending auto-learn audit failed", "err", err)
	}
	return nil
}

// Undo rolls back the most recent knowledge write and reduces the acting
// user's trust score. An empty undo buffer is a failure outcome, not an
// error.
func (e *Engine) Undo(ctx context.Context, userID string) (*UndoOutcome, error) {
	result, err := e.store.Undo(ctx, userID)
	if errors.Is(err, memory.ErrNothingToUndo) {
		return &UndoOutcome{
			Success: false,
			Message: "কোন শেখা জিনিস নেই",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	return &UndoOutcome{
		Success:  true,
		Message:  "শেষ শেখা জিনিস বাতিল করা হয়েছে",
		Question: result.Question,
	}, nil
}

// Trust returns the user's current trust score.
func (e *Engine) Trust(ctx context.Context, userID string) (int, error) {
	return e.store.TrustScore(ctx, userID)
}

// EngineStats merges knowledge-store and similarity-index counters with the
// search quota.
type EngineStats struct {
	TotalLearned   int `json:"total_learned"`
	TodayLearned   int `json:"today_learned"`
	TotalLogs      int `json:"total_logs"`
	TotalUsers     int `json:"total_users"`
	UndoAvailable  int `json:"undo_available"`
	SmartKnowledge int `json:"smart_knowledge"`
	SmartUses      int `json:"smart_uses"`
	UniqueSources  int `json:"unique_sources"`
	CacheSize      int `json:"cache_size"`
	SearchUsed     int `json:"search_count"`
	SearchLeft     int `json:"search_remaining"`
}

// Stats returns the engine's counters.
func (e *Engine) Stats(ctx context.Context) (*EngineStats, error) {
	storeStats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: knowledge store: %w", err)
	}
	learnerStats, err := e.learner.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: similarity index: %w", err)
	}
	gateStats := e.gate.Stats()

	return &EngineStats{
		TotalLearned:   storeStats.TotalLearned,
		TodayLearned:   storeStats.TodayLearned,
		TotalLogs:      storeStats.TotalLogs,
		TotalUsers:     storeStats.TotalUsers,
		UndoAvailable:  storeStats.UndoAvailable,
		SmartKnowledge: learnerStats.Count,
		SmartUses:      int(learnerStats.TotalUses),
		UniqueSources:  learnerStats.UniqueSources,
		CacheSize:      learnerStats.CacheSize,
		SearchUsed:     gateStats.Used,
		SearchLeft:     gateStats.Remaining,
	}, nil
}
