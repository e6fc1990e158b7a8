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


// Package learner implements the semantic similarity index over learned
// question/answer pairs.
//
// Repeated identical questions hit an O(1) in-memory exact-text cache;
// paraphrases fall back to a brute-force cosine scan over the persisted
// vectors. The corpus is learned facts, not a search-engine-scale index, so a
// linear scan stays cheap and avoids an ANN structure. The embedding model is
// an optional capability: with a nil embedder, records carry no vector and
// only the exact-text path answers.
package learner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/banglabot/jiggasa/ai"
	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultThreshold is the minimum cosine similarity a candidate must strictly
// exceed to be returned by FindSimilar.
const DefaultThreshold float32 = 0.7

// ErrSimilarityRepositoryRequired is returned when a similarity repository is
// not provided.
var ErrSimilarityRepositoryRequired = errors.New("similarity repository required")

// Match is a similarity hit.
// Confidence is the stored record confidence, not the cosine score.
type Match struct {
	Question   string
	Answer     string
	Confidence float32
}

// Learner is the similarity index.
type Learner struct {
	repo     storage.SimilarityRepository
	embedder ai.Embedder // nil means the capability is absent
	cache    *gocache.Cache
	logger   *slog.Logger
}

// Option configures a Learner.
type Option func(*Learner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Learner) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// New creates a new Learner. embedder may be nil; the index then degrades to
// exact-text matching.
func New(repo storage.SimilarityRepository, embedder ai.Embedder, opts ...Option) (*Learner, error) {
	if repo == nil {
		return nil, ErrSimilarityRepositoryRequired
	}

	l := &Learner{
		repo:     repo,
		embedder: embedder,
		cache:    gocache.New(gocache.NoExpiration, 0),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Record upserts a question/answer pair into the index and the exact-text
// cache. With an embedder present the question vector is computed up front;
// an embedding failure is logged and the record stored without a vector
// rather than failing the write.
func (l *Learner) Record(ctx context.Context, question, answer, source string) error {
	var vector []float32
	if l.embedder != nil {
		v, err := l.embedder.EmbedText(ctx, question)
		if err != nil {
			l.logger.Warn("embedding failed, recording without vector", "err", err)
		} else {
			vector = v
		}
	}

	record := &core.SimilarityRecord{
		Question:   question,
		Answer:     answer,
		Vector:     vector,
		Source:     source,
		Confidence: core.DefaultConfidence,
	}
	if err := l.repo.Upsert(ctx, record); err != nil {
		return err
	}

	l.cache.Set(question, answer, gocache.NoExpiration)
	return nil
}

// AutoAnswer resolves a question through the index: first the exact-text
// cache, then the persisted exact-text record, then a similarity scan.
// The second return value reports whether an answer was found. Upstream
// failures degrade to "no answer" and are never surfaced.
func (l *Learner) AutoAnswer(ctx context.Context, question string) (string, bool) {
	if answer, ok := l.cache.Get(question); ok {
		return answer.(string), true
	}

	// Cache can be cold after a restart; the persisted record for the exact
	// text still counts as an exact hit.
	record, err := l.repo.GetByQuestion(ctx, question)
	if err == nil {
		l.cache.Set(question, record.Answer, gocache.NoExpiration)
		return record.Answer, true
	}
	if !errors.Is(err, storage.ErrNotFound) {
		l.logger.Error("exact-text lookup failed", "err", err)
		return "", false
	}

	match, err := l.FindSimilar(ctx, question, DefaultThreshold)
	if err != nil {
		l.logger.Error("similarity search failed", "err", err)
		return "", false
	}
	if match == nil {
		return "", false
	}
	return match.Answer, true
}

// FindSimilar embeds the question and returns the best stored record whose
// cosine similarity strictly exceeds threshold, or nil when none qualifies.
// Without an embedding model it always returns nil: graceful degradation,
// not an error. A hit updates the record's use count and last-used time.
func (l *Learner) FindSimilar(ctx context.Context, question string, threshold float32) (*Match, error) {
	if l.embedder == nil {
		return nil, nil
	}

	vector, err := l.embedder.EmbedText(ctx, question)
	if err != nil {
		l.logger.Warn("embedding query failed", "err", err)
		return nil, nil
	}

	record, score, err := l.repo.FindSimilar(ctx, vector, threshold)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := l.repo.Touch(ctx, record.Id, time.Now()); err != nil {
		l.logger.Warn("touching similarity record failed", "id", record.Id, "err", err)
	}

	l.logger.Debug("similarity hit", "question", record.Question, "score", score)
	return &Match{
		Question:   record.Question,
		Answer:     record.Answer,
		Confidence: record.Confidence,
	}, nil
}

// Stats summarizes the index.
type Stats struct {
	Count         int
	TotalUses     int64
	UniqueSources int
	CacheSize     int
}

// Stats returns aggregate counters over the persisted records and the cache.
func (l *Learner) Stats(ctx context.Context) (*Stats, error) {
	repoStats, err := l.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Count:         repoStats.Count,
		TotalUses:     repoStats.TotalUses,
		UniqueSources: repoStats.UniqueSources,
		CacheSize:     l.cache.ItemCount(),
	}, nil
}
