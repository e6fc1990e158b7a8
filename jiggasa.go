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


// Package jiggasa is a self-learning Bengali question-answering engine.
//
// A query runs through a tiered resolver chain: hand-written response
// patterns, a semantic similarity index over learned pairs, an exact-match
// knowledge store, a quota-gated web search, and a static fallback. Answers
// found on the web are moderated by a content-safety gate and absorbed back
// into the stores, so the engine improves with use. Users teach answers
// directly as well; a bounded undo buffer and a per-user trust score keep
// that honest.
package jiggasa

import (
	"log/slog"

	"github.com/banglabot/jiggasa/ai"
	"github.com/banglabot/jiggasa/ai/openai"
	"github.com/banglabot/jiggasa/learner"
	"github.com/banglabot/jiggasa/memory"
	"github.com/banglabot/jiggasa/safety"
	"github.com/banglabot/jiggasa/storage"
	"github.com/banglabot/jiggasa/storage/badger"
	"github.com/banglabot/jiggasa/websearch"
)

// Engine is the orchestrator over the knowledge store, the similarity index,
// the safety gate and the web-search tier.
type Engine struct {
	backend    *badger.Backend
	store      *memory.Store
	learner    *learner.Learner
	similarity storage.SimilarityRepository
	embedder   ai.Embedder
	safety     *safety.Checker
	search     websearch.Provider
	gate       *websearch.Gate
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	embedder  ai.Embedder
	search    websearch.Provider
	searchCap int
	inMemory  bool
	logger    *slog.Logger
}

// WithAIConfig sets the embedding service configuration used when no
// explicit embedder is injected.
func WithAIConfig(config *ai.Config) Option {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects an embedder directly, bypassing WithAIConfig. Passing
// nil explicitly is meaningless here; omit the option instead.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(o *engineOptions) { o.embedder = embedder }
}

// WithSearchProvider enables the web-search tier. Without it the tier is
// skipped entirely.
func WithSearchProvider(provider websearch.Provider) Option {
	return func(o *engineOptions) { o.search = provider }
}

// WithSearchCap overrides the per-process web search budget.
func WithSearchCap(cap int) Option {
	return func(o *engineOptions) { o.searchCap = cap }
}

// WithInMemoryStorage keeps all state in memory. Intended for tests.
func WithInMemoryStorage() Option {
	return func(o *engineOptions) { o.inMemory = true }
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open assembles an Engine over a badger database at filePath. The embedding
// service is probed at construction; if it cannot be reached the engine runs
// without similarity search rather than failing.
func Open(filePath string, opts ...Option) (*Engine, error) {
	options := &engineOptions{
		aiConfig:  ai.DefaultConfig(),
		searchCap: websearch.DefaultDailyCap,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	undoRepo, err := badger.NewUndoRepository(backend, badger.DefaultUndoCapacity)
	if err != nil {
		backend.Close()
		return nil, err
	}
	auditRepo, err := badger.NewAuditRepository(backend)
	if err != nil {
		undoRepo.Close()
		backend.Close()
		return nil, err
	}
	knowledgeRepo := badger.NewKnowledgeRepository(backend)
	trustRepo := badger.NewTrustRepository(backend)
	similarityRepo := badger.NewSimilarityRepository(backend)

	store, err := memory.NewStore(knowledgeRepo, undoRepo, auditRepo, trustRepo,
		memory.WithLogger(options.logger))
	if err != nil {
		auditRepo.Close()
		undoRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			options.logger.Warn("embedding service unavailable, similarity search disabled", "err", err)
			embedder = nil
		}
	}

	idx, err := learner.New(similarityRepo, embedder, learner.WithLogger(options.logger))
	if err != nil {
		auditRepo.Close()
		undoRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:    backend,
		store:      store,
		learner:    idx,
		similarity: similarityRepo,
		embedder:   embedder,
		safety:     safety.NewChecker(),
		search:     options.search,
		gate:       websearch.NewGate(options.searchCap),
		logger:     options.logger,
	}, nil
}

// Close releases the underlying storage.
func (e *Engine) Close() error {
	return e.backend.Close()
}

// Store exposes the knowledge store for maintenance tooling.
func (e *Engine) Store() *memory.Store {
	return e.store
}

// Learner exposes the similarity index for maintenance tooling.
func (e *Engine) Learner() *learner.Learner {
	return e.learner
}

// SimilarityRepository exposes the persisted similarity records for
// maintenance tooling such as re-embedding.
func (e *Engine) SimilarityRepository() storage.SimilarityRepository {
	return e.similarity
}

// Embedder returns the configured embedding capability, or nil when absent.
func (e *Engine) Embedder() ai.Embedder {
	return e.embedder
}
