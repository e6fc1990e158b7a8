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


package badger

import "github.com/banglabot/jiggasa/storage"

// MemoryRepositories bundles in-memory repositories for testing.
type MemoryRepositories struct {
	Knowledge  storage.KnowledgeRepository
	Undo       storage.UndoRepository
	Audit      storage.AuditRepository
	Trust      storage.TrustRepository
	Similarity storage.SimilarityRepository
	Backend    *Backend
}

// Close closes all repositories and the backend.
func (m *MemoryRepositories) Close() {
	m.Similarity.Close()
	m.Trust.Close()
	m.Audit.Close()
	m.Undo.Close()
	m.Knowledge.Close()
	m.Backend.Close()
}

// NewMemoryRepositories creates in-memory repositories for testing.
// Caller must call Close when done.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	undoRepo, err := NewUndoRepository(backend, DefaultUndoCapacity)
	if err != nil {
		backend.Close()
		return nil, err
	}

	auditRepo, err := NewAuditRepository(backend)
	if err != nil {
		undoRepo.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Knowledge:  NewKnowledgeRepository(backend),
		Undo:       undoRepo,
		Audit:      auditRepo,
		Trust:      NewTrustRepository(backend),
		Similarity: NewSimilarityRepository(backend),
		Backend:    backend,
	}, nil
}
