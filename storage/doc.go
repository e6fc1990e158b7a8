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


// Package storage provides the storage abstraction layer for jiggasa.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, allowing different backends (BadgerDB,
// in-memory) to be used interchangeably.
//
// # Repositories
//
//   - KnowledgeRepository: exact-match question/answer entries
//   - UndoRepository: bounded FIFO of recent knowledge writes
//   - AuditRepository: append-only mutation log
//   - TrustRepository: per-user trust scores
//   - SimilarityRepository: embedding-enriched records with vector scan
//
// # Durability
//
// Every mutating repository operation is durable before it returns: the
// engine acknowledges a learn, undo, or trust change only after the
// corresponding write has been committed. Readers observe the latest durable
// state after a process restart.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. Each mutating operation is internally
// atomic (read-modify-write-persist as one critical section).
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
