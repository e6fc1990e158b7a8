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

import "errors"

// Domain validation errors
var (
	// ErrInvalidKnowledgeEntry indicates a KnowledgeEntry failed validation.
	ErrInvalidKnowledgeEntry = errors.New("invalid knowledge entry")

	// ErrInvalidAuditRecord indicates an AuditRecord failed validation.
	ErrInvalidAuditRecord = errors.New("invalid audit record")

	// ErrInvalidSimilarityRecord indicates a SimilarityRecord failed validation.
	ErrInvalidSimilarityRecord = errors.New("invalid similarity record")

	// ErrEmptyQuestion indicates a question is empty after trimming.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyAnswer indicates an answer is empty after trimming.
	ErrEmptyAnswer = errors.New("answer cannot be empty")

	// ErrEmptyUserID indicates a user identifier is missing.
	ErrEmptyUserID = errors.New("user id cannot be empty")

	// ErrInvalidAction indicates an unknown AuditAction value.
	ErrInvalidAction = errors.New("invalid audit action")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrInvalidConfidence indicates a confidence value outside [0,1].
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
)
