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


package storage

import (
	"github.com/banglabot/jiggasa/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalKnowledgeEntry serializes a KnowledgeEntry to bytes.
func MarshalKnowledgeEntry(entry *core.KnowledgeEntry) []byte {
	buf := make([]byte, core.KnowledgeEntryMUS.Size(*entry))
	core.KnowledgeEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalKnowledgeEntry deserializes a KnowledgeEntry from bytes.
func UnmarshalKnowledgeEntry(data []byte) (*core.KnowledgeEntry, error) {
	entry, _, err := core.KnowledgeEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalUndoRecord serializes an UndoRecord to bytes.
func MarshalUndoRecord(record *core.UndoRecord) []byte {
	buf := make([]byte, core.UndoRecordMUS.Size(*record))
	core.UndoRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalUndoRecord deserializes an UndoRecord from bytes.
func UnmarshalUndoRecord(data []byte) (*core.UndoRecord, error) {
	record, _, err := core.UndoRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalAuditRecord serializes an AuditRecord to bytes.
func MarshalAuditRecord(record *core.AuditRecord) []byte {
	buf := make([]byte, core.AuditRecordMUS.Size(*record))
	core.AuditRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalAuditRecord deserializes an AuditRecord from bytes.
func UnmarshalAuditRecord(data []byte) (*core.AuditRecord, error) {
	record, _, err := core.AuditRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalSimilarityRecord serializes a SimilarityRecord to bytes.
func MarshalSimilarityRecord(record *core.SimilarityRecord) []byte {
	buf := make([]byte, core.SimilarityRecordMUS.Size(*record))
	core.SimilarityRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalSimilarityRecord deserializes a SimilarityRecord from bytes.
func UnmarshalSimilarityRecord(data []byte) (*core.SimilarityRecord, error) {
	record, _, err := core.SimilarityRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
