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
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. Field order is
// part of the on-disk format and must not change between releases.
var (
	IDMUS               = idMUS{}
	KnowledgeEntryMUS   = knowledgeEntryMUS{}
	UndoRecordMUS       = undoRecordMUS{}
	AuditRecordMUS      = auditRecordMUS{}
	SimilarityRecordMUS = similarityRecordMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type knowledgeEntryMUS struct{}

func (knowledgeEntryMUS) Marshal(e KnowledgeEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.Key, bs)
	n += ord.String.Marshal(e.Answer, bs[n:])
	n += ord.String.Marshal(e.LastWriter, bs[n:])
	n += marshalTime(e.WrittenAt, bs[n:])
	return n
}

func (knowledgeEntryMUS) Unmarshal(bs []byte) (e KnowledgeEntry, n int, err error) {
	var m int
	if e.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.Answer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.LastWriter, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.WrittenAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	return e, n, nil
}

func (knowledgeEntryMUS) Size(e KnowledgeEntry) int {
	return ord.String.Size(e.Key) +
		ord.String.Size(e.Answer) +
		ord.String.Size(e.LastWriter) +
		sizeTime(e.WrittenAt)
}

type undoRecordMUS struct{}

func (undoRecordMUS) Marshal(r UndoRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Key, bs)
	n += ord.String.Marshal(r.PrevAnswer, bs[n:])
	n += ord.Bool.Marshal(r.HadPrev, bs[n:])
	n += ord.String.Marshal(r.NewAnswer, bs[n:])
	n += ord.String.Marshal(r.UserID, bs[n:])
	n += marshalTime(r.Timestamp, bs[n:])
	return n
}

func (undoRecordMUS) Unmarshal(bs []byte) (r UndoRecord, n int, err error) {
	var m int
	if r.Key, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if r.PrevAnswer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.HadPrev, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.NewAnswer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.UserID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Timestamp, m, err = unmarshalTime(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	return r, n, nil
}

func (undoRecordMUS) Size(r UndoRecord) int {
	return ord.String.Size(r.Key) +
		ord.String.Size(r.PrevAnswer) +
		ord.Bool.Size(r.HadPrev) +
		ord.String.Size(r.NewAnswer) +
		ord.String.Size(r.UserID) +
		sizeTime(r.Timestamp)
}

type auditRecordMUS struct{}

func (auditRecordMUS) Marshal(r AuditRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Question, bs)
	n += ord.String.Marshal(r.Answer, bs[n:])
	n += ord.String.Marshal(r.PrevAnswer, bs[n:])
	n += ord.String.Marshal(r.Source, bs[n:])
	n += ord.String.Marshal(r.UserID, bs[n:])
	n += varint.Int.Marshal(int(r.Action), bs[n:])
	n += marshalTime(r.Timestamp, bs[n:])
	return n
}

func (auditRecordMUS) Unmarshal(bs []byte) (r AuditRecord, n int, err error) {
	var m int
	if r.Question, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if r.Answer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.PrevAnswer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Source, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.UserID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	var action int
	if action, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.Action = AuditAction(action)
	if r.Timestamp, m, err = unmarshalTime(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	return r, n, nil
}

func (auditRecordMUS) Size(r AuditRecord) int {
	return ord.String.Size(r.Question) +
		ord.String.Size(r.Answer) +
		ord.String.Size(r.PrevAnswer) +
		ord.String.Size(r.Source) +
		ord.String.Size(r.UserID) +
		varint.Int.Size(int(r.Action)) +
		sizeTime(r.Timestamp)
}

type similarityRecordMUS struct{}

func (similarityRecordMUS) Marshal(r SimilarityRecord, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(r.Id), bs)
	n += ord.String.Marshal(r.Question, bs[n:])
	n += ord.String.Marshal(r.Answer, bs[n:])
	n += marshalVector(r.Vector, bs[n:])
	n += ord.String.Marshal(r.Source, bs[n:])
	n += varint.Uint32.Marshal(math.Float32bits(r.Confidence), bs[n:])
	n += varint.Int64.Marshal(r.UseCount, bs[n:])
	n += marshalTime(r.LastUsed, bs[n:])
	n += marshalTime(r.CreatedAt, bs[n:])
	return n
}

func (similarityRecordMUS) Unmarshal(bs []byte) (r SimilarityRecord, n int, err error) {
	var m int
	var id uint64
	if id, n, err = varint.Uint64.Unmarshal(bs); err != nil {
		return
	}
	r.Id = ID(id)
	if r.Question, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Answer, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Vector, m, err = unmarshalVector(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Source, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	var bits uint32
	if bits, m, err = varint.Uint32.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.Confidence = math.Float32frombits(bits)
	if r.UseCount, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.LastUsed, m, err = unmarshalTime(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.CreatedAt, m, err = unmarshalTime(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	return r, n, nil
}

func (similarityRecordMUS) Size(r SimilarityRecord) int {
	return varint.Uint64.Size(uint64(r.Id)) +
		ord.String.Size(r.Question) +
		ord.String.Size(r.Answer) +
		sizeVector(r.Vector) +
		ord.String.Size(r.Source) +
		varint.Uint32.Size(math.Float32bits(r.Confidence)) +
		varint.Int64.Size(r.UseCount) +
		sizeTime(r.LastUsed) +
		sizeTime(r.CreatedAt)
}

// Timestamps are stored as Unix microseconds; sub-microsecond precision is
// dropped on the round trip.
func marshalTime(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func marshalVector(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return n
}

func unmarshalVector(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length <= 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	for i := range v {
		bits, m, err := varint.Uint32.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		v[i] = math.Float32frombits(bits)
	}
	return v, n, nil
}

func sizeVector(v []float32) int {
	n := varint.Int.Size(len(v))
	for _, f := range v {
		n += varint.Uint32.Size(math.Float32bits(f))
	}
	return n
}
