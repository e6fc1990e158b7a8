package core

import (
	"testing"
	"time"
)

func TestSimilarityRecordMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := SimilarityRecord{
		Id:         IDFromContent("বাংলাদেশের রাজধানী কি?"),
		Question:   "বাংলাদেশের রাজধানী কি?",
		Answer:     "ঢাকা",
		Vector:     []float32{0.1, -0.5, 0.833, 0},
		Source:     "web_search",
		Confidence: DefaultConfidence,
		UseCount:   7,
		LastUsed:   now,
		CreatedAt:  now.Add(-24 * time.Hour),
	}

	size := SimilarityRecordMUS.Size(record)
	bs := make([]byte, size)
	n := SimilarityRecordMUS.Marshal(record, bs)
	if n != size {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, size)
	}

	got, n, err := SimilarityRecordMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if n != size {
		t.Fatalf("Unmarshal consumed %d bytes, expected %d", n, size)
	}

	if got.Id != record.Id || got.Question != record.Question || got.Answer != record.Answer {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, record)
	}
	if got.Confidence != record.Confidence || got.UseCount != record.UseCount {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, record)
	}
	if !got.LastUsed.Equal(record.LastUsed) || !got.CreatedAt.Equal(record.CreatedAt) {
		t.Errorf("time mismatch: got %v/%v, want %v/%v",
			got.LastUsed, got.CreatedAt, record.LastUsed, record.CreatedAt)
	}
	if len(got.Vector) != len(record.Vector) {
		t.Fatalf("vector length mismatch: got %d, want %d", len(got.Vector), len(record.Vector))
	}
	for i := range record.Vector {
		if got.Vector[i] != record.Vector[i] {
			t.Errorf("vector[%d] = %v, want %v", i, got.Vector[i], record.Vector[i])
		}
	}
}

func TestSimilarityRecordMUSNilVector(t *testing.T) {
	record := SimilarityRecord{
		Id:         IDFromContent("প্রশ্ন"),
		Question:   "প্রশ্ন",
		Answer:     "উত্তর",
		Source:     "learned",
		Confidence: DefaultConfidence,
		LastUsed:   time.Now().UTC(),
		CreatedAt:  time.Now().UTC(),
	}

	bs := make([]byte, SimilarityRecordMUS.Size(record))
	SimilarityRecordMUS.Marshal(record, bs)

	got, _, err := SimilarityRecordMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(got.Vector) != 0 {
		t.Errorf("expected empty vector, got %v", got.Vector)
	}
}

func TestUndoRecordMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	// HadPrev distinguishes "restore old answer" from "delete the key".
	for _, record := range []UndoRecord{
		{
			Key:        "প্রশ্ন",
			PrevAnswer: "পুরনো উত্তর",
			HadPrev:    true,
			NewAnswer:  "নতুন উত্তর",
			UserID:     "u1",
			Timestamp:  now,
		},
		{
			Key:       "নতুন প্রশ্ন",
			HadPrev:   false,
			NewAnswer: "উত্তর",
			UserID:    "u2",
			Timestamp: now,
		},
	} {
		bs := make([]byte, UndoRecordMUS.Size(record))
		UndoRecordMUS.Marshal(record, bs)

		got, _, err := UndoRecordMUS.Unmarshal(bs)
		if err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if got.Key != record.Key || got.PrevAnswer != record.PrevAnswer ||
			got.HadPrev != record.HadPrev || got.NewAnswer != record.NewAnswer ||
			got.UserID != record.UserID || !got.Timestamp.Equal(record.Timestamp) {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, record)
		}
	}
}

func TestAuditRecordMUSRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := AuditRecord{
		Question:   "প্রশ্ন",
		Answer:     "উত্তর",
		PrevAnswer: "আগের উত্তর",
		Source:     "web_search",
		UserID:     "u1",
		Action:     ActionAutoLearned,
		Timestamp:  now,
	}

	bs := make([]byte, AuditRecordMUS.Size(record))
	AuditRecordMUS.Marshal(record, bs)

	got, _, err := AuditRecordMUS.Unmarshal(bs)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Question != record.Question || got.Answer != record.Answer ||
		got.PrevAnswer != record.PrevAnswer || got.Source != record.Source ||
		got.UserID != record.UserID || got.Action != record.Action ||
		!got.Timestamp.Equal(record.Timestamp) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, record)
	}
}

func TestUnmarshalTruncatedData(t *testing.T) {
	record := KnowledgeEntry{
		Key:        "প্রশ্ন",
		Answer:     "উত্তর",
		LastWriter: "u1",
		WrittenAt:  time.Now().UTC(),
	}
	bs := make([]byte, KnowledgeEntryMUS.Size(record))
	KnowledgeEntryMUS.Marshal(record, bs)

	_, _, err := KnowledgeEntryMUS.Unmarshal(bs[:3])
	if err == nil {
		t.Error("expected error for truncated data, got nil")
	}
}
