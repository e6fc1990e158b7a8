package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
)

func pushUndo(t *testing.T, repo storage.UndoRepository, key string) {
	t.Helper()
	err := repo.Push(context.Background(), &core.UndoRecord{
		Key:       key,
		NewAnswer: "উত্তর",
		UserID:    "u1",
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to push undo record: %v", err)
	}
}

func TestUndoPushPopOrder(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	pushUndo(t, repos.Undo, "প্রথম")
	pushUndo(t, repos.Undo, "দ্বিতীয়")
	pushUndo(t, repos.Undo, "তৃতীয়")

	// LIFO: most recent first.
	for _, want := range []string{"তৃতীয়", "দ্বিতীয়", "প্রথম"} {
		record, err := repos.Undo.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if record.Key != want {
			t.Errorf("Expected key '%s', got '%s'", want, record.Key)
		}
	}

	if _, err := repos.Undo.Pop(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on empty buffer, got %v", err)
	}
}

func TestUndoCapacityEviction(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	repo, err := NewUndoRepository(backend, 3)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		pushUndo(t, repo, fmt.Sprintf("key-%d", i))
	}

	length, err := repo.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if length != 3 {
		t.Fatalf("Expected buffer capped at 3, got %d", length)
	}

	// The two oldest entries were evicted silently.
	for _, want := range []string{"key-5", "key-4", "key-3"} {
		record, err := repo.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if record.Key != want {
			t.Errorf("Expected key '%s', got '%s'", want, record.Key)
		}
	}
}

func TestUndoPreservesPrevAnswer(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	record := &core.UndoRecord{
		Key:        "প্রশ্ন",
		PrevAnswer: "পুরনো উত্তর",
		HadPrev:    true,
		NewAnswer:  "নতুন উত্তর",
		UserID:     "u1",
		Timestamp:  time.Now().UTC(),
	}
	if err := repos.Undo.Push(ctx, record); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	got, err := repos.Undo.Pop(ctx)
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if !got.HadPrev || got.PrevAnswer != "পুরনো উত্তর" {
		t.Errorf("Expected prior answer preserved, got %+v", got)
	}
}
