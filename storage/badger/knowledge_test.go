package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/banglabot/jiggasa/core"
	"github.com/banglabot/jiggasa/storage"
)

func TestKnowledgeBasics(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	entry := &core.KnowledgeEntry{
		Key:        "বাংলাদেশের রাজধানী কি?",
		Answer:     "ঢাকা",
		LastWriter: "u1",
		WrittenAt:  time.Now().UTC(),
	}

	if err := repos.Knowledge.Put(ctx, entry); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	got, err := repos.Knowledge.Get(ctx, entry.Key)
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got.Answer != "ঢাকা" {
		t.Errorf("Expected 'ঢাকা', got '%s'", got.Answer)
	}
	if got.LastWriter != "u1" {
		t.Errorf("Expected writer 'u1', got '%s'", got.LastWriter)
	}

	exists, err := repos.Knowledge.Exists(ctx, entry.Key)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected entry to exist")
	}
}

func TestKnowledgeOverwrite(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	first := &core.KnowledgeEntry{Key: "প্রশ্ন", Answer: "পুরনো", LastWriter: "u1", WrittenAt: now}
	second := &core.KnowledgeEntry{Key: "প্রশ্ন", Answer: "নতুন", LastWriter: "u2", WrittenAt: now}

	if err := repos.Knowledge.Put(ctx, first); err != nil {
		t.Fatalf("Failed to put first entry: %v", err)
	}
	if err := repos.Knowledge.Put(ctx, second); err != nil {
		t.Fatalf("Failed to put second entry: %v", err)
	}

	got, err := repos.Knowledge.Get(ctx, "প্রশ্ন")
	if err != nil {
		t.Fatalf("Failed to get entry: %v", err)
	}
	if got.Answer != "নতুন" {
		t.Errorf("Expected overwrite to win, got '%s'", got.Answer)
	}

	count, err := repos.Knowledge.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 entry after overwrite, got %d", count)
	}
}

func TestKnowledgeGetMissing(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	_, err = repos.Knowledge.Get(context.Background(), "অজানা")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestKnowledgeDelete(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	entry := &core.KnowledgeEntry{Key: "প্রশ্ন", Answer: "উত্তর", WrittenAt: time.Now().UTC()}
	if err := repos.Knowledge.Put(ctx, entry); err != nil {
		t.Fatalf("Failed to put entry: %v", err)
	}

	if err := repos.Knowledge.Delete(ctx, "প্রশ্ন"); err != nil {
		t.Fatalf("Failed to delete entry: %v", err)
	}

	exists, err := repos.Knowledge.Exists(ctx, "প্রশ্ন")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("Expected entry to be gone")
	}

	if err := repos.Knowledge.Delete(ctx, "প্রশ্ন"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted key, got %v", err)
	}
}

func TestKnowledgePutRejectsInvalid(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	bad := &core.KnowledgeEntry{Key: "  Not Normalized  ", Answer: "উত্তর", WrittenAt: time.Now().UTC()}
	if err := repos.Knowledge.Put(context.Background(), bad); err == nil {
		t.Error("Expected validation error for unnormalized key")
	}
}
