package badger

import (
	"context"
	"testing"

	"github.com/banglabot/jiggasa/core"
)

func TestTrustDefaultForUnknownUser(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	score, err := repos.Trust.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if score != core.TrustDefault {
		t.Errorf("Expected default score %d, got %d", core.TrustDefault, score)
	}
}

func TestTrustSetAndGet(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	if err := repos.Trust.Set(ctx, "u1", 75); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repos.Trust.Set(ctx, "u1", 80); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}
	if err := repos.Trust.Set(ctx, "u2", core.TrustMin); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	score, err := repos.Trust.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if score != 80 {
		t.Errorf("Expected score 80, got %d", score)
	}

	score, err = repos.Trust.Get(ctx, "u2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if score != core.TrustMin {
		t.Errorf("Expected score %d, got %d", core.TrustMin, score)
	}
}

func TestTrustCount(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	count, err := repos.Trust.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users, got %d", count)
	}

	for _, user := range []string{"u1", "u2", "u1"} {
		if err := repos.Trust.Set(ctx, user, 60); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	count, err = repos.Trust.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 users, got %d", count)
	}
}
