package badger

import (
	"context"
	"testing"
	"time"

	"github.com/banglabot/jiggasa/core"
)

func auditRecord(action core.AuditAction, at time.Time) *core.AuditRecord {
	return &core.AuditRecord{
		Question:  "প্রশ্ন",
		Answer:    "উত্তর",
		UserID:    "u1",
		Action:    action,
		Timestamp: at,
	}
}

func TestAuditAppendAndCount(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	for _, action := range []core.AuditAction{core.ActionLearned, core.ActionUndid, core.ActionAutoLearned} {
		if err := repos.Audit.Append(ctx, auditRecord(action, now)); err != nil {
			t.Fatalf("Failed to append %s record: %v", action, err)
		}
	}

	count, err := repos.Audit.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 records, got %d", count)
	}
}

func TestAuditCountLearnedSince(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)

	if err := repos.Audit.Append(ctx, auditRecord(core.ActionLearned, yesterday)); err != nil {
		t.Fatalf("Failed to append old record: %v", err)
	}
	if err := repos.Audit.Append(ctx, auditRecord(core.ActionLearned, now)); err != nil {
		t.Fatalf("Failed to append new record: %v", err)
	}
	// Only ActionLearned entries participate in the date index.
	if err := repos.Audit.Append(ctx, auditRecord(core.ActionUndid, now)); err != nil {
		t.Fatalf("Failed to append undo record: %v", err)
	}

	total, err := repos.Audit.CountLearnedSince(ctx, yesterday.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountLearnedSince failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 learned records overall, got %d", total)
	}

	recent, err := repos.Audit.CountLearnedSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CountLearnedSince failed: %v", err)
	}
	if recent != 1 {
		t.Errorf("Expected 1 learned record since an hour ago, got %d", recent)
	}
}

func TestAuditAppendRejectsInvalid(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	bad := auditRecord(core.AuditAction(42), time.Now().UTC())
	if err := repos.Audit.Append(context.Background(), bad); err == nil {
		t.Error("Expected validation error for unknown action")
	}
}
