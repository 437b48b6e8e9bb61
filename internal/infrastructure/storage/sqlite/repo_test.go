package sqlite

import (
	"context"
	"os"
	"testing"
)

func TestSQLiteRepoInsertEvent(t *testing.T) {
	dbPath := "test_events.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	err = repo.InsertEvent(ctx, 1234567890, "TradeClosed", `{"id":42}`)
	if err != nil {
		t.Fatalf("InsertEvent failed: %v", err)
	}

	events, err := repo.ListEvents(ctx, "TradeClosed", 10)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 || events[0] != `{"id":42}` {
		t.Errorf("expected stored payload, got %v", events)
	}
}

func TestSQLiteRepoInsertSubmission(t *testing.T) {
	dbPath := "test_submissions.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	err = repo.InsertSubmission(ctx, "sub-1", "open", "BTC", "submitted", "")
	if err != nil {
		t.Fatalf("InsertSubmission failed: %v", err)
	}

	// same id updates status instead of erroring
	err = repo.InsertSubmission(ctx, "sub-1", "open", "BTC", "failed", "execution reverted")
	if err != nil {
		t.Fatalf("InsertSubmission upsert failed: %v", err)
	}
}

func TestSQLiteRepoListEventsFiltersByName(t *testing.T) {
	dbPath := "test_filter.db"
	defer os.Remove(dbPath)

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	_ = repo.InsertEvent(ctx, 1, "PositionOpened", `{"id":1}`)
	_ = repo.InsertEvent(ctx, 2, "TradeClosed", `{"id":2}`)
	_ = repo.InsertEvent(ctx, 3, "PositionOpened", `{"id":3}`)

	events, err := repo.ListEvents(ctx, "PositionOpened", 10)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
	}
}
