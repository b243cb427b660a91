package archive

import (
	"path/filepath"
	"testing"
	"time"

	"moodiary/internal/chat"
	"moodiary/internal/diary"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "diary.db")
	a, err := New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func testEntry(id string) diary.Entry {
	return diary.Entry{
		ID:      id,
		Date:    time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC),
		Mood:    diary.MoodBad,
		Text:    "long day",
		Summary: "A tiring day at work.",
		Messages: []chat.Message{
			chat.User("long day"),
			chat.Assistant("That sounds exhausting."),
		},
		Keywords:    []string{"#tired", "#work"},
		ActionItems: []string{"Get an early night."},
	}
}

func TestArchive_CommitAndLoad(t *testing.T) {
	a := newTestArchive(t)

	a.EntryCommitted(testEntry("e1"))
	a.EntryCommitted(testEntry("e2"))

	entries, trash, err := a.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 2 || len(trash) != 0 {
		t.Fatalf("got %d entries, %d trashed, want 2/0", len(entries), len(trash))
	}
	got := entries[0]
	if got.ID != "e1" || got.Mood != diary.MoodBad || got.Summary != "A tiring day at work." {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[1].Role != chat.RoleAssistant {
		t.Fatalf("messages not preserved: %+v", got.Messages)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "#tired" {
		t.Fatalf("keywords not preserved: %v", got.Keywords)
	}
	if !got.Date.Equal(time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)) {
		t.Fatalf("date not preserved: %v", got.Date)
	}
}

func TestArchive_TrashRestorePurge(t *testing.T) {
	a := newTestArchive(t)
	e := testEntry("e1")
	deletedAt := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

	a.EntryCommitted(e)
	a.EntryTrashed(diary.Deleted{Entry: e, DeletedAt: deletedAt})

	entries, trash, err := a.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 || len(trash) != 1 {
		t.Fatalf("got %d entries, %d trashed, want 0/1", len(entries), len(trash))
	}
	if !trash[0].DeletedAt.Equal(deletedAt) {
		t.Fatalf("DeletedAt=%v, want %v", trash[0].DeletedAt, deletedAt)
	}

	a.EntryRestored(e)
	entries, trash, _ = a.Load()
	if len(entries) != 1 || len(trash) != 0 {
		t.Fatalf("after restore: %d entries, %d trashed, want 1/0", len(entries), len(trash))
	}

	a.EntryTrashed(diary.Deleted{Entry: e, DeletedAt: deletedAt})
	a.EntryPurged(diary.Deleted{Entry: e, DeletedAt: deletedAt})
	entries, trash, _ = a.Load()
	if len(entries) != 0 || len(trash) != 0 {
		t.Fatalf("after purge: %d entries, %d trashed, want 0/0", len(entries), len(trash))
	}
}

func TestArchive_DiscardNeverActive(t *testing.T) {
	a := newTestArchive(t)
	e := testEntry("e1")

	// Discard path: the entry is trashed without ever being committed.
	a.EntryTrashed(diary.Deleted{Entry: e, DeletedAt: time.Now()})

	entries, trash, err := a.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) != 0 || len(trash) != 1 {
		t.Fatalf("got %d entries, %d trashed, want 0/1", len(entries), len(trash))
	}
}

func TestArchive_SeedsStore(t *testing.T) {
	a := newTestArchive(t)
	a.EntryCommitted(testEntry("e1"))
	a.EntryCommitted(testEntry("e2"))

	entries, trash, err := a.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := diary.NewStore()
	store.Seed(entries, trash)
	if store.Len() != 2 {
		t.Fatalf("Len=%d after seed, want 2", store.Len())
	}
	if _, ok := store.Get("e2"); !ok {
		t.Fatalf("seeded entry e2 not found")
	}
}
