package diary

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrashRetention is how long a trashed entry survives before the lazy sweep
// removes it. Exactly TrashRetention old is retained; older is purged.
const TrashRetention = 30 * 24 * time.Hour

// Hook receives store mutations so an external save-point (e.g. the SQLite
// archive) can mirror them. Hook failures are the hook's problem; the store
// never consults return values.
type Hook interface {
	EntryCommitted(Entry)
	EntryTrashed(Deleted)
	EntryRestored(Entry)
	EntryPurged(Deleted)
}

// Store 进程内的日记集合：活动列表 + 回收站
// Store holds the in-memory active list and trash. Append-only with soft
// delete; all mutations funnel through it. Owned by a single session on one
// goroutine; callers that share a Store across goroutines must add their own
// locking.
type Store struct {
	entries []Entry
	trash   []Deleted
	hook    Hook
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetHook wires an optional save-point collaborator.
func (s *Store) SetHook(h Hook) {
	s.hook = h
}

// Commit appends an entry to the active list. A missing ID is generated and
// a zero Date is stamped with now; both are immutable afterwards. The
// (possibly completed) entry is returned.
func (s *Store) Commit(e Entry) Entry {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	if len(e.Keywords) > MaxGeneratedKeywords {
		e.Keywords = e.Keywords[:MaxGeneratedKeywords]
	}
	if len(e.ActionItems) > MaxActionItems {
		e.ActionItems = e.ActionItems[:MaxActionItems]
	}
	s.entries = append(s.entries, e)
	if s.hook != nil {
		s.hook.EntryCommitted(e)
	}
	return e
}

// Seed replaces the store contents with entries loaded from a save-point.
// Hooks are not fired; the save-point already holds these rows.
func (s *Store) Seed(entries []Entry, trash []Deleted) {
	s.entries = append([]Entry(nil), entries...)
	s.trash = append([]Deleted(nil), trash...)
}

// Entries returns the active list in commit order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Recent returns the active list newest-first, for the history view.
func (s *Store) Recent() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Len returns the number of active entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// Get looks up an active entry by id.
func (s *Store) Get(id string) (Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// SoftDelete moves an active entry to the trash, stamped with now.
func (s *Store) SoftDelete(id string, now time.Time) (Deleted, bool) {
	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		d := Deleted{Entry: e, DeletedAt: now}
		s.trash = append(s.trash, d)
		if s.hook != nil {
			s.hook.EntryTrashed(d)
		}
		return d, true
	}
	return Deleted{}, false
}

// TrashDirect wraps an entry straight into the trash without it ever joining
// the active list. Used by the Discard path of a conversation session.
func (s *Store) TrashDirect(e Entry, now time.Time) Deleted {
	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	d := Deleted{Entry: e, DeletedAt: now}
	s.trash = append(s.trash, d)
	if s.hook != nil {
		s.hook.EntryTrashed(d)
	}
	return d
}

// Trash sweeps expired entries, then returns the remaining trash newest-first.
func (s *Store) Trash(now time.Time) []Deleted {
	s.PurgeExpired(now)
	out := make([]Deleted, 0, len(s.trash))
	for i := len(s.trash) - 1; i >= 0; i-- {
		out = append(out, s.trash[i])
	}
	return out
}

// Restore moves a trashed entry back to the end of the active list. The
// original list position is not recovered.
func (s *Store) Restore(id string) (Entry, bool) {
	for i, d := range s.trash {
		if d.Entry.ID != id {
			continue
		}
		s.trash = append(s.trash[:i], s.trash[i+1:]...)
		s.entries = append(s.entries, d.Entry)
		if s.hook != nil {
			s.hook.EntryRestored(d.Entry)
		}
		return d.Entry, true
	}
	return Entry{}, false
}

// PermanentlyDelete removes a trashed entry irrevocably.
func (s *Store) PermanentlyDelete(id string) bool {
	for i, d := range s.trash {
		if d.Entry.ID != id {
			continue
		}
		s.trash = append(s.trash[:i], s.trash[i+1:]...)
		if s.hook != nil {
			s.hook.EntryPurged(d)
		}
		return true
	}
	return false
}

// PurgeExpired removes every trash entry older than TrashRetention and
// returns how many were removed. Invoked lazily whenever the trash is read;
// there is no background sweep.
func (s *Store) PurgeExpired(now time.Time) int {
	kept := s.trash[:0]
	purged := 0
	for _, d := range s.trash {
		if now.Sub(d.DeletedAt) > TrashRetention {
			purged++
			if s.hook != nil {
				s.hook.EntryPurged(d)
			}
			continue
		}
		kept = append(kept, d)
	}
	s.trash = kept
	return purged
}
