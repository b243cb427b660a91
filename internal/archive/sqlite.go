// Package archive mirrors the in-memory diary store into SQLite so entries
// survive restarts. The store stays the source of truth at runtime; the
// archive replays mutations through the diary.Hook interface and is read
// back only once, at startup.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moodiary/internal/chat"
	"moodiary/internal/diary"

	_ "modernc.org/sqlite"
)

const (
	statusActive  = "active"
	statusTrashed = "trashed"
)

// Archive 基于 SQLite (WAL 模式) 的日记存档
// Archive persists diary entries using SQLite with WAL mode.
type Archive struct {
	db   *sql.DB
	path string
}

// New creates and initializes the archive database at dbPath.
func New(dbPath string) (*Archive, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("archive db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// 启用 WAL 模式和优化 PRAGMA / Enable WAL and performance PRAGMAs
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	a := &Archive{db: db, path: dbPath}
	if err := a.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return a, nil
}

func (a *Archive) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id           TEXT PRIMARY KEY,
		date         TEXT NOT NULL,
		mood         TEXT NOT NULL DEFAULT '',
		emotion      TEXT NOT NULL DEFAULT '',
		body         TEXT NOT NULL DEFAULT '',
		messages     TEXT NOT NULL DEFAULT '[]',
		summary      TEXT NOT NULL DEFAULT '',
		keywords     TEXT NOT NULL DEFAULT '[]',
		action_items TEXT NOT NULL DEFAULT '[]',
		status       TEXT NOT NULL DEFAULT 'active',
		deleted_at   TEXT NOT NULL DEFAULT '',
		updated_at   TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_status ON entries(status);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Close 关闭数据库连接 / Close the database connection
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// EntryCommitted upserts an active entry. Restores also funnel through the
// upsert so a restored entry loses its trash status.
func (a *Archive) EntryCommitted(e diary.Entry) {
	a.upsert(e, statusActive, "")
}

// EntryTrashed marks an entry as trashed, inserting it first if the entry
// never reached the active list (the discard path).
func (a *Archive) EntryTrashed(d diary.Deleted) {
	a.upsert(d.Entry, statusTrashed, d.DeletedAt.UTC().Format(time.RFC3339))
}

// EntryRestored flips a trashed entry back to active.
func (a *Archive) EntryRestored(e diary.Entry) {
	a.upsert(e, statusActive, "")
}

// EntryPurged removes the row for good.
func (a *Archive) EntryPurged(d diary.Deleted) {
	_, _ = a.db.Exec(`DELETE FROM entries WHERE id=?`, d.Entry.ID)
}

func (a *Archive) upsert(e diary.Entry, status, deletedAt string) {
	messages, _ := json.Marshal(e.Messages)
	keywords, _ := json.Marshal(e.Keywords)
	actions, _ := json.Marshal(e.ActionItems)
	_, _ = a.db.Exec(`
		INSERT INTO entries (id, date, mood, emotion, body, messages, summary, keywords, action_items, status, deleted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date, mood=excluded.mood, emotion=excluded.emotion,
			body=excluded.body, messages=excluded.messages, summary=excluded.summary,
			keywords=excluded.keywords, action_items=excluded.action_items,
			status=excluded.status, deleted_at=excluded.deleted_at,
			updated_at=excluded.updated_at`,
		e.ID, e.Date.UTC().Format(time.RFC3339), string(e.Mood), string(e.Emotion),
		e.Text, string(messages), e.Summary, string(keywords), string(actions),
		status, deletedAt, nowUTC(),
	)
}

// Load reads every archived row back, active entries in insertion order and
// trashed entries with their deletion timestamps. Rows that fail to decode
// are skipped rather than blocking startup.
func (a *Archive) Load() ([]diary.Entry, []diary.Deleted, error) {
	rows, err := a.db.Query(`
		SELECT id, date, mood, emotion, body, messages, summary, keywords, action_items, status, deleted_at
		FROM entries ORDER BY rowid`)
	if err != nil {
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []diary.Entry
	var trash []diary.Deleted
	for rows.Next() {
		var e diary.Entry
		var date, mood, emotion, messages, keywords, actions, status, deletedAt string
		if err := rows.Scan(&e.ID, &date, &mood, &emotion, &e.Text, &messages,
			&e.Summary, &keywords, &actions, &status, &deletedAt); err != nil {
			continue
		}
		e.Date, _ = time.Parse(time.RFC3339, date)
		e.Mood = diary.Mood(mood)
		e.Emotion = diary.Emotion(emotion)
		_ = json.Unmarshal([]byte(messages), &e.Messages)
		_ = json.Unmarshal([]byte(keywords), &e.Keywords)
		_ = json.Unmarshal([]byte(actions), &e.ActionItems)
		if e.Messages == nil {
			e.Messages = []chat.Message{}
		}

		if status == statusTrashed {
			at, _ := time.Parse(time.RFC3339, deletedAt)
			trash = append(trash, diary.Deleted{Entry: e, DeletedAt: at})
			continue
		}
		entries = append(entries, e)
	}
	return entries, trash, rows.Err()
}

func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
