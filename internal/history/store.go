// Package history keeps completed analyses in a local SQLite database so they
// can be listed and reopened without calling the backend again.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/f3rmion/pnc/internal/analysis"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no entry matches an id.
var ErrNotFound = errors.New("history entry not found")

// ErrAmbiguous is returned when an id prefix matches several entries.
var ErrAmbiguous = errors.New("history id prefix is ambiguous")

// Entry is one saved analysis.
type Entry struct {
	ID        uuid.UUID
	Text      string
	Raw       json.RawMessage
	Verdict   string
	CreatedAt time.Time
}

// Result normalizes the stored response body.
func (e Entry) Result() (analysis.Result, error) {
	return analysis.Normalize(e.Raw)
}

// Store is a history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS analyses (
		id         TEXT PRIMARY KEY,
		text       TEXT NOT NULL,
		raw        TEXT NOT NULL,
		verdict    TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS analyses_created_at ON analyses (created_at)`,
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores text and the raw response it produced. Bodies that do not
// normalize are refused.
func (s *Store) Save(ctx context.Context, text string, raw json.RawMessage) (Entry, error) {
	res, err := analysis.Normalize(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("refusing to save: %w", err)
	}

	e := Entry{
		ID:        uuid.New(),
		Text:      text,
		Raw:       raw,
		Verdict:   res.Verdict,
		CreatedAt: s.now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, text, raw, verdict, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.Text, string(e.Raw), e.Verdict, e.CreatedAt.UnixNano())
	if err != nil {
		return Entry{}, fmt.Errorf("inserting entry: %w", err)
	}
	return e, nil
}

// List returns up to limit entries, newest first. A limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, raw, verdict, created_at
		FROM analyses
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// Get returns the entry whose id is, or starts with, id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Entry{}, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, raw, verdict, created_at
		FROM analyses
		WHERE substr(id, 1, ?) = ?
		LIMIT 2
	`, len(id), id)
	if err != nil {
		return Entry{}, fmt.Errorf("querying entry: %w", err)
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, fmt.Errorf("iterating entries: %w", err)
	}

	switch len(found) {
	case 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// Delete removes the entry matching id (see Get) and returns it.
func (s *Store) Delete(ctx context.Context, id string) (Entry, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, e.ID.String()); err != nil {
		return Entry{}, fmt.Errorf("deleting entry: %w", err)
	}
	return e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		id, raw string
		created int64
	)
	if err := row.Scan(&id, &e.Text, &raw, &e.Verdict, &created); err != nil {
		return Entry{}, fmt.Errorf("scanning entry: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing entry id %q: %w", id, err)
	}
	e.ID = parsed
	e.Raw = json.RawMessage(raw)
	e.CreatedAt = time.Unix(0, created).UTC()
	return e, nil
}
