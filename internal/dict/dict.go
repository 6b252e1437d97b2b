// Package dict is the SQLite-backed phonetic dictionary used by the
// input-method engine for candidate lookup. Besides the static entries it
// keeps a per-user frequency table so committed phrases rank higher on
// later lookups.
package dict

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the dictionary store.
const schema = `
CREATE TABLE IF NOT EXISTS entries (
    code    TEXT NOT NULL,
    phrase  TEXT NOT NULL,
    weight  REAL NOT NULL DEFAULT 0,
    PRIMARY KEY (code, phrase)
);

CREATE INDEX IF NOT EXISTS idx_entries_code ON entries(code);

CREATE TABLE IF NOT EXISTS user_freq (
    code    TEXT NOT NULL,
    phrase  TEXT NOT NULL,
    count   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (code, phrase)
);
`

// userFreqBoost is how much one committed use outranks static weight.
const userFreqBoost = 10.0

// Entry is one static dictionary record.
type Entry struct {
	Code   string
	Phrase string
	Weight float64
}

// Candidate is one lookup result.
type Candidate struct {
	Phrase string
	Code   string
	Score  float64
}

// Store is the SQLite dictionary store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the dictionary database at the given path and
// applies the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create dictionary directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Seed inserts or replaces static entries in one transaction. Used by
// dictionary build tooling and tests.
func (s *Store) Seed(entries []Entry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO entries (code, phrase, weight) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Code, e.Phrase, e.Weight); err != nil {
			return fmt.Errorf("insert %q/%q: %w", e.Code, e.Phrase, err)
		}
	}
	return tx.Commit()
}

// escapeLike escapes LIKE metacharacters so a prefix matches literally.
// Engine codes are plain [a-z0-9], but lookups also arrive from the CLI.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Lookup returns candidates whose code starts with the given prefix,
// ordered by static weight plus learned user frequency. Exact-code
// matches rank before longer-code matches of equal score.
func (s *Store) Lookup(prefix string, limit int) ([]Candidate, error) {
	if prefix == "" {
		return nil, nil
	}
	if limit < 1 {
		limit = 1
	}

	rows, err := s.db.Query(`
		SELECT e.phrase, e.code,
		       e.weight + COALESCE(u.count, 0) * ? AS score
		FROM entries e
		LEFT JOIN user_freq u ON u.code = e.code AND u.phrase = e.phrase
		WHERE e.code LIKE ? || '%' ESCAPE '\'
		ORDER BY (e.code = ?) DESC, score DESC, length(e.code), e.phrase
		LIMIT ?`,
		userFreqBoost, escapeLike(prefix), prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", prefix, err)
	}
	defer rows.Close()

	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.Phrase, &c.Code, &c.Score); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecordUse bumps the user frequency of a committed phrase.
func (s *Store) RecordUse(code, phrase string) error {
	_, err := s.db.Exec(`
		INSERT INTO user_freq (code, phrase, count) VALUES (?, ?, 1)
		ON CONFLICT(code, phrase) DO UPDATE SET count = count + 1`,
		code, phrase)
	if err != nil {
		return fmt.Errorf("record use %q/%q: %w", code, phrase, err)
	}
	return nil
}

// EntryCount returns the number of static entries.
func (s *Store) EntryCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}
