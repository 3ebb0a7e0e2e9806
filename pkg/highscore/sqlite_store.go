package highscore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Session is one finished game kept in the history table
type Session struct {
	ID      int64     `json:"id"`
	Score   int       `json:"score"`
	EndedAt time.Time `json:"endedAt"`
}

// SQLiteStore keeps the record in a single-row table and appends every
// counted game to game_sessions
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time; the sqlite driver serializes anyway
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			high_score INTEGER NOT NULL DEFAULT 0,
			last_game_score INTEGER NOT NULL DEFAULT 0,
			total_games INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			score INTEGER NOT NULL,
			ended_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			source TEXT PRIMARY KEY,
			imported_at DATETIME NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table (%s): %w", query, err)
		}
	}
	return nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load returns the stored record, or an empty one if nothing was saved yet
func (s *SQLiteStore) Load() (Record, error) {
	return loadRecord(s.db)
}

// Save upserts the record. When the game count went up, the last game
// score is also appended to the session history.
func (s *SQLiteStore) Save(r Record) error {
	return s.save(r, true)
}

// SaveRecord upserts the record without touching the session history
func (s *SQLiteStore) SaveRecord(r Record) error {
	return s.save(r, false)
}

func (s *SQLiteStore) save(r Record, history bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	prev, err := loadRecord(tx)
	if err != nil {
		return err
	}
	if err := upsertRecord(tx, r); err != nil {
		return err
	}

	if history && r.TotalGames > prev.TotalGames {
		if _, err := tx.Exec(
			`INSERT INTO game_sessions (score, ended_at) VALUES (?, ?)`,
			r.LastGameScore, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("failed to record session: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// Import applies merge to the stored record once per source. A source that
// was already imported leaves the record alone and reports false. Imported
// games are counted but never added to the session history.
func (s *SQLiteStore) Import(source string, merge func(current Record) Record) (Record, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT OR IGNORE INTO imports (source, imported_at) VALUES (?, ?)`,
		source, time.Now().UTC(),
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to mark import: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to mark import: %w", err)
	}

	current, err := loadRecord(tx)
	if err != nil {
		return Record{}, false, err
	}
	if n == 0 {
		return current, false, nil
	}

	merged := merge(current)
	if err := upsertRecord(tx, merged); err != nil {
		return Record{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("failed to commit import: %w", err)
	}
	return merged, true, nil
}

// rowQuerier is satisfied by *sql.DB and *sql.Tx
type rowQuerier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func loadRecord(q rowQuerier) (Record, error) {
	var r Record
	err := q.QueryRow(
		`SELECT high_score, last_game_score, total_games FROM high_scores WHERE id = 1`,
	).Scan(&r.HighScore, &r.LastGameScore, &r.TotalGames)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load high scores: %w", err)
	}
	return r, nil
}

func upsertRecord(tx *sql.Tx, r Record) error {
	_, err := tx.Exec(
		`INSERT INTO high_scores (id, high_score, last_game_score, total_games, updated_at)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			high_score = excluded.high_score,
			last_game_score = excluded.last_game_score,
			total_games = excluded.total_games,
			updated_at = excluded.updated_at`,
		r.HighScore, r.LastGameScore, r.TotalGames, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save high scores: %w", err)
	}
	return nil
}

// RecentSessions returns up to limit finished games, newest first
func (s *SQLiteStore) RecentSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, score, ended_at FROM game_sessions ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Score, &sess.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
