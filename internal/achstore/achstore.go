// Package achstore is a local SQLite achievement store. It stands in for the
// game client's record store so that schedules can be planned and run from
// the command line.
package achstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samsched/samsched/internal/clock"
	_ "modernc.org/sqlite"
)

var (
	ErrMissingGame = errors.New("game id is required")
	ErrMissingID   = errors.New("achievement id is required")
)

const schema = `
CREATE TABLE IF NOT EXISTS achievements (
	game_id        TEXT    NOT NULL,
	id             TEXT    NOT NULL,
	name           TEXT    NOT NULL DEFAULT '',
	achieved       INTEGER NOT NULL DEFAULT 0,
	unlock_time    INTEGER NOT NULL DEFAULT 0,
	global_percent REAL,
	protected      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (game_id, id)
)`

// Achievement is one row of the store.
type Achievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Achieved bool   `json:"achieved"`
	// UnlockTime is a Unix timestamp, zero while locked.
	UnlockTime int64 `json:"unlock_time"`
	// GlobalPercent is nil when the rarity is unknown.
	GlobalPercent *float64 `json:"global_percent"`
	Protected     bool     `json:"protected"`
}

// Store holds the achievements of one game.
type Store struct {
	db     *sql.DB
	gameID string
	clock  clock.Clock
}

// Open opens (creating if needed) the database at path, scoped to gameID.
func Open(path, gameID string) (*Store, error) {
	if gameID == "" {
		return nil, ErrMissingGame
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error: cannot create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("error: cannot open achievement database: %w", err)
	}
	// A single connection keeps writes serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error: cannot create achievement table: %w", err)
	}
	return &Store{db: db, gameID: gameID, clock: clock.NewRealClock()}, nil
}

// SetClock replaces the clock used to stamp unlock times.
func (s *Store) SetClock(c clock.Clock) { s.clock = c }

// GameID returns the game the store is scoped to.
func (s *Store) GameID() string { return s.gameID }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// GetAchievement reports the unlock state of id. ok is false when id does
// not exist or the query fails.
func (s *Store) GetAchievement(id string) (achieved bool, unlockUnixTime int64, ok bool) {
	var a int
	err := s.db.QueryRow(
		`SELECT achieved, unlock_time FROM achievements WHERE game_id = ? AND id = ?`,
		s.gameID, id,
	).Scan(&a, &unlockUnixTime)
	if err != nil {
		return false, 0, false
	}
	return a != 0, unlockUnixTime, true
}

// SetAchievement sets the unlock state of id. Unlocking stamps the current
// time; locking clears it. It reports false when id does not exist.
func (s *Store) SetAchievement(id string, achieved bool) bool {
	var unlock int64
	if achieved {
		unlock = s.clock.Now().Unix()
	}
	res, err := s.db.Exec(
		`UPDATE achievements SET achieved = ?, unlock_time = ? WHERE game_id = ? AND id = ?`,
		boolInt(achieved), unlock, s.gameID, id,
	)
	if err != nil {
		return false
	}
	n, err := res.RowsAffected()
	return err == nil && n == 1
}

// GetGlobalPercent returns the global unlock rate of id. ok is false when id
// does not exist or its rarity is unknown.
func (s *Store) GetGlobalPercent(id string) (percent float32, ok bool) {
	var p sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT global_percent FROM achievements WHERE game_id = ? AND id = ?`,
		s.gameID, id,
	).Scan(&p)
	if err != nil || !p.Valid {
		return 0, false
	}
	return float32(p.Float64), true
}

// List returns every achievement of the game ordered by id.
func (s *Store) List() ([]Achievement, error) {
	rows, err := s.db.Query(`
		SELECT id, name, achieved, unlock_time, global_percent, protected
		FROM achievements
		WHERE game_id = ?
		ORDER BY id ASC
	`, s.gameID)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query achievements: %w", err)
	}
	defer rows.Close()

	var out []Achievement
	for rows.Next() {
		var (
			a                   Achievement
			achieved, protected int
			pct                 sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.Name, &achieved, &a.UnlockTime, &pct, &protected); err != nil {
			return nil, fmt.Errorf("error: failed to scan achievement row: %w", err)
		}
		a.Achieved = achieved != 0
		a.Protected = protected != 0
		if pct.Valid {
			v := pct.Float64
			a.GlobalPercent = &v
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate achievement rows: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces achievements in one transaction.
func (s *Store) Upsert(items ...Achievement) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error: cannot begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO achievements (game_id, id, name, achieved, unlock_time, global_percent, protected)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id, id) DO UPDATE SET
			name = excluded.name,
			achieved = excluded.achieved,
			unlock_time = excluded.unlock_time,
			global_percent = excluded.global_percent,
			protected = excluded.protected
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error: cannot prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, a := range items {
		if a.ID == "" {
			tx.Rollback()
			return ErrMissingID
		}
		var pct sql.NullFloat64
		if a.GlobalPercent != nil {
			pct = sql.NullFloat64{Float64: *a.GlobalPercent, Valid: true}
		}
		unlock := a.UnlockTime
		if !a.Achieved {
			unlock = 0
		}
		if _, err := stmt.Exec(s.gameID, a.ID, a.Name, boolInt(a.Achieved), unlock, pct, boolInt(a.Protected)); err != nil {
			tx.Rollback()
			return fmt.Errorf("error: cannot store achievement %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error: cannot commit achievements: %w", err)
	}
	return nil
}

// Import reads a JSON array of achievements from r and upserts them. It
// returns the number of achievements imported.
func (s *Store) Import(r io.Reader) (int, error) {
	var items []Achievement
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return 0, fmt.Errorf("error: invalid achievement file: %w", err)
	}
	if err := s.Upsert(items...); err != nil {
		return 0, err
	}
	return len(items), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
