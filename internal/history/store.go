// Package history keeps a log of finished matches in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Match is one finished game.
type Match struct {
	GameID      string    `json:"game_id"`
	SessionID   string    `json:"-"`
	Outcome     string    `json:"outcome"` // "player" | "bot"
	PlayerShots int       `json:"player_shots"`
	BotShots    int       `json:"bot_shots"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Summary aggregates every recorded match.
type Summary struct {
	Played     int `json:"played"`
	PlayerWins int `json:"player_wins"`
	BotWins    int `json:"bot_wins"`
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store reads and writes the matches table.
type Store struct{ db *sql.DB }

// NewStore wraps a database that already has the matches migration applied.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a finished match. Recording the same game twice is a no-op;
// any other constraint violation (unknown outcome, missing field) is an error.
func (s *Store) Record(ctx context.Context, m Match) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches
		    (game_id, session_id, outcome, player_shots, bot_shots, started_at, finished_at)
		 VALUES (?,?,?,?,?,?,?)
		 ON CONFLICT(game_id) DO NOTHING`,
		m.GameID, m.SessionID, m.Outcome, m.PlayerShots, m.BotShots,
		m.StartedAt.UTC().Format(timeLayout), m.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record match %s: %w", m.GameID, err)
	}
	return nil
}

// Recent returns up to limit matches, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, session_id, outcome, player_shots, bot_shots, started_at, finished_at
		 FROM matches
		 ORDER BY finished_at DESC, game_id ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := make([]Match, 0, limit)
	for rows.Next() {
		var m Match
		var started, finished string
		if err := rows.Scan(&m.GameID, &m.SessionID, &m.Outcome, &m.PlayerShots, &m.BotShots, &started, &finished); err != nil {
			return nil, err
		}
		m.StartedAt = parseTime(started)
		m.FinishedAt = parseTime(finished)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Summary counts matches and wins per side.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
		        COALESCE(SUM(CASE WHEN outcome='player' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome='bot' THEN 1 ELSE 0 END), 0)
		 FROM matches`,
	).Scan(&sum.Played, &sum.PlayerWins, &sum.BotWins)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize matches: %w", err)
	}
	return sum, nil
}

// parseTime parses stored timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
