// Package history persists completed ping and traceroute session summaries
// to a local SQLite database so repeated runs against the same host can be
// compared over time. It is pure domain-stack plumbing: neither engine
// depends on it, and a Store failing to open never blocks a probe session.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed session's summary, keyed by the UUID the caller
// assigned the run.
type Record struct {
	SessionID string
	Kind      string // "ping" or "traceroute"
	Host      string
	StartedAt time.Time
	Sent      int
	Received  int
	LossPct   float64
	MinRTT    time.Duration
	MaxRTT    time.Duration
	AvgRTT    time.Duration
}

// Store wraps a SQLite-backed session_history table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %q: %w", path, err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS session_history (
			session_id  TEXT PRIMARY KEY,
			kind        TEXT NOT NULL,
			host        TEXT NOT NULL,
			started_at  INTEGER NOT NULL,
			sent        INTEGER NOT NULL,
			received    INTEGER NOT NULL,
			loss_pct    REAL NOT NULL,
			min_rtt_ms  REAL NOT NULL,
			max_rtt_ms  REAL NOT NULL,
			avg_rtt_ms  REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_session_history_host ON session_history(host);
	`)
	if err != nil {
		return fmt.Errorf("history: init schema: %w", err)
	}
	return nil
}

// Insert records a completed session summary.
func (s *Store) Insert(r Record) error {
	_, err := s.db.Exec(`
		INSERT INTO session_history
			(session_id, kind, host, started_at, sent, received, loss_pct, min_rtt_ms, max_rtt_ms, avg_rtt_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Kind, r.Host, r.StartedAt.Unix(), r.Sent, r.Received, r.LossPct,
		msOf(r.MinRTT), msOf(r.MaxRTT), msOf(r.AvgRTT),
	)
	if err != nil {
		return fmt.Errorf("history: insert %s: %w", r.SessionID, err)
	}
	return nil
}

// Recent returns the most recent limit records for host, newest first. An
// empty host returns the most recent records across every host.
func (s *Store) Recent(host string, limit int) ([]Record, error) {
	query := `SELECT session_id, kind, host, started_at, sent, received, loss_pct, min_rtt_ms, max_rtt_ms, avg_rtt_ms
		FROM session_history`
	args := []any{}
	if host != "" {
		query += ` WHERE host = ?`
		args = append(args, host)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var startedAt int64
		var minMs, maxMs, avgMs float64
		if err := rows.Scan(&r.SessionID, &r.Kind, &r.Host, &startedAt,
			&r.Sent, &r.Received, &r.LossPct, &minMs, &maxMs, &avgMs); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		r.StartedAt = time.Unix(startedAt, 0)
		r.MinRTT = time.Duration(minMs * float64(time.Millisecond))
		r.MaxRTT = time.Duration(maxMs * float64(time.Millisecond))
		r.AvgRTT = time.Duration(avgMs * float64(time.Millisecond))
		out = append(out, r)
	}
	return out, rows.Err()
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
