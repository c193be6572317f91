package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/revint/internal/db"
)

// SQLiteStore keeps the token in the sessions table and appends a row to
// session_events for every save and clear.
type SQLiteStore struct {
	db  db.DBTX
	uow db.UnitOfWork
	now func() time.Time
}

func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:  database,
		uow: db.NewSQLiteUnitOfWork(database),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE name = ?`, TokenName,
	).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Save(ctx context.Context, token string) error {
	ts := s.now().Format(time.RFC3339)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (name, token, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
			TokenName, token, ts,
		)
		if err != nil {
			return fmt.Errorf("saving session token: %w", err)
		}
		return recordEvent(ctx, tx, "saved", ReasonLogin, ts)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context, reason Reason) error {
	ts := s.now().Format(time.RFC3339)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, TokenName)
		if err != nil {
			return fmt.Errorf("clearing session token: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return recordEvent(ctx, tx, "cleared", reason, ts)
	})
}

// LastLogin returns when the current token was saved, or nil when there is
// no session.
func (s *SQLiteStore) LastLogin(ctx context.Context) (*time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM sessions WHERE name = ?`, TokenName,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session timestamp: %w", err)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing session timestamp %q: %w", raw, err)
	}
	return &t, nil
}

// Event is one entry of the local login/logout history.
type Event struct {
	Kind      string
	Reason    Reason
	CreatedAt time.Time
}

// History returns the most recent events, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, reason, created_at FROM session_events WHERE name = ? ORDER BY id DESC LIMIT ?`,
		TokenName, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing session events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var kind, reason, raw string
		if err := rows.Scan(&kind, &reason, &raw); err != nil {
			return nil, fmt.Errorf("scanning session event: %w", err)
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("parsing event timestamp %q: %w", raw, err)
		}
		events = append(events, Event{Kind: kind, Reason: Reason(reason), CreatedAt: t})
	}
	return events, rows.Err()
}

func recordEvent(ctx context.Context, tx db.DBTX, kind string, reason Reason, ts string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO session_events (name, kind, reason, created_at) VALUES (?, ?, ?, ?)`,
		TokenName, kind, string(reason), ts,
	)
	if err != nil {
		return fmt.Errorf("recording session event: %w", err)
	}
	return nil
}
