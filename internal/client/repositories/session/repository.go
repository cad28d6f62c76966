package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func get(ctx context.Context, q dbx.DBTX, name string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM session_values WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get session[%s]: %w", name, err)
	}
	return value, true, nil
}

func put(ctx context.Context, q dbx.DBTX, name, value string, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO session_values (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, name, value, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", name, err)
	}
	return nil
}

// Load returns the persisted token, or "" when none is stored.
func (r *SQLiteRepository) Load(ctx context.Context) (string, error) {
	token, _, err := get(ctx, r.db, common.SessionTokenKey)
	return token, err
}

// SavedAt reports when the current token was written. ok is false when no
// token is stored.
func (r *SQLiteRepository) SavedAt(ctx context.Context) (at time.Time, ok bool, err error) {
	raw, found, err := get(ctx, r.db, common.SessionSavedAtKey)
	if err != nil || !found {
		return time.Time{}, false, err
	}
	at, err = time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse session[%s]: %w", common.SessionSavedAtKey, err)
	}
	return at, true, nil
}

// Save stores token and its timestamp in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, token string) error {
	now := r.now()
	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		if err := put(ctx, tx, common.SessionTokenKey, token, now); err != nil {
			return err
		}
		return put(ctx, tx, common.SessionSavedAtKey, now.UTC().Format(time.RFC3339Nano), now)
	})
}

// Clear removes every session value. Clearing an empty store is not an
// error.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_values`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
