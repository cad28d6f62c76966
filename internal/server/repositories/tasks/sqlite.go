package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectTask = `
	SELECT t.id, t.title, t.description, t.status, t.user_id, u.email, t.created_at, t.updated_at
	FROM tasks t JOIN users u ON u.id = t.user_id`

func (r *SQLiteRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusCreated
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tasks (title, description, status, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		task.Title, task.Description, string(task.Status), task.UserID,
		dbx.FormatTime(task.CreatedAt), dbx.FormatTime(task.UpdatedAt),
	).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTask+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	return r.list(ctx, selectTask+` WHERE t.user_id = ? ORDER BY t.id`, userID)
}

// ListAll returns every user's tasks with OwnerEmail set.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Task, error) {
	return r.list(ctx, selectTask+` ORDER BY t.id`)
}

// Update applies the non-nil fields of changes and bumps updated_at.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, changes models.TaskChanges, at time.Time) error {
	sets := []string{"updated_at = ?"}
	args := []any{dbx.FormatTime(at)}

	if changes.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *changes.Title)
	}
	if changes.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *changes.Description)
	}
	if changes.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*changes.Status))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t                models.Task
		status           string
		created, updated string
	)
	err := s.Scan(&t.ID, &t.Title, &t.Description, &status, &t.UserID, &t.OwnerEmail, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	t.Status = models.TaskStatus(status)

	if t.CreatedAt, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}
