package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService scopes task access by role: admins see and change every task,
// users only their own. Tasks owned by someone else look absent to a user.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m, now: time.Now}
}

func (s *TaskService) List(ctx context.Context, user *models.User) ([]models.Task, error) {
	repo := s.repomanager.Tasks(s.db)
	if user.Role == models.RoleAdmin {
		return repo.ListAll(ctx)
	}
	return repo.ListByUser(ctx, user.ID)
}

func (s *TaskService) Create(ctx context.Context, user *models.User, title, description string, status *models.TaskStatus) (*models.Task, error) {
	var v validator
	v.check(title != "", "title", "Shorter than minimum length 1.")
	v.check(description != "", "description", "Shorter than minimum length 1.")
	checkStatus(&v, status)
	if err := v.err(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      models.StatusCreated,
		UserID:      user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status != nil {
		task.Status = *status
	}

	t, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return t, nil
}

// Update applies a partial change. Fields that are present must be valid.
func (s *TaskService) Update(ctx context.Context, user *models.User, id int64, changes models.TaskChanges) error {
	var v validator
	if changes.Title != nil {
		v.check(*changes.Title != "", "title", "Shorter than minimum length 1.")
	}
	if changes.Description != nil {
		v.check(*changes.Description != "", "description", "Shorter than minimum length 1.")
	}
	checkStatus(&v, changes.Status)
	if err := v.err(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)
		if err := s.authorize(ctx, repo.Get, user, id); err != nil {
			return err
		}
		return repo.Update(ctx, id, changes, s.now().UTC())
	})
}

func (s *TaskService) Delete(ctx context.Context, user *models.User, id int64) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)
		if err := s.authorize(ctx, repo.Get, user, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

func (s *TaskService) authorize(ctx context.Context, get func(context.Context, int64) (*models.Task, error), user *models.User, id int64) error {
	task, err := get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.RoleAdmin && task.UserID != user.ID {
		return common.ErrNotFound
	}
	return nil
}

func checkStatus(v *validator, status *models.TaskStatus) {
	if status == nil {
		return
	}
	v.check(status.Valid(), "status", "Must be one of: created, pending, in_progress, completed.")
}
