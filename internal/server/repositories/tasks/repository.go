// Package tasks stores to-do items in SQLite.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	Update(ctx context.Context, id int64, changes models.TaskChanges, at time.Time) error
	Delete(ctx context.Context, id int64) error
}
