package client

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// Client is the transport contract of the task API. Authenticated calls take
// the bearer token explicitly so the caller decides which session they run in.
type Client interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, email, password string) (*models.RegisterResponse, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)

	ListTasks(ctx context.Context, token string) ([]models.Task, error)
	CreateTask(ctx context.Context, token string, task models.NewTask) (string, error)
	UpdateTask(ctx context.Context, token string, id int64, patch models.TaskPatch) (string, error)
	DeleteTask(ctx context.Context, token string, id int64) (string, error)
}
