package guard

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
)

// stubAPI answers login and current-user; everything else is unused here.
type stubAPI struct{}

func (stubAPI) Login(context.Context, string, string) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "server-token"}, nil
}

func (stubAPI) Register(context.Context, string, string) (*models.RegisterResponse, error) {
	return &models.RegisterResponse{}, nil
}

func (stubAPI) CurrentUser(context.Context, string) (*models.User, error) {
	return &models.User{ID: 1, Email: "a@b.c", Role: models.RoleUser}, nil
}

func (stubAPI) ListTasks(context.Context, string) ([]models.Task, error) { return nil, nil }

func (stubAPI) CreateTask(context.Context, string, models.NewTask) (string, error) { return "", nil }

func (stubAPI) UpdateTask(context.Context, string, int64, models.TaskPatch) (string, error) {
	return "", nil
}

func (stubAPI) DeleteTask(context.Context, string, int64) (string, error) { return "", nil }
