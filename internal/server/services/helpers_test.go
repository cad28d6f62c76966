package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:", migrations.FS(), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newServices(t *testing.T) (*UserService, *TaskService) {
	t.Helper()
	db := setupDB(t)
	m := repomanager.NewSQLiteRepositoryManager()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	us := NewUserService(db, m, cfg, logging.Nop())
	us.hashCost = bcrypt.MinCost
	us.now = func() time.Time { return fixedNow }

	ts := NewTaskService(db, m)
	ts.now = func() time.Time { return fixedNow }
	return us, ts
}

func mustRegister(t *testing.T, us *UserService, email string) *models.User {
	t.Helper()
	u, err := us.Register(context.Background(), email, "password1")
	require.NoError(t, err)
	return u
}
