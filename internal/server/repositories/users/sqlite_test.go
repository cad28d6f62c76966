package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), ":memory:", migrations.FS(), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUser(email string, role models.Role) *models.User {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.User{Email: email, PasswordHash: []byte("hash"), Role: role, CreatedAt: now, UpdatedAt: now}
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	u, err := repo.Create(ctx, newUser("a@b.c", models.RoleAdmin))
	require.NoError(t, err)
	require.NotZero(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, models.RoleAdmin, byEmail.Role)
	assert.Equal(t, []byte("hash"), byEmail.PasswordHash)
	assert.True(t, byEmail.CreatedAt.Equal(u.CreatedAt))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", byID.Email)
}

func TestCreate_DefaultRole(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	u, err := repo.Create(ctx, newUser("x@y.z", ""))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.Create(ctx, newUser("dup@x.io", models.RoleUser))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newUser("dup@x.io", models.RoleUser))
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	_, err := repo.GetByEmail(ctx, "nobody@x.io")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = repo.GetByID(ctx, 42)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, e := range []string{"one@x.io", "two@x.io"} {
		_, err := repo.Create(ctx, newUser(e, models.RoleUser))
		require.NoError(t, err)
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "one@x.io", got[0].Email)
	assert.Equal(t, "two@x.io", got[1].Email)
}

func TestClosedDB(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := repo.List(context.Background())
	require.ErrorContains(t, err, "db error")
}
