// Package storage opens the client's local SQLite file and keeps its schema
// current.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations returns the client schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// RunMigrations applies every pending migration. Running it twice is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB, log logging.Logger) error {
	return dbx.Migrate(ctx, db, Migrations(), log)
}

// InitDatabase opens the session database at dsn, creating its directory
// if needed, and migrates it.
func InitDatabase(ctx context.Context, dsn string, log logging.Logger) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}
	return dbx.OpenSQLite(ctx, dsn, Migrations(), log)
}
