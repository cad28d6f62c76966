// Package migrations embeds the server schema.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var embedded embed.FS

// FS returns the migration files at the root of the filesystem.
func FS() fs.FS {
	return embedded
}
