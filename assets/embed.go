// Package assets embeds the SQL migrations applied at startup.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Migrations returns the migration files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		// sql/ is embedded at build time; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
