// Package migrations embeds the SQL schema migrations and registers them
// with the database layer. Importing this package for side effects is
// enough to make database.Migrate find the files.
package migrations

import (
	"embed"
	"io/fs"

	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = fs.FS(files)
}
