package zombiezen

import (
	"context"
	"fmt"
	"io/fs"

	"zombiezen.com/go/sqlite/sqlitex"
)

// ApplySchema executes every .sql file of the given filesystem against the
// pool, in lexical order. The schema files are written to be idempotent
// (CREATE TABLE IF NOT EXISTS), so this runs on every startup.
func ApplySchema(pool *sqlitex.Pool, schema fs.FS) error {
	conn, err := pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer pool.Put(conn)

	entries, err := fs.Glob(schema, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list schema files: %w", err)
	}

	for _, name := range entries {
		script, err := fs.ReadFile(schema, name)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", name, err)
		}
		if err := sqlitex.ExecuteScript(conn, string(script), nil); err != nil {
			return fmt.Errorf("failed to apply schema file %s: %w", name, err)
		}
	}

	return nil
}
