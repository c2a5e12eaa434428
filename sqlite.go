package tokengate

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite/sqlitex"
)

// NewZombiezenPool creates a SQLite connection pool with defaults suitable
// for this application (WAL mode, read-write-create). If other parts of the
// program access the same database, pass this single pool around; a second
// pool on the same file invites SQLITE_BUSY errors.
func NewZombiezenPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite pool at %s: %w", dbPath, err)
	}
	return pool, nil
}
