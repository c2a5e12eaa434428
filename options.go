package tokengate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caasmo/tokengate/cache"
	"github.com/caasmo/tokengate/cache/ristretto"
	"github.com/caasmo/tokengate/core"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/db/zombiezen"
	"github.com/caasmo/tokengate/migrations"
	"github.com/caasmo/tokengate/router"
	"github.com/caasmo/tokengate/router/httprouter"
	phuslog "github.com/phuslu/log"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Option configures the App during New.
type Option func(*core.App) error

// WithDb sets the application's database implementation. It expects a single
// concrete type that implements db.DbApp.
func WithDb(dbApp db.DbApp) Option {
	return func(app *core.App) error {
		if dbApp == nil {
			return fmt.Errorf("dbApp cannot be nil")
		}
		app.SetDb(dbApp)
		return nil
	}
}

// WithZombiezenPool configures the App to use the zombiezen SQLite
// implementation on an existing pool and applies the embedded schema. The
// caller owns the pool's lifecycle.
func WithZombiezenPool(pool *sqlitex.Pool) Option {
	return func(app *core.App) error {
		if err := zombiezen.ApplySchema(pool, migrations.Schema()); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		dbInstance, err := zombiezen.New(pool)
		if err != nil {
			return fmt.Errorf("failed to initialize zombiezen db: %w", err)
		}
		app.SetDb(dbInstance)
		return nil
	}
}

// WithRouter sets the router implementation.
func WithRouter(r router.Router) Option {
	return func(app *core.App) error {
		app.SetRouter(r)
		return nil
	}
}

// WithRouterHttprouter sets the httprouter-backed router.
func WithRouterHttprouter() Option {
	return func(app *core.App) error {
		app.SetRouter(httprouter.New())
		return nil
	}
}

// WithCache sets the cache implementation.
func WithCache(c cache.Cache[any]) Option {
	return func(app *core.App) error {
		app.SetCache(c)
		return nil
	}
}

// WithCacheRistretto sets a ristretto cache of the given size level
// (ristretto.LevelSmall etc). The cache only holds consumed-token markers,
// so small is plenty for most deployments.
func WithCacheRistretto(level string) Option {
	return func(app *core.App) error {
		c, err := ristretto.New[any](level)
		if err != nil {
			return fmt.Errorf("failed to initialize ristretto cache: %w", err)
		}
		app.SetCache(c)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(app *core.App) error {
		app.SetLogger(l)
		return nil
	}
}

// DefaultLoggerOptions provides default settings for slog handlers.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelInfo,
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) Option {
	return func(app *core.App) error {
		if opts == nil {
			opts = DefaultLoggerOptions
		}
		app.SetLogger(slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts)))
		return nil
	}
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) Option {
	return func(app *core.App) error {
		if opts == nil {
			opts = DefaultLoggerOptions
		}
		app.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, opts)))
		return nil
	}
}
