package core

import (
	"log/slog"

	"github.com/caasmo/tokengate/cache"
	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/router"
)

// App is the application wide context.
// db connections and permanent structs should go here.
//
// All handlers and middleware have App as receiver, so everything a request
// needs is reachable without globals.
type App struct {
	dbAuth         db.DbAuth
	dbQueue        db.DbQueue
	router         router.Router
	cache          cache.Cache[any]
	configProvider *config.Provider
	logger         *slog.Logger
	validator      Validator
}

func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

// SetDb sets the database interfaces for auth and queue from one backend.
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbQueue = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) SetCache(c cache.Cache[any]) {
	a.cache = c
}

func (a *App) Cache() cache.Cache[any] {
	return a.cache
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

func (a *App) SetValidator(v Validator) {
	a.validator = v
}

func (a *App) Validator() Validator {
	return a.validator
}
