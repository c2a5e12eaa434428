package tokengate

import (
	"log/slog"

	"github.com/caasmo/tokengate/cache/ristretto"
	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/core"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/mail"
	"github.com/caasmo/tokengate/queue"
	"github.com/caasmo/tokengate/queue/executor"
	"github.com/caasmo/tokengate/queue/handlers"
	scl "github.com/caasmo/tokengate/queue/scheduler"
	"github.com/caasmo/tokengate/server"
)

// New assembles the application and its server from the config file at
// configPath. Options override the default database, router, cache and
// logger; anything left unset falls back to the defaults in defaultize.
func New(configPath string, opts ...Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	configProvider := config.NewProvider(cfg)

	app := &core.App{}
	app.SetConfigProvider(configProvider)
	app.SetValidator(core.NewValidator())

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, nil, err
		}
	}
	if err := defaultize(app, cfg); err != nil {
		return nil, nil, err
	}

	route(app)

	scheduler, err := SetupScheduler(configProvider, app.DbAuth(), app.DbQueue(), app.Logger())
	if err != nil {
		return nil, nil, err
	}

	reload := func() error {
		fresh, err := config.Load(configPath)
		if err != nil {
			return err
		}
		configProvider.Update(fresh)
		app.Logger().Info("configuration reloaded", "path", configPath)
		return nil
	}

	srv := server.NewServer(configProvider, app.Router(), app.Logger(), reload)
	srv.AddDaemon(scheduler)

	return app, srv, nil
}

// defaultize fills every component the options left unset.
func defaultize(app *core.App, cfg *config.Config) error {
	if app.Logger() == nil {
		if err := WithPhusLogger(nil)(app); err != nil {
			return err
		}
	}
	if app.Router() == nil {
		if err := WithRouterHttprouter()(app); err != nil {
			return err
		}
	}
	if app.Cache() == nil {
		if err := WithCacheRistretto(ristretto.LevelSmall)(app); err != nil {
			return err
		}
	}
	if app.DbAuth() == nil {
		pool, err := NewZombiezenPool(cfg.DBFile)
		if err != nil {
			return err
		}
		if err := WithZombiezenPool(pool)(app); err != nil {
			return err
		}
	}
	return nil
}

// SetupScheduler builds the background job scheduler. The email handlers are
// registered only when SMTP is enabled; without them the queue still accepts
// jobs but the scheduler marks them failed as unhandled types.
func SetupScheduler(configProvider *config.Provider, dbAuth db.DbAuth, dbQueue db.DbQueue, logger *slog.Logger) (*scl.Scheduler, error) {
	hdls := make(map[string]executor.JobHandler)

	cfg := configProvider.Get()
	if cfg.Smtp.Enabled {
		mailer, err := mail.New(configProvider)
		if err != nil {
			return nil, err
		}
		hdls[queue.JobTypeActivationEmail] = handlers.NewActivationEmailHandler(dbAuth, configProvider, mailer)
		hdls[queue.JobTypePasswordResetEmail] = handlers.NewPasswordResetEmailHandler(dbAuth, configProvider, mailer)
	} else {
		logger.Warn("smtp disabled, lifecycle emails will not be dispatched")
	}

	return scl.NewScheduler(configProvider, dbQueue, executor.NewExecutor(hdls), logger), nil
}
