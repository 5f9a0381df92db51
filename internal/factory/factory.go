package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mveld/empadmin/internal/config"
	"github.com/mveld/empadmin/internal/console"
	"github.com/mveld/empadmin/internal/dependencies/clock"
	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/rcon"
	"github.com/mveld/empadmin/internal/services/actions"
	"github.com/mveld/empadmin/internal/services/auth"
	"github.com/mveld/empadmin/internal/services/dispatch"
	"github.com/mveld/empadmin/internal/services/monitor"
	"github.com/mveld/empadmin/internal/services/registry"
	"github.com/mveld/empadmin/internal/services/schedule"
	"github.com/mveld/empadmin/internal/services/servercontrol"
	"github.com/mveld/empadmin/internal/storage"
	"github.com/mveld/empadmin/internal/storage/memory"
	redisstorage "github.com/mveld/empadmin/internal/storage/redis"
	sqlitestorage "github.com/mveld/empadmin/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	Storage storage.Store
	Clock   clock.Clock

	ConsoleLog *console.Log
	Session    monitor.Session
	Hub        *events.Hub

	Registry   *registry.Controller
	Actions    *actions.Controller
	Dispatcher *dispatch.Controller
	Scheduler  *schedule.Controller
	Monitor    *monitor.Monitor
	Auth       *auth.Service

	// ServerControl is nil when no container is configured
	ServerControl *servercontrol.Controller
}

// Options adjusts how the app is wired. The zero value is production wiring.
type Options struct {
	// Logger is the application logger (optional). If nil, a no-op logger
	// is used.
	Logger *slog.Logger
	// Clock overrides the wall clock (used in tests)
	Clock clock.Clock
	// Session overrides the console session (used in tests)
	Session monitor.Session
	// DisableServerControl skips the docker client even when a container
	// name is configured
	DisableServerControl bool
}

// New creates a new application with all dependencies wired from config
func New(cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	consoleLog := console.NewLog(clk)

	session := opts.Session
	if session == nil {
		session = rcon.NewClient(rcon.Config{
			Host:     cfg.RCONHost,
			Port:     cfg.RCONPort,
			Password: cfg.RCONPass,
			Timeout:  cfg.RCONTimeout,
		}, logger, consoleLog)
	}

	hub := events.NewHub(logger, clk)
	actionsController := actions.NewController(session, logger)
	registryController := registry.NewController(store, logger)
	dispatcher := dispatch.NewController(dispatch.Config{
		WelcomeTemplate: cfg.WelcomeTemplate,
		GoodbyeTemplate: cfg.GoodbyeTemplate,
	}, actionsController, hub, logger)
	scheduler := schedule.NewController(cfg.Slots, actionsController, store, hub, logger)
	mon := monitor.New(session, registryController, dispatcher, scheduler,
		store, hub, clk, cfg.PollInterval, logger)

	authService, err := auth.New(clk, auth.Config{AdminPassword: cfg.AdminPassword})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	app := &App{
		Storage:    store,
		Clock:      clk,
		ConsoleLog: consoleLog,
		Session:    session,
		Hub:        hub,
		Registry:   registryController,
		Actions:    actionsController,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Monitor:    mon,
		Auth:       authService,
	}

	if cfg.DockerContainer != "" && !opts.DisableServerControl {
		control, err := servercontrol.New(cfg.DockerContainer, actionsController, logger)
		if err != nil {
			return nil, fmt.Errorf("server control: %w", err)
		}
		app.ServerControl = control
	}

	return app, nil
}

// Close releases the app's external resources
func (a *App) Close() error {
	var errs []error
	if a.ServerControl != nil {
		errs = append(errs, a.ServerControl.Close())
	}
	errs = append(errs, a.Storage.Close())
	return errors.Join(errs...)
}

func newStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageType {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("redis storage: %w", err)
		}
		return store, nil
	case config.StorageSQLite:
		store, err := sqlitestorage.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid storage type %q", cfg.StorageType)
	}
}
