package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mveld/empadmin/internal/api/handler"
	"github.com/mveld/empadmin/internal/api/middleware"
	"github.com/mveld/empadmin/internal/console"
	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/services/actions"
	"github.com/mveld/empadmin/internal/services/auth"
	"github.com/mveld/empadmin/internal/services/monitor"
	"github.com/mveld/empadmin/internal/services/registry"
	"github.com/mveld/empadmin/internal/services/schedule"
	"github.com/mveld/empadmin/internal/services/servercontrol"
	"github.com/mveld/empadmin/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Registry    *registry.Controller
	Actions     *actions.Controller
	Scheduler   *schedule.Controller
	Monitor     *monitor.Monitor
	Storage     storage.Store
	Hub         *events.Hub
	ConsoleLog  *console.Log
	// ServerControl may be nil when no container is configured
	ServerControl *servercontrol.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AuthService)
	statusHandler := handler.NewStatusHandler(cfg.Monitor, cfg.ServerControl)
	playerHandler := handler.NewPlayerHandler(cfg.Registry)
	entityHandler := handler.NewEntityHandler(cfg.Storage, cfg.Monitor)
	actionHandler := handler.NewActionHandler(cfg.Actions)
	scheduleHandler := handler.NewScheduleHandler(cfg.Scheduler)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)
	consoleHandler := handler.NewConsoleHandler(cfg.ConsoleLog, cfg.Logger)
	serverHandler := handler.NewServerHandler(cfg.ServerControl)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Unauthenticated routes
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Everything else requires a session
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/status", statusHandler.Status).Methods(http.MethodGet)

	protected.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)

	protected.HandleFunc("/entities", entityHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/entities/refresh", entityHandler.Refresh).Methods(http.MethodPost)

	protected.HandleFunc("/actions/say", actionHandler.Say).Methods(http.MethodPost)
	protected.HandleFunc("/actions/pm", actionHandler.PM).Methods(http.MethodPost)
	protected.HandleFunc("/actions/kick", actionHandler.Kick).Methods(http.MethodPost)
	protected.HandleFunc("/actions/ban", actionHandler.Ban).Methods(http.MethodPost)
	protected.HandleFunc("/actions/unban", actionHandler.Unban).Methods(http.MethodPost)
	protected.HandleFunc("/actions/save", actionHandler.Save).Methods(http.MethodPost)

	protected.HandleFunc("/schedule", scheduleHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/schedule/{index}", scheduleHandler.Update).Methods(http.MethodPut)

	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)
	protected.HandleFunc("/console", consoleHandler.Recent).Methods(http.MethodGet)
	protected.HandleFunc("/console/stream", consoleHandler.Stream).Methods(http.MethodGet)

	protected.HandleFunc("/server", serverHandler.Status).Methods(http.MethodGet)
	protected.HandleFunc("/server/start", serverHandler.Start).Methods(http.MethodPost)
	protected.HandleFunc("/server/stop", serverHandler.Stop).Methods(http.MethodPost)
	protected.HandleFunc("/server/restart", serverHandler.Restart).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
