package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mveld/empadmin/internal/dependencies/clock"
	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/rcon"
	"github.com/mveld/empadmin/internal/services/dispatch"
	"github.com/mveld/empadmin/internal/services/registry"
	"github.com/mveld/empadmin/internal/services/schedule"
	"github.com/mveld/empadmin/internal/storage"
)

const (
	backoffStart = time.Second
	backoffMax   = 2 * time.Minute
)

// Session is the console connection the monitor polls over
type Session interface {
	Connect(ctx context.Context) error
	Connected() bool
	Execute(ctx context.Context, command string) (string, error)
	Close() error
}

// Status is the monitor's connectivity view, reported to consumers
type Status struct {
	Connected     bool      `json:"connected"`
	LastPoll      time.Time `json:"last_poll,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
	OnlineCount   int       `json:"online_count"`
	ParseWarnings int       `json:"parse_warnings"`
}

// Monitor owns the background polling loop: it keeps the console session
// alive, feeds snapshots through the registry, hands deltas to the
// dispatcher, and drives the message scheduler once a minute.
type Monitor struct {
	session    Session
	registry   *registry.Controller
	dispatcher *dispatch.Controller
	scheduler  *schedule.Controller
	storage    storage.Store
	hub        *events.Hub
	clock      clock.Clock
	logger     *slog.Logger

	pollInterval time.Duration

	mu        sync.RWMutex
	connected bool
	lastPoll  time.Time
	lastError string
	warnings  int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a monitor. Run must be called to start polling.
func New(
	session Session,
	reg *registry.Controller,
	dispatcher *dispatch.Controller,
	scheduler *schedule.Controller,
	store storage.Store,
	hub *events.Hub,
	clk clock.Clock,
	pollInterval time.Duration,
	logger *slog.Logger,
) *Monitor {
	return &Monitor{
		session:      session,
		registry:     reg,
		dispatcher:   dispatcher,
		scheduler:    scheduler,
		storage:      store,
		hub:          hub,
		clock:        clk,
		pollInterval: pollInterval,
		logger:       logger.With(slog.String("component", "monitor")),
	}
}

// Run starts the polling and scheduling goroutines. It returns immediately;
// Stop shuts both down.
func (m *Monitor) Run(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(2)
	go m.pollLoop(ctx)
	go m.scheduleLoop(ctx)
}

// Stop cancels the background goroutines and closes the console session
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	if err := m.session.Close(); err != nil {
		m.logger.Warn("closing console session", slog.String("error", err.Error()))
	}
}

// pollLoop drives PollOnce on the configured interval, stretching the delay
// while the server is unreachable so a downed server is not hammered
func (m *Monitor) pollLoop(ctx context.Context) {
	defer m.wg.Done()

	backoff := backoffStart
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if err := m.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Rejected credentials will not fix themselves. Leave the
			// disconnected status standing instead of retrying.
			if errors.Is(err, model.ErrAuthFailed) {
				m.logger.Error("authentication rejected, polling stopped",
					slog.String("error", err.Error()))
				return
			}
			m.logger.Warn("poll failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", backoff))
			timer.Reset(backoff)
			backoff = min(backoff*2, backoffMax)
			continue
		}

		backoff = backoffStart
		timer.Reset(m.pollInterval)
	}
}

// scheduleLoop ticks the scheduler on minute boundaries so daily HH:MM slots
// are evaluated exactly once per wall-clock minute
func (m *Monitor) scheduleLoop(ctx context.Context) {
	defer m.wg.Done()

	now := m.clock.Now()
	firstTick := time.NewTimer(now.Truncate(time.Minute).Add(time.Minute).Sub(now))
	defer firstTick.Stop()

	select {
	case <-ctx.Done():
		return
	case <-firstTick.C:
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		m.TickSchedule(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PollOnce runs a single poll cycle: ensure the session is up, fetch and
// parse the player list, reconcile it, and dispatch any presence changes
func (m *Monitor) PollOnce(ctx context.Context) error {
	if err := m.ensureConnected(ctx); err != nil {
		return err
	}

	raw, err := m.session.Execute(ctx, rcon.PlayerListCommand())
	if err != nil {
		m.setDisconnected(err)
		return fmt.Errorf("player list query: %w", err)
	}

	snap := rcon.ParsePlayerList(raw)
	snap.TakenAt = m.clock.Now()
	if snap.Warnings > 0 {
		m.logger.Warn("player list had unparseable lines", slog.Int("warnings", snap.Warnings))
	}

	deltas, err := m.registry.Reconcile(ctx, snap)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	m.dispatcher.Dispatch(ctx, deltas)

	players, err := m.registry.Players(ctx)
	if err != nil {
		return fmt.Errorf("listing players: %w", err)
	}
	m.hub.Publish(model.EventPlayersUpdated, model.PlayersPayload{
		Players:  players,
		Warnings: snap.Warnings,
	})

	m.mu.Lock()
	m.lastPoll = snap.TakenAt
	m.lastError = ""
	m.warnings = snap.Warnings
	m.mu.Unlock()
	return nil
}

// TickSchedule evaluates the message schedule at the current clock time
func (m *Monitor) TickSchedule(ctx context.Context) {
	if !m.session.Connected() {
		return
	}
	if err := m.scheduler.Tick(ctx, m.clock.Now()); err != nil {
		m.logger.Error("schedule tick failed", slog.String("error", err.Error()))
	}
}

// RefreshEntities fetches the entity list, persists it, and publishes the
// refreshed table. Entity queries are expensive on large saves, so this only
// runs on demand rather than on the poll interval.
func (m *Monitor) RefreshEntities(ctx context.Context) ([]*model.Entity, error) {
	if err := m.ensureConnected(ctx); err != nil {
		return nil, err
	}

	raw, err := m.session.Execute(ctx, rcon.EntityListCommand())
	if err != nil {
		m.setDisconnected(err)
		return nil, fmt.Errorf("entity list query: %w", err)
	}

	snap := rcon.ParseEntityList(raw)
	if snap.Warnings > 0 {
		m.logger.Warn("entity list had unparseable lines", slog.Int("warnings", snap.Warnings))
	}

	if err := m.storage.ReplaceEntities(ctx, snap.Entities); err != nil {
		return nil, fmt.Errorf("storing entities: %w", err)
	}

	m.hub.Publish(model.EventEntitiesUpdated, model.EntitiesPayload{
		Entities: snap.Entities,
		Warnings: snap.Warnings,
	})
	return snap.Entities, nil
}

// Status reports the current connectivity view
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Status{
		Connected:     m.connected,
		LastPoll:      m.lastPoll,
		LastError:     m.lastError,
		OnlineCount:   m.registry.OnlineCount(),
		ParseWarnings: m.warnings,
	}
}

func (m *Monitor) ensureConnected(ctx context.Context) error {
	if m.session.Connected() {
		return nil
	}
	if err := m.session.Connect(ctx); err != nil {
		m.setDisconnected(err)
		return fmt.Errorf("connect: %w", err)
	}

	m.mu.Lock()
	wasConnected := m.connected
	m.connected = true
	m.lastError = ""
	m.mu.Unlock()

	if !wasConnected {
		m.logger.Info("console session established")
		m.hub.Publish(model.EventConnectionUp, model.ConnectionPayload{Connected: true})
	}
	return nil
}

func (m *Monitor) setDisconnected(cause error) {
	m.mu.Lock()
	wasConnected := m.connected
	m.connected = false
	m.lastError = cause.Error()
	m.mu.Unlock()

	if wasConnected {
		m.logger.Warn("console session lost", slog.String("error", cause.Error()))
		m.hub.Publish(model.EventConnectionDown, model.ConnectionPayload{
			Connected: false,
			Detail:    cause.Error(),
		})
	}
}
