package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/rcon"
)

// Executor runs one console command against the game server
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Controller wraps the raw console session with the admin verbs the rest of
// the application uses. It also serves as the Announcer behind presence
// messages and scheduled broadcasts.
type Controller struct {
	executor Executor
	logger   *slog.Logger
}

// NewController creates a new actions controller
func NewController(executor Executor, logger *slog.Logger) *Controller {
	return &Controller{
		executor: executor,
		logger:   logger.With(slog.String("component", "actions")),
	}
}

// Say broadcasts a chat message to everyone on the server
func (c *Controller) Say(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return model.ErrEmptyMessage
	}
	return c.run(ctx, "say", rcon.SayCommand(message))
}

// PM sends a private chat message to one player by display name
func (c *Controller) PM(ctx context.Context, name, message string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrEmptyTarget
	}
	if strings.TrimSpace(message) == "" {
		return model.ErrEmptyMessage
	}
	return c.run(ctx, "pm", rcon.PMCommand(name, message))
}

// Kick disconnects a player by display name. An empty reason gets a
// placeholder because the server rejects a bare kick.
func (c *Controller) Kick(ctx context.Context, name, reason string) error {
	if strings.TrimSpace(name) == "" {
		return model.ErrEmptyTarget
	}
	return c.run(ctx, "kick", rcon.KickCommand(name, reason))
}

// Ban bans a player by identifier for the given duration (e.g. "1h", "7d")
func (c *Controller) Ban(ctx context.Context, id model.PlayerID, duration string) error {
	if id == "" {
		return model.ErrEmptyTarget
	}
	return c.run(ctx, "ban", rcon.BanCommand(string(id), duration))
}

// Unban lifts a ban by player identifier
func (c *Controller) Unban(ctx context.Context, id model.PlayerID) error {
	if id == "" {
		return model.ErrEmptyTarget
	}
	return c.run(ctx, "unban", rcon.UnbanCommand(string(id)))
}

// Save asks the server to flush its world state to disk
func (c *Controller) Save(ctx context.Context) error {
	return c.run(ctx, "save", rcon.SaveCommand())
}

func (c *Controller) run(ctx context.Context, verb, command string) error {
	response, err := c.executor.Execute(ctx, command)
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}
	if !rcon.ParseAck(response) {
		c.logger.Warn("server rejected command",
			slog.String("verb", verb),
			slog.String("response", response))
		return fmt.Errorf("%s: server rejected command: %s", verb, strings.TrimSpace(response))
	}
	return nil
}
