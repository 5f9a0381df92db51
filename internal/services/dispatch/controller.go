package dispatch

import (
	"context"
	"log/slog"

	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/model"
)

// Announcer sends a broadcast chat message to the game server
type Announcer interface {
	Say(ctx context.Context, message string) error
}

// Config holds the presence message templates. An empty template disables
// that message kind without suppressing the presence event itself.
type Config struct {
	WelcomeTemplate string
	GoodbyeTemplate string
}

// Controller turns presence deltas into chat announcements and feed events
type Controller struct {
	cfg       Config
	announcer Announcer
	hub       *events.Hub
	logger    *slog.Logger
}

// NewController creates a new dispatch controller
func NewController(cfg Config, announcer Announcer, hub *events.Hub, logger *slog.Logger) *Controller {
	return &Controller{
		cfg:       cfg,
		announcer: announcer,
		hub:       hub,
		logger:    logger.With(slog.String("component", "dispatch")),
	}
}

// Dispatch processes the deltas of one reconciliation. A failed send is
// logged and reported on the feed but never stops the remaining deltas; the
// next poll cycle must not be held hostage by a flaky chat channel.
func (c *Controller) Dispatch(ctx context.Context, deltas []model.PresenceDelta) {
	for _, delta := range deltas {
		switch delta.Transition {
		case model.TransitionArrived:
			c.hub.Publish(model.EventPlayerArrived, model.PresencePayload{Player: delta.Record})
			c.announce(ctx, "welcome", c.cfg.WelcomeTemplate, delta.Record.Name)
		case model.TransitionDeparted:
			c.hub.Publish(model.EventPlayerDeparted, model.PresencePayload{Player: delta.Record})
			c.announce(ctx, "goodbye", c.cfg.GoodbyeTemplate, delta.Record.Name)
		}
	}
}

func (c *Controller) announce(ctx context.Context, kind, template, playerName string) {
	if template == "" {
		return
	}

	message := RenderTemplate(template, playerName)
	payload := model.DeliveryPayload{
		Kind:    kind,
		Target:  playerName,
		Message: message,
	}

	if err := c.announcer.Say(ctx, message); err != nil {
		c.logger.Error("announcement failed",
			slog.String("kind", kind),
			slog.String("player", playerName),
			slog.String("error", err.Error()))
		payload.Error = err.Error()
		c.hub.Publish(model.EventMessageFailed, payload)
		return
	}

	c.hub.Publish(model.EventMessageSent, payload)
}
