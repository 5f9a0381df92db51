package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mveld/empadmin/internal/events"
	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/services/dispatch"
	"github.com/mveld/empadmin/internal/storage"
)

// Controller owns the recurring broadcast slots. The monitor drives it with
// a Tick once per minute; everything else reads and edits slots through the
// accessor methods.
type Controller struct {
	announcer dispatch.Announcer
	storage   storage.Store
	hub       *events.Hub
	logger    *slog.Logger

	mu        sync.RWMutex
	loaded    bool
	slots     [model.MaxScheduleSlots]model.ScheduleSlot
	lastFired [model.MaxScheduleSlots]time.Time
}

// NewController creates a scheduler over the given initial slot table
func NewController(
	slots [model.MaxScheduleSlots]model.ScheduleSlot,
	announcer dispatch.Announcer,
	store storage.Store,
	hub *events.Hub,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		announcer: announcer,
		storage:   store,
		hub:       hub,
		logger:    logger.With(slog.String("component", "schedule")),
		slots:     slots,
	}
}

// loadLocked restores persisted firing times on first use so a restart does
// not re-fire a daily slot whose window already passed today
func (c *Controller) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	fired, err := c.storage.ListSlotFired(ctx)
	if err != nil {
		return fmt.Errorf("loading slot firing state: %w", err)
	}
	for slot, firedAt := range fired {
		if slot >= 0 && slot < model.MaxScheduleSlots {
			c.lastFired[slot] = firedAt
		}
	}
	c.loaded = true
	return nil
}

// Tick evaluates every enabled slot against now and sends those that are
// due. A slot is stamped before the outcome of its send is known: the
// schedule promises an attempt per window, not a delivery. Due slots are
// collected and stamped under the lock, then sent after it is released so
// a slow console send never blocks slot reads or edits.
func (c *Controller) Tick(ctx context.Context, now time.Time) error {
	type firing struct {
		slot int
		body string
	}

	c.mu.Lock()
	if err := c.loadLocked(ctx); err != nil {
		c.mu.Unlock()
		return err
	}

	var due []firing
	for i, slot := range c.slots {
		if !slot.Enabled || slot.Body == "" {
			continue
		}
		if !c.dueLocked(i, slot, now) {
			continue
		}

		c.lastFired[i] = now
		if err := c.storage.SaveSlotFired(ctx, i, now); err != nil {
			c.logger.Error("persisting slot firing failed",
				slog.Int("slot", i),
				slog.String("error", err.Error()))
		}
		due = append(due, firing{slot: i, body: slot.Body})
	}
	c.mu.Unlock()

	for _, f := range due {
		payload := model.DeliveryPayload{Kind: "scheduled", Message: f.body}
		if err := c.announcer.Say(ctx, f.body); err != nil {
			c.logger.Error("scheduled message failed",
				slog.Int("slot", f.slot),
				slog.String("error", err.Error()))
			payload.Error = err.Error()
			c.hub.Publish(model.EventMessageFailed, payload)
			continue
		}

		c.logger.Info("scheduled message sent", slog.Int("slot", f.slot))
		c.hub.Publish(model.EventMessageSent, payload)
	}
	return nil
}

func (c *Controller) dueLocked(i int, slot model.ScheduleSlot, now time.Time) bool {
	last := c.lastFired[i]

	switch slot.Trigger {
	case model.TriggerInterval:
		// A never-fired interval slot fires on the first tick
		return last.IsZero() || now.Sub(last) >= slot.Interval
	case model.TriggerDaily:
		if now.Hour() != slot.Hour || now.Minute() != slot.Minute {
			return false
		}
		// Only once per calendar day, even if ticks repeat within the minute
		ly, lm, ld := last.Date()
		ny, nm, nd := now.Date()
		return last.IsZero() || ly != ny || lm != nm || ld != nd
	default:
		return false
	}
}

// Slots returns the current slot table with firing state
func (c *Controller) Slots(ctx context.Context) ([]model.SlotStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(ctx); err != nil {
		return nil, err
	}

	out := make([]model.SlotStatus, model.MaxScheduleSlots)
	for i := range c.slots {
		out[i] = model.SlotStatus{
			Index:     i,
			Slot:      c.slots[i],
			LastFired: c.lastFired[i],
		}
	}
	return out, nil
}

// UpdateSlot replaces one slot definition. Changing a slot does not reset
// its firing state; an edited daily slot that already fired today stays
// quiet until tomorrow.
func (c *Controller) UpdateSlot(ctx context.Context, index int, slot model.ScheduleSlot) error {
	if index < 0 || index >= model.MaxScheduleSlots {
		return fmt.Errorf("slot %d: %w", index, model.ErrSlotOutOfRange)
	}
	if err := slot.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[index] = slot
	c.logger.Info("schedule slot updated",
		slog.Int("slot", index),
		slog.Bool("enabled", slot.Enabled))
	return nil
}
