package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/storage"
)

// Controller reconciles polled player snapshots against the persisted player
// history. It is the only writer of player records; the monitor calls
// Reconcile from its single polling goroutine, and read access goes through
// Players/Player.
type Controller struct {
	storage storage.Store
	logger  *slog.Logger

	mu      sync.RWMutex
	loaded  bool
	records map[model.PlayerID]*model.PlayerRecord
}

// NewController creates a new registry controller
func NewController(store storage.Store, logger *slog.Logger) *Controller {
	return &Controller{
		storage: store,
		logger:  logger.With(slog.String("component", "registry")),
		records: make(map[model.PlayerID]*model.PlayerRecord),
	}
}

// loadLocked pulls the persisted history into memory on first use. Every
// loaded record starts offline: presence carried over from before a restart
// is stale, and treating it as current would either suppress a real arrival
// or fabricate a departure for someone who left while we were down.
func (c *Controller) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	persisted, err := c.storage.ListPlayers(ctx)
	if err != nil {
		return fmt.Errorf("loading player history: %w", err)
	}

	for _, record := range persisted {
		cp := *record
		if cp.Online() {
			cp.Status = model.StatusOffline
			cp.IP = ""
			cp.Playfield = ""
			if err := c.storage.SavePlayer(ctx, &cp); err != nil {
				return fmt.Errorf("settling stale record %s: %w", cp.ID, err)
			}
		}
		c.records[cp.ID] = &cp
	}

	c.loaded = true
	c.logger.Info("player history loaded", slog.Int("records", len(c.records)))
	return nil
}

// Reconcile applies one poll snapshot and returns the presence transitions it
// produced. The updated view becomes visible to readers only once the whole
// snapshot has been applied.
func (c *Controller) Reconcile(ctx context.Context, snap model.PollSnapshot) ([]model.PresenceDelta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(ctx); err != nil {
		return nil, err
	}

	var deltas []model.PresenceDelta
	seenOnline := make(map[model.PlayerID]bool, len(snap.Rows))
	changed := make(map[model.PlayerID]bool)

	for _, row := range snap.Rows {
		if row.ID == "" {
			continue
		}
		if row.Online {
			seenOnline[row.ID] = true
		}

		record, known := c.records[row.ID]
		if !known {
			record = &model.PlayerRecord{
				ID:        row.ID,
				Status:    model.StatusOffline,
				FirstSeen: snap.TakenAt,
				LastSeen:  snap.TakenAt,
			}
			c.records[row.ID] = record
			changed[row.ID] = true
		}

		if record.Name != row.Name {
			record.Name = row.Name
			changed[row.ID] = true
		}
		if row.Faction != "" && record.Faction != row.Faction {
			record.Faction = row.Faction
			changed[row.ID] = true
		}

		if row.Online {
			if !record.Online() {
				record.Status = model.StatusOnline
				deltas = append(deltas, model.PresenceDelta{
					ID:         row.ID,
					Transition: model.TransitionArrived,
				})
			}
			record.IP = row.IP
			record.Playfield = row.Playfield
			record.LastSeen = snap.TakenAt
			changed[row.ID] = true
		}
	}

	// Anyone we believed online but the snapshot no longer lists has left
	for id, record := range c.records {
		if record.Online() && !seenOnline[id] {
			record.Status = model.StatusOffline
			record.IP = ""
			record.Playfield = ""
			record.LastSeen = snap.TakenAt
			deltas = append(deltas, model.PresenceDelta{
				ID:         id,
				Transition: model.TransitionDeparted,
			})
			changed[id] = true
		}
	}

	// Persist every touched record, then fill in the post-transition records.
	// A delta is only reported once its record change has been durably saved,
	// so a crash between poll cycles cannot replay a transition.
	for id := range changed {
		if err := c.storage.SavePlayer(ctx, c.records[id]); err != nil {
			return nil, fmt.Errorf("saving player %s: %w", id, err)
		}
	}
	for i := range deltas {
		deltas[i].Record = *c.records[deltas[i].ID]
	}

	if len(deltas) > 0 {
		c.logger.Info("presence changed",
			slog.Int("transitions", len(deltas)),
			slog.Int("online", len(seenOnline)))
	}
	return deltas, nil
}

// Players returns the current view of all known players, online first
func (c *Controller) Players(ctx context.Context) ([]*model.PlayerRecord, error) {
	c.mu.Lock()
	if err := c.loadLocked(ctx); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*model.PlayerRecord, 0, len(c.records))
	for _, record := range c.records {
		cp := *record
		out = append(out, &cp)
	}
	model.SortPlayersForDisplay(out)
	return out, nil
}

// Player returns one player's record by identifier
func (c *Controller) Player(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	c.mu.Lock()
	if err := c.loadLocked(ctx); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()

	record, ok := c.records[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *record
	return &cp, nil
}

// OnlineCount returns how many players are currently marked online
func (c *Controller) OnlineCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, record := range c.records {
		if record.Online() {
			count++
		}
	}
	return count
}
