package storage

import (
	"context"
	"time"

	"github.com/mveld/empadmin/internal/model"
)

// Store is the persistent record store behind the registry and scheduler.
// The registry is its only player-record writer; crash-safe single-writer
// semantics are assumed of every backend.
type Store interface {
	// Player history
	SavePlayer(ctx context.Context, record *model.PlayerRecord) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error)
	ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error)

	// Entity table, replaced wholesale on each refresh
	ReplaceEntities(ctx context.Context, entities []*model.Entity) error
	ListEntities(ctx context.Context) ([]*model.Entity, error)

	// Scheduler slot firing state, persisted so a restart does not re-fire
	// a daily slot within the same trigger window
	SaveSlotFired(ctx context.Context, slot int, firedAt time.Time) error
	ListSlotFired(ctx context.Context) (map[int]time.Time, error)

	Close() error
}
