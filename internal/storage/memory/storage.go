package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/storage"
)

// Storage is an in-memory implementation of the store, used in tests and as
// the default backend when no persistence is configured
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.PlayerRecord
	entities  []*model.Entity
	slotFired map[int]time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.PlayerRecord),
		slotFired: make(map[int]time.Time),
	}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SavePlayer(ctx context.Context, record *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.players[record.ID] = &cp
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.PlayerRecord, 0, len(s.players))
	for _, record := range s.players {
		cp := *record
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Storage) ReplaceEntities(ctx context.Context, entities []*model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = make([]*model.Entity, 0, len(entities))
	for _, entity := range entities {
		cp := *entity
		s.entities = append(s.entities, &cp)
	}
	return nil
}

func (s *Storage) ListEntities(ctx context.Context) ([]*model.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Entity, 0, len(s.entities))
	for _, entity := range s.entities {
		cp := *entity
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Storage) SaveSlotFired(ctx context.Context, slot int, firedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotFired[slot] = firedAt
	return nil
}

func (s *Storage) ListSlotFired(ctx context.Context) (map[int]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]time.Time, len(s.slotFired))
	for slot, firedAt := range s.slotFired {
		out[slot] = firedAt
	}
	return out, nil
}

func (s *Storage) Close() error {
	return nil
}
