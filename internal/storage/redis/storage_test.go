package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mveld/empadmin/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetPlayer() {
	record := &model.PlayerRecord{
		ID:        "101",
		Name:      "Nova",
		Status:    model.StatusOnline,
		Faction:   "TRA",
		IP:        "10.0.0.4",
		Playfield: "Akua",
		FirstSeen: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		LastSeen:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, record))

	got, err := s.storage.GetPlayer(s.ctx, "101")
	s.Require().NoError(err)
	s.Equal(record.ID, got.ID)
	s.Equal(record.Name, got.Name)
	s.Equal(record.Status, got.Status)
	s.True(got.FirstSeen.Equal(record.FirstSeen))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "999")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayers() {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{ID: "101", Name: "Nova"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{ID: "102", Name: "Rook"}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *StorageSuite) TestEntitiesEmptyByDefault() {
	entities, err := s.storage.ListEntities(s.ctx)
	s.Require().NoError(err)
	s.Empty(entities)
}

func (s *StorageSuite) TestReplaceEntities() {
	first := []*model.Entity{
		{ID: "2001", Type: "BA", Faction: "TRA", Name: "Outpost", Playfield: "Akua"},
	}
	second := []*model.Entity{
		{ID: "2002", Type: "CV", Faction: "Private", Name: "Hauler", Playfield: "Omicron"},
	}

	s.Require().NoError(s.storage.ReplaceEntities(s.ctx, first))
	s.Require().NoError(s.storage.ReplaceEntities(s.ctx, second))

	entities, err := s.storage.ListEntities(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entities, 1)
	s.Equal("Hauler", entities[0].Name)
}

func (s *StorageSuite) TestSlotFiredRoundTrip() {
	firedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveSlotFired(s.ctx, 2, firedAt))
	s.Require().NoError(s.storage.SaveSlotFired(s.ctx, 4, firedAt.Add(time.Hour)))

	fired, err := s.storage.ListSlotFired(s.ctx)
	s.Require().NoError(err)
	s.Len(fired, 2)
	s.True(fired[2].Equal(firedAt))
	s.True(fired[4].Equal(firedAt.Add(time.Hour)))
}
