package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mveld/empadmin/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	storage, err := New(filepath.Join(s.T().TempDir(), "empadmin.db"))
	s.Require().NoError(err)
	s.storage = storage
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
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
	s.True(got.LastSeen.Equal(record.LastSeen))
}

func (s *StorageSuite) TestSavePlayerUpsertKeepsFirstSeen() {
	firstSeen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := &model.PlayerRecord{
		ID:        "101",
		Name:      "Nova",
		Status:    model.StatusOnline,
		FirstSeen: firstSeen,
		LastSeen:  firstSeen,
	}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, record))

	record.Status = model.StatusOffline
	record.LastSeen = firstSeen.Add(2 * time.Hour)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, record))

	got, err := s.storage.GetPlayer(s.ctx, "101")
	s.Require().NoError(err)
	s.Equal(model.StatusOffline, got.Status)
	s.True(got.FirstSeen.Equal(firstSeen))
	s.True(got.LastSeen.Equal(firstSeen.Add(2 * time.Hour)))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "999")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayers() {
	now := time.Now().UTC()
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{ID: "101", Name: "Nova", Status: model.StatusOnline, FirstSeen: now, LastSeen: now}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.PlayerRecord{ID: "102", Name: "Rook", Status: model.StatusOffline, FirstSeen: now, LastSeen: now}))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

func (s *StorageSuite) TestReplaceEntities() {
	first := []*model.Entity{
		{ID: "2001", Type: "BA", Faction: "TRA", Name: "Outpost", Playfield: "Akua"},
		{ID: "2002", Type: "CV", Faction: "Private", Name: "Hauler", Playfield: "Omicron"},
	}
	s.Require().NoError(s.storage.ReplaceEntities(s.ctx, first))

	second := []*model.Entity{
		{ID: "2003", Type: "SV", Faction: "Private", Name: "Scout", Playfield: "Omicron"},
	}
	s.Require().NoError(s.storage.ReplaceEntities(s.ctx, second))

	entities, err := s.storage.ListEntities(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entities, 1)
	s.Equal("Scout", entities[0].Name)
}

func (s *StorageSuite) TestSlotFiredRoundTrip() {
	firedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveSlotFired(s.ctx, 2, firedAt))
	s.Require().NoError(s.storage.SaveSlotFired(s.ctx, 2, firedAt.Add(time.Hour)))

	fired, err := s.storage.ListSlotFired(s.ctx)
	s.Require().NoError(err)
	s.Len(fired, 1)
	s.True(fired[2].Equal(firedAt.Add(time.Hour)))
}
