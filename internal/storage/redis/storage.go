package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/storage"
)

// Storage is a Redis-backed implementation of the store
type Storage struct {
	client *redis.Client
}

// New creates a new Redis storage instance and verifies the connection
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SavePlayer(ctx context.Context, record *model.PlayerRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, playersKey, string(record.ID), data).Err()
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	data, err := s.client.HGet(ctx, playersKey, string(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var record model.PlayerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	rows, err := s.client.HGetAll(ctx, playersKey).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*model.PlayerRecord, 0, len(rows))
	for _, data := range rows {
		var record model.PlayerRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return nil, err
		}
		out = append(out, &record)
	}
	return out, nil
}

func (s *Storage) ReplaceEntities(ctx context.Context, entities []*model.Entity) error {
	data, err := json.Marshal(entities)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, entitiesKey, data, 0).Err()
}

func (s *Storage) ListEntities(ctx context.Context) ([]*model.Entity, error) {
	data, err := s.client.Get(ctx, entitiesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entities []*model.Entity
	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (s *Storage) SaveSlotFired(ctx context.Context, slot int, firedAt time.Time) error {
	return s.client.HSet(ctx, slotFiredKey, strconv.Itoa(slot), firedAt.Format(time.RFC3339Nano)).Err()
}

func (s *Storage) ListSlotFired(ctx context.Context) (map[int]time.Time, error) {
	rows, err := s.client.HGetAll(ctx, slotFiredKey).Result()
	if err != nil {
		return nil, err
	}

	out := make(map[int]time.Time, len(rows))
	for field, value := range rows {
		slot, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		firedAt, err := time.Parse(time.RFC3339Nano, value)
		if err != nil {
			continue
		}
		out[slot] = firedAt
	}
	return out, nil
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}
