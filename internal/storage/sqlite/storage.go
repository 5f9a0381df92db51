package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/storage"
)

// Storage is a SQLite-backed implementation of the store. The original tool
// kept its player history in the same kind of local database file.
type Storage struct {
	db *sql.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		faction TEXT NOT NULL DEFAULT '',
		ip TEXT NOT NULL DEFAULT '',
		playfield TEXT NOT NULL DEFAULT '',
		first_seen DATETIME NOT NULL,
		last_seen DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS entities (
		rowid_seq INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id TEXT NOT NULL,
		type TEXT NOT NULL,
		faction TEXT NOT NULL,
		name TEXT NOT NULL,
		playfield TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS schedule_fired (
		slot INTEGER PRIMARY KEY,
		fired_at DATETIME NOT NULL
	)`,
}

// New opens (or creates) the database file and applies migrations
func New(path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	return &Storage{db: db}, nil
}

// Ensure Storage implements the interface
var _ storage.Store = (*Storage)(nil)

func (s *Storage) SavePlayer(ctx context.Context, record *model.PlayerRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, status, faction, ip, playfield, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			status = excluded.status,
			faction = excluded.faction,
			ip = excluded.ip,
			playfield = excluded.playfield,
			last_seen = excluded.last_seen`,
		string(record.ID), record.Name, string(record.Status), record.Faction,
		record.IP, record.Playfield, record.FirstSeen.UTC(), record.LastSeen.UTC(),
	)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, status, faction, ip, playfield, first_seen, last_seen
		FROM players WHERE id = ?`, string(id))

	record, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	return record, err
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.PlayerRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, status, faction, ip, playfield, first_seen, last_seen FROM players`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PlayerRecord
	for rows.Next() {
		record, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func (s *Storage) ReplaceEntities(ctx context.Context, entities []*model.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entities`); err != nil {
		return err
	}
	for _, entity := range entities {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entities (entity_id, type, faction, name, playfield) VALUES (?, ?, ?, ?, ?)`,
			entity.ID, entity.Type, entity.Faction, entity.Name, entity.Playfield)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) ListEntities(ctx context.Context) ([]*model.Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entity_id, type, faction, name, playfield FROM entities ORDER BY playfield, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Entity
	for rows.Next() {
		var entity model.Entity
		if err := rows.Scan(&entity.ID, &entity.Type, &entity.Faction, &entity.Name, &entity.Playfield); err != nil {
			return nil, err
		}
		out = append(out, &entity)
	}
	return out, rows.Err()
}

func (s *Storage) SaveSlotFired(ctx context.Context, slot int, firedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule_fired (slot, fired_at) VALUES (?, ?)
		ON CONFLICT(slot) DO UPDATE SET fired_at = excluded.fired_at`,
		slot, firedAt.UTC())
	return err
}

func (s *Storage) ListSlotFired(ctx context.Context) (map[int]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slot, fired_at FROM schedule_fired`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int]time.Time)
	for rows.Next() {
		var slot int
		var firedAt time.Time
		if err := rows.Scan(&slot, &firedAt); err != nil {
			return nil, err
		}
		out[slot] = firedAt
	}
	return out, rows.Err()
}

// Close closes the database file
func (s *Storage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.PlayerRecord, error) {
	var record model.PlayerRecord
	var id, status string
	err := row.Scan(&id, &record.Name, &status, &record.Faction,
		&record.IP, &record.Playfield, &record.FirstSeen, &record.LastSeen)
	if err != nil {
		return nil, err
	}
	record.ID = model.PlayerID(id)
	record.Status = model.PlayerStatus(status)
	return &record, nil
}
