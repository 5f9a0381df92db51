package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mveld/empadmin/internal/model"
)

// Storage backend names accepted in STORAGE_TYPE
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds everything the daemon needs, already parsed. Values come from
// the environment; the original tool read the same settings from its conf file.
type Config struct {
	RCONHost    string
	RCONPort    int
	RCONPass    string
	RCONTimeout time.Duration

	PollInterval time.Duration

	WelcomeTemplate string
	GoodbyeTemplate string
	Slots           [model.MaxScheduleSlots]model.ScheduleSlot

	StorageType string
	RedisURL    string
	SQLitePath  string

	HTTPAddr      string
	AdminPassword string

	DockerContainer string
}

// Load reads configuration from the environment and validates it
func Load() (Config, error) {
	cfg := Config{
		RCONHost:        envOrDefault("RCON_HOST", "localhost"),
		RCONPort:        intEnvOrDefault("RCON_PORT", 30004),
		RCONPass:        strings.TrimSpace(os.Getenv("RCON_PASS")),
		RCONTimeout:     durationEnvOrDefault("RCON_TIMEOUT", 10*time.Second),
		PollInterval:    durationEnvOrDefault("POLL_INTERVAL", 30*time.Second),
		WelcomeTemplate: envOrDefault("WELCOME_TEMPLATE", "Welcome to the server, <playername>!"),
		GoodbyeTemplate: envOrDefault("GOODBYE_TEMPLATE", "<playername> has left the server."),
		StorageType:     envOrDefault("STORAGE_TYPE", StorageMemory),
		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
		SQLitePath:      envOrDefault("SQLITE_PATH", "empadmin.db"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		AdminPassword:   strings.TrimSpace(os.Getenv("ADMIN_PASSWORD")),
		DockerContainer: strings.TrimSpace(os.Getenv("DOCKER_CONTAINER")),
	}

	for i := 0; i < model.MaxScheduleSlots; i++ {
		raw := strings.TrimSpace(os.Getenv(fmt.Sprintf("SCHEDULE_SLOT_%d", i+1)))
		if raw == "" {
			continue
		}
		slot, err := ParseSlot(raw)
		if err != nil {
			return Config{}, fmt.Errorf("SCHEDULE_SLOT_%d: %w", i+1, err)
		}
		cfg.Slots[i] = slot
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseSlot parses a schedule slot definition of the form
// "every <duration>|<message>" or "daily <HH:MM>|<message>".
func ParseSlot(raw string) (model.ScheduleSlot, error) {
	trigger, body, ok := strings.Cut(raw, "|")
	if !ok || strings.TrimSpace(body) == "" {
		return model.ScheduleSlot{}, errors.New(`slot must look like "every 30m|text" or "daily 08:00|text"`)
	}

	slot := model.ScheduleSlot{Enabled: true, Body: strings.TrimSpace(body)}

	kind, arg, ok := strings.Cut(strings.TrimSpace(trigger), " ")
	if !ok {
		return model.ScheduleSlot{}, fmt.Errorf("invalid trigger %q", trigger)
	}
	arg = strings.TrimSpace(arg)

	switch kind {
	case "every":
		d, err := time.ParseDuration(arg)
		if err != nil {
			return model.ScheduleSlot{}, fmt.Errorf("invalid interval %q: %w", arg, err)
		}
		slot.Trigger = model.TriggerInterval
		slot.Interval = d
	case "daily":
		hh, mm, ok := strings.Cut(arg, ":")
		if !ok {
			return model.ScheduleSlot{}, fmt.Errorf("invalid daily time %q", arg)
		}
		hour, err := strconv.Atoi(hh)
		if err != nil {
			return model.ScheduleSlot{}, fmt.Errorf("invalid daily time %q", arg)
		}
		minute, err := strconv.Atoi(mm)
		if err != nil {
			return model.ScheduleSlot{}, fmt.Errorf("invalid daily time %q", arg)
		}
		slot.Trigger = model.TriggerDaily
		slot.Hour = hour
		slot.Minute = minute
	default:
		return model.ScheduleSlot{}, fmt.Errorf("unknown trigger kind %q", kind)
	}

	if err := slot.Validate(); err != nil {
		return model.ScheduleSlot{}, err
	}
	return slot, nil
}

func (c Config) validate() error {
	if c.RCONHost == "" {
		return errors.New("RCON_HOST is required")
	}
	if c.RCONPort <= 0 || c.RCONPort > 65535 {
		return fmt.Errorf("invalid RCON_PORT: %d", c.RCONPort)
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL %s is below one second", c.PollInterval)
	}
	if c.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD is required")
	}
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when STORAGE_TYPE=redis")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_TYPE=sqlite")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func intEnvOrDefault(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func durationEnvOrDefault(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
