package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mveld/empadmin/internal/model"
)

func TestParseSlotInterval(t *testing.T) {
	slot, err := ParseSlot("every 30m|Restart in half an hour")
	require.NoError(t, err)

	assert.True(t, slot.Enabled)
	assert.Equal(t, model.TriggerInterval, slot.Trigger)
	assert.Equal(t, 30*time.Minute, slot.Interval)
	assert.Equal(t, "Restart in half an hour", slot.Body)
}

func TestParseSlotDaily(t *testing.T) {
	slot, err := ParseSlot("daily 08:00|Good morning, survivors!")
	require.NoError(t, err)

	assert.Equal(t, model.TriggerDaily, slot.Trigger)
	assert.Equal(t, 8, slot.Hour)
	assert.Equal(t, 0, slot.Minute)
	assert.Equal(t, "Good morning, survivors!", slot.Body)
}

func TestParseSlotKeepsPipeInBody(t *testing.T) {
	slot, err := ParseSlot("every 1h|left | right")
	require.NoError(t, err)
	assert.Equal(t, "left | right", slot.Body)
}

func TestParseSlotRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"no separator here",
		"every |empty interval",
		"every 10s|sub-minute interval",
		"daily 25:00|bad hour",
		"daily 0800|no colon",
		"weekly 08:00|unknown kind",
		"every 30m|",
	}
	for _, raw := range cases {
		_, err := ParseSlot(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RCON_PASS", "secret")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.RCONHost)
	assert.Equal(t, 30004, cfg.RCONPort)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Contains(t, cfg.WelcomeTemplate, "<playername>")
}

func TestLoadSlotFromEnv(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("SCHEDULE_SLOT_2", "daily 20:30|Nightly restart soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Slots[0].Enabled)
	assert.True(t, cfg.Slots[1].Enabled)
	assert.Equal(t, 20, cfg.Slots[1].Hour)
	assert.Equal(t, 30, cfg.Slots[1].Minute)
}

func TestLoadRejectsRedisWithoutURL(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("STORAGE_TYPE", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresAdminPassword(t *testing.T) {
	t.Setenv("RCON_PASS", "secret")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}
