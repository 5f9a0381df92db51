package model

import (
	"fmt"
	"time"
)

// MaxScheduleSlots is the number of recurring message slots the scheduler owns
const MaxScheduleSlots = 5

// TriggerKind selects how a schedule slot decides it is due
type TriggerKind string

const (
	// TriggerInterval fires every Interval since the last firing
	TriggerInterval TriggerKind = "interval"
	// TriggerDaily fires once per calendar day at Hour:Minute local time
	TriggerDaily TriggerKind = "daily"
)

// ScheduleSlot is one configured recurring broadcast message
type ScheduleSlot struct {
	Enabled  bool          `json:"enabled"`
	Body     string        `json:"body"`
	Trigger  TriggerKind   `json:"trigger"`
	Interval time.Duration `json:"interval,omitempty"` // interval trigger only
	Hour     int           `json:"hour,omitempty"`     // daily trigger only
	Minute   int           `json:"minute,omitempty"`   // daily trigger only
}

// Validate checks that an enabled slot has a usable trigger definition
func (s ScheduleSlot) Validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Body == "" {
		return fmt.Errorf("schedule slot: %w", ErrEmptyMessage)
	}
	switch s.Trigger {
	case TriggerInterval:
		if s.Interval < time.Minute {
			return fmt.Errorf("schedule slot: interval %s is below one minute", s.Interval)
		}
	case TriggerDaily:
		if s.Hour < 0 || s.Hour > 23 || s.Minute < 0 || s.Minute > 59 {
			return fmt.Errorf("schedule slot: invalid daily time %02d:%02d", s.Hour, s.Minute)
		}
	default:
		return fmt.Errorf("schedule slot: unknown trigger %q", s.Trigger)
	}
	return nil
}

// SlotStatus is a slot definition plus its process-visible firing state,
// as reported to consumers.
type SlotStatus struct {
	Index     int          `json:"index"`
	Slot      ScheduleSlot `json:"slot"`
	LastFired time.Time    `json:"last_fired,omitzero"`
}
