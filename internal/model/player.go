package model

import (
	"sort"
	"strings"
	"time"
)

// PlayerID is the stable platform identifier the server reports for a player.
// It is the primary key of the registry; display names are not unique.
type PlayerID string

// PlayerStatus is the registry's view of a player's connectivity
type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusOffline PlayerStatus = "offline"
)

// PlayerRecord is the durable history entry for one player identity.
// Records are created on first observation and updated in place; they are
// never deleted, so the registry doubles as a who-was-here history.
type PlayerRecord struct {
	ID        PlayerID     `json:"id"`
	Name      string       `json:"name"`
	Status    PlayerStatus `json:"status"`
	Faction   string       `json:"faction,omitempty"`   // empty while unknown
	IP        string       `json:"ip,omitempty"`        // empty while offline
	Playfield string       `json:"playfield,omitempty"` // empty while offline
	FirstSeen time.Time    `json:"first_seen"`
	LastSeen  time.Time    `json:"last_seen"`
}

// Online reports whether the record is currently marked online
func (r *PlayerRecord) Online() bool {
	return r.Status == StatusOnline
}

// PlayerRow is one parsed row of a player-list response. Optional fields are
// empty strings when the server did not report them.
type PlayerRow struct {
	ID        PlayerID
	Name      string
	Online    bool
	Faction   string
	IP        string
	Playfield string
}

// PollSnapshot is the parsed result of one player-list query. It only lives
// for the duration of one reconciliation.
type PollSnapshot struct {
	Rows     []PlayerRow
	Warnings int
	TakenAt  time.Time
}

// Transition is the kind of presence change a reconciliation observed
type Transition string

const (
	TransitionArrived  Transition = "arrived"
	TransitionDeparted Transition = "departed"
)

// PresenceDelta is a single observed join or leave. It is derived state:
// consumed once by the dispatcher and then discarded.
type PresenceDelta struct {
	ID         PlayerID
	Transition Transition
	Record     PlayerRecord // record after the transition was applied
}

// SortPlayersForDisplay orders records online-first, then by name, matching
// how the original console tool presented its player table.
func SortPlayersForDisplay(records []*PlayerRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Online() != records[j].Online() {
			return records[i].Online()
		}
		return strings.ToLower(records[i].Name) < strings.ToLower(records[j].Name)
	})
}
