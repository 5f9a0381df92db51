package response

import (
	"time"

	"github.com/mveld/empadmin/internal/model"
	"github.com/mveld/empadmin/internal/services/auth"
	"github.com/mveld/empadmin/internal/services/monitor"
	"github.com/mveld/empadmin/internal/services/servercontrol"
)

// Auth is the response for the login endpoint
type Auth struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthFromSession creates an Auth response from a session
func AuthFromSession(s *auth.Session) Auth {
	return Auth{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Status is the combined connectivity and container view
type Status struct {
	Console   monitor.Status        `json:"console"`
	Container *servercontrol.Status `json:"container,omitempty"`
}

// Players is the player table response
type Players struct {
	Players []*model.PlayerRecord `json:"players"`
	Online  int                   `json:"online"`
}

// PlayersFromRecords builds the player table response. Records are expected
// to already be in display order.
func PlayersFromRecords(records []*model.PlayerRecord) Players {
	online := 0
	for _, record := range records {
		if record.Online() {
			online++
		}
	}
	return Players{Players: records, Online: online}
}

// Entities is the entity table response, grouped by playfield
type Entities struct {
	Entities []*model.Entity `json:"entities"`
}

// Schedule is the slot table response
type Schedule struct {
	Slots []model.SlotStatus `json:"slots"`
}

// ConsoleEntry is one audit log line
type ConsoleEntry struct {
	Time time.Time `json:"time"`
	Kind string    `json:"kind"`
	Text string    `json:"text"`
}

// ConsoleLog is the recent console history response
type ConsoleLog struct {
	Entries []ConsoleEntry `json:"entries"`
}

// Ack is a generic success response for action endpoints
type Ack struct {
	OK bool `json:"ok"`
}
