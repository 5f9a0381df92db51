package model

import "time"

// EventType identifies the type of event on the consumer feed
type EventType string

const (
	// Presence events
	EventPlayerArrived  EventType = "player_arrived"
	EventPlayerDeparted EventType = "player_departed"

	// Snapshot events
	EventPlayersUpdated  EventType = "players_updated"
	EventEntitiesUpdated EventType = "entities_updated"

	// Connectivity events
	EventConnectionUp   EventType = "connection_up"
	EventConnectionDown EventType = "connection_down"

	// Delivery / console events
	EventMessageSent   EventType = "message_sent"
	EventMessageFailed EventType = "message_failed"
)

// Event is one entry on the push feed consumed by foreground layers.
// ID is assigned by the hub so consumers can deduplicate on reconnect.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// PresencePayload carries the record behind an arrival or departure
type PresencePayload struct {
	Player PlayerRecord `json:"player"`
}

// PlayersPayload carries the full post-reconciliation player view
type PlayersPayload struct {
	Players  []*PlayerRecord `json:"players"`
	Warnings int             `json:"warnings"`
}

// EntitiesPayload carries the refreshed entity table
type EntitiesPayload struct {
	Entities []*Entity `json:"entities"`
	Warnings int       `json:"warnings"`
}

// ConnectionPayload describes a connectivity status change
type ConnectionPayload struct {
	Connected bool   `json:"connected"`
	Detail    string `json:"detail,omitempty"`
}

// DeliveryPayload describes one outbound message attempt
type DeliveryPayload struct {
	Kind    string `json:"kind"` // welcome, goodbye, scheduled, manual
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
