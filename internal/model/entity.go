package model

// Entity is one structure or vessel reported by the entity-list command.
// The faction falls back to "Private" when the server prints no faction tag.
type Entity struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Faction   string `json:"faction"`
	Name      string `json:"name"`
	Playfield string `json:"playfield"`
}

// EntitySnapshot is the parsed result of one entity-list query
type EntitySnapshot struct {
	Entities []*Entity
	Warnings int
}
