package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case StatusResult:
		o.printStatusResult(v)
	case PlayersResult:
		o.printPlayersResult(v)
	case PlayerResult:
		o.printPlayerResult(v)
	case EntitiesResult:
		o.printEntitiesResult(v)
	case ScheduleResult:
		o.printScheduleResult(v)
	case ContainerResult:
		o.printContainerResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// AuthResult is the login response
type AuthResult struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ConsoleStatus mirrors the API's console status block
type ConsoleStatus struct {
	Connected     bool      `json:"connected"`
	LastPoll      time.Time `json:"last_poll"`
	LastError     string    `json:"last_error,omitempty"`
	OnlineCount   int       `json:"online_count"`
	ParseWarnings int       `json:"parse_warnings"`
}

// ContainerResult mirrors the API's container status
type ContainerResult struct {
	Exists  bool   `json:"exists"`
	Running bool   `json:"running"`
	State   string `json:"state,omitempty"`
}

// StatusResult is the combined status response
type StatusResult struct {
	Console   ConsoleStatus    `json:"console"`
	Container *ContainerResult `json:"container,omitempty"`
}

// PlayerResult is one player row
type PlayerResult struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Faction   string    `json:"faction,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Playfield string    `json:"playfield,omitempty"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// PlayersResult is the player table response
type PlayersResult struct {
	Players []PlayerResult `json:"players"`
	Online  int            `json:"online"`
}

// EntityResult is one entity row
type EntityResult struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Faction   string `json:"faction"`
	Name      string `json:"name"`
	Playfield string `json:"playfield"`
}

// EntitiesResult is the entity table response
type EntitiesResult struct {
	Entities []EntityResult `json:"entities"`
}

// SlotResult is one schedule slot with firing state
type SlotResult struct {
	Index int `json:"index"`
	Slot  struct {
		Enabled  bool          `json:"enabled"`
		Body     string        `json:"body"`
		Trigger  string        `json:"trigger"`
		Interval time.Duration `json:"interval,omitempty"`
		Hour     int           `json:"hour,omitempty"`
		Minute   int           `json:"minute,omitempty"`
	} `json:"slot"`
	LastFired time.Time `json:"last_fired"`
}

// ScheduleResult is the slot table response
type ScheduleResult struct {
	Slots []SlotResult `json:"slots"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("Token: %s\n", a.SessionToken)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printStatusResult(s StatusResult) {
	if s.Console.Connected {
		fmt.Println("Console: connected")
	} else {
		fmt.Println("Console: disconnected")
		if s.Console.LastError != "" {
			fmt.Printf("Last error: %s\n", s.Console.LastError)
		}
	}
	if !s.Console.LastPoll.IsZero() {
		fmt.Printf("Last poll: %s\n", s.Console.LastPoll.Format(time.RFC3339))
	}
	fmt.Printf("Players online: %d\n", s.Console.OnlineCount)
	if s.Console.ParseWarnings > 0 {
		fmt.Printf("Parse warnings: %d\n", s.Console.ParseWarnings)
	}
	if s.Container != nil {
		o.printContainerResult(*s.Container)
	}
}

func (o *Output) printContainerResult(c ContainerResult) {
	switch {
	case !c.Exists:
		fmt.Println("Container: not found")
	case c.Running:
		fmt.Printf("Container: running (%s)\n", c.State)
	default:
		fmt.Printf("Container: stopped (%s)\n", c.State)
	}
}

func (o *Output) printPlayersResult(p PlayersResult) {
	fmt.Printf("Players (%d online, %d known):\n", p.Online, len(p.Players))
	for _, player := range p.Players {
		marker := " "
		if player.Status == "online" {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-20s id=%s", marker, player.Name, player.ID)
		if player.Faction != "" {
			line += fmt.Sprintf(" fac=%s", player.Faction)
		}
		if player.Playfield != "" {
			line += fmt.Sprintf(" @ %s", player.Playfield)
		}
		fmt.Println(line)
	}
}

func (o *Output) printPlayerResult(p PlayerResult) {
	fmt.Printf("Name: %s\n", p.Name)
	fmt.Printf("ID: %s\n", p.ID)
	fmt.Printf("Status: %s\n", p.Status)
	if p.Faction != "" {
		fmt.Printf("Faction: %s\n", p.Faction)
	}
	if p.IP != "" {
		fmt.Printf("IP: %s\n", p.IP)
	}
	if p.Playfield != "" {
		fmt.Printf("Playfield: %s\n", p.Playfield)
	}
	fmt.Printf("First seen: %s\n", p.FirstSeen.Format(time.RFC3339))
	fmt.Printf("Last seen: %s\n", p.LastSeen.Format(time.RFC3339))
}

func (o *Output) printEntitiesResult(e EntitiesResult) {
	fmt.Printf("Entities (%d):\n", len(e.Entities))
	playfield := ""
	for _, entity := range e.Entities {
		if entity.Playfield != playfield {
			playfield = entity.Playfield
			fmt.Printf("%s:\n", playfield)
		}
		fmt.Printf("  %-10s %-4s [%s] %s\n", entity.ID, entity.Type, entity.Faction, entity.Name)
	}
}

func (o *Output) printScheduleResult(s ScheduleResult) {
	for _, slot := range s.Slots {
		state := "disabled"
		if slot.Slot.Enabled {
			state = "enabled"
		}
		var when string
		switch slot.Slot.Trigger {
		case "interval":
			when = fmt.Sprintf("every %s", slot.Slot.Interval)
		case "daily":
			when = fmt.Sprintf("daily %02d:%02d", slot.Slot.Hour, slot.Slot.Minute)
		default:
			when = "unset"
		}
		fmt.Printf("Slot %d [%s] %s: %s\n", slot.Index, state, when, slot.Slot.Body)
		if !slot.LastFired.IsZero() {
			fmt.Printf("  last fired: %s\n", slot.LastFired.Format(time.RFC3339))
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
