package rcon

import (
	"fmt"
	"regexp"
	"strings"
)

// The console's fixed command vocabulary. Commands are case-sensitive free
// text; arguments with embedded spaces must be single-quoted or the server
// truncates them at the first whitespace.

const (
	cmdPlayerList = "plys"
	cmdEntityList = "gents"
	cmdSave       = "save"
)

var banDurationRe = regexp.MustCompile(`^\d+[mhd]$`)

// Quote wraps an argument in single quotes, escaping embedded quotes, so
// spaces and formatting markup survive the trip to the server.
func Quote(arg string) string {
	return "'" + strings.ReplaceAll(arg, "'", `\'`) + "'"
}

// PlayerListCommand returns the player-list query
func PlayerListCommand() string { return cmdPlayerList }

// EntityListCommand returns the entity-list query
func EntityListCommand() string { return cmdEntityList }

// SaveCommand returns the world-save command
func SaveCommand() string { return cmdSave }

// SayCommand builds a global broadcast
func SayCommand(message string) string {
	return "say " + Quote(message)
}

// PMCommand builds a private message to a player by display name
func PMCommand(name, message string) string {
	return "pm " + Quote(name) + " " + Quote(message)
}

// KickCommand builds a kick by display name. An empty reason is sent as
// "N/A", matching what the console expects.
func KickCommand(name, reason string) string {
	if strings.TrimSpace(reason) == "" {
		reason = "N/A"
	}
	return "kick " + Quote(name) + " " + Quote(reason)
}

// BanCommand builds a ban by platform identity. Duration uses the console's
// own shorthand (30m, 1h, 7d); anything unrecognized falls back to one hour.
func BanCommand(id, duration string) string {
	if !banDurationRe.MatchString(duration) {
		duration = "1h"
	}
	return fmt.Sprintf("ban %s %s", id, duration)
}

// UnbanCommand builds an unban by platform identity
func UnbanCommand(id string) string {
	return "unban " + id
}
