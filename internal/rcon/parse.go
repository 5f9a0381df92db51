package rcon

import (
	"regexp"
	"strings"

	"github.com/mveld/empadmin/internal/model"
)

// The console's output is undocumented free text, so each command family gets
// its own fixed line grammar with a tolerant-skip policy: a line that does not
// match the expected shape is counted as a warning and skipped, never fatal.

// Player-list sections and line shapes:
//
//	Global players list:
//	id=76561198012345678 name=Nova fac=[NVA]
//	Players connected:
//	1: 76561198012345678, Nova, Akua, 203.0.113.7|30000
var (
	playerGlobalRe = regexp.MustCompile(`id=(\d+)\s+name=(.+?)\s+fac=\[(.*?)\]`)
	playerOnlineRe = regexp.MustCompile(`^(\d+):\s+(\d+),\s+(.+?),\s+([\w\s\-]+?),\s+([\d\.]+)\|(\d+)$`)
)

// Entity-list line shapes, grouped under non-indented playfield headers:
//
//	Akua [pid=2]
//	  1. 12345 BA [NVA] -160 'Base Alpha'
//	  2. 23456 CV 'Lost Carrier'
var (
	entityFactionRe = regexp.MustCompile(`^\s*\d+\.\s+(\d+)\s+(\w+)\s+\[([^\]]+)\]\s+.*?'([^']*)'`)
	entityPrivateRe = regexp.MustCompile(`^\s*\d+\.\s+(\d+)\s+(\w+)\s+.*?'([^']*)'`)
)

type playerSection int

const (
	sectionNone playerSection = iota
	sectionGlobal
	sectionOnline
)

// ParsePlayerList parses a plys response. The result preserves the server's
// row order; players only present in the connected section are appended.
func ParsePlayerList(raw string) model.PollSnapshot {
	var snap model.PollSnapshot
	index := make(map[model.PlayerID]int)

	section := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.Contains(trimmed, "Global players list"):
			section = sectionGlobal
			continue
		case strings.Contains(trimmed, "Players connected"):
			section = sectionOnline
			continue
		case strings.Contains(trimmed, "Global online players list"):
			section = sectionNone
			continue
		}

		switch section {
		case sectionGlobal:
			m := playerGlobalRe.FindStringSubmatch(trimmed)
			if m == nil {
				snap.Warnings++
				continue
			}
			id := model.PlayerID(m[1])
			row := model.PlayerRow{
				ID:      id,
				Name:    strings.TrimSpace(m[2]),
				Faction: factionOrEmpty(m[3]),
			}
			if i, ok := index[id]; ok {
				snap.Rows[i].Name = row.Name
				snap.Rows[i].Faction = row.Faction
			} else {
				index[id] = len(snap.Rows)
				snap.Rows = append(snap.Rows, row)
			}

		case sectionOnline:
			m := playerOnlineRe.FindStringSubmatch(trimmed)
			if m == nil {
				snap.Warnings++
				continue
			}
			id := model.PlayerID(m[2])
			i, ok := index[id]
			if !ok {
				index[id] = len(snap.Rows)
				snap.Rows = append(snap.Rows, model.PlayerRow{ID: id, Name: strings.TrimSpace(m[3])})
				i = index[id]
			}
			snap.Rows[i].Online = true
			snap.Rows[i].Playfield = strings.TrimSpace(m[4])
			snap.Rows[i].IP = m[5]
		}
	}

	return snap
}

// ParseEntityList parses a gents response. Playfield headers are not
// indented; entity rows are. Rows without a faction tag belong to private
// owners.
func ParseEntityList(raw string) model.EntitySnapshot {
	var snap model.EntitySnapshot
	playfield := "Unknown"

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(line, " ") {
			if isEntityHeaderNoise(trimmed) {
				continue
			}
			playfield = strings.TrimSpace(strings.SplitN(trimmed, "[", 2)[0])
			continue
		}

		if m := entityFactionRe.FindStringSubmatch(line); m != nil {
			snap.Entities = append(snap.Entities, &model.Entity{
				ID:        m[1],
				Type:      m[2],
				Faction:   m[3],
				Name:      strings.TrimSpace(m[4]),
				Playfield: playfield,
			})
			continue
		}
		if m := entityPrivateRe.FindStringSubmatch(line); m != nil {
			snap.Entities = append(snap.Entities, &model.Entity{
				ID:        m[1],
				Type:      m[2],
				Faction:   "Private",
				Name:      strings.TrimSpace(m[3]),
				Playfield: playfield,
			})
			continue
		}

		snap.Warnings++
	}

	return snap
}

// ParseAck classifies a simple command acknowledgement. The console prints
// nothing on success for most admin commands, so an empty response is a
// success; known failure markers flip it.
func ParseAck(raw string) bool {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return true
	}
	for _, marker := range []string{"not found", "error", "unknown command", "failed", "invalid"} {
		if strings.Contains(lowered, marker) {
			return false
		}
	}
	return true
}

// isEntityHeaderNoise filters the column header, totals and query echo lines
// that share the non-indented position with playfield names
func isEntityHeaderNoise(trimmed string) bool {
	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "id") && strings.Contains(lowered, "fac") {
		return true
	}
	if strings.Contains(trimmed, "Total") || strings.Contains(trimmed, "Query") {
		return true
	}
	return trimmed[0] >= '0' && trimmed[0] <= '9'
}

func factionOrEmpty(fac string) string {
	fac = strings.TrimSpace(fac)
	if fac == "" || fac == "--" {
		return ""
	}
	return fac
}
