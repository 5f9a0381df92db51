package dispatch

import "strings"

// NameToken is the placeholder replaced with the player's display name
const NameToken = "<playername>"

// RenderTemplate substitutes every occurrence of the name token. Templates
// without the token are sent as-is; an empty template disables the message.
func RenderTemplate(template, playerName string) string {
	return strings.ReplaceAll(template, NameToken, playerName)
}
