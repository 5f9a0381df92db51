package redis

// Key layout. Player records live in one hash keyed by identity; the entity
// table and slot state are single keys because they are replaced wholesale.
const (
	playersKey   = "empadmin:players"
	entitiesKey  = "empadmin:entities"
	slotFiredKey = "empadmin:schedule:fired"
)
