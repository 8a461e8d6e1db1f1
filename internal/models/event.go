package models

// Event is a domain event published to Kafka after a state change.
type Event struct {
	EventID   string `json:"event_id"`  // Unique event identifier
	Type      string `json:"type"`      // user_registered, recipe_saved, ...
	UserID    string `json:"user_id"`   // Acting user, if any
	EntityID  string `json:"entity_id"` // Affected entity
	Timestamp int64  `json:"timestamp"` // Unix seconds
}
