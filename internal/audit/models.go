package audit

import "time"

// Event is an immutable, append-only journal record of a store mutation.
//
// Invariants:
// - Events are never updated or deleted.
// - Type is required.
// - PersonID/UserName identify the record touched; they are empty for seeded events.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	PersonID int    `json:"person_id"`
	UserName string `json:"username,omitempty"`

	// Message is a short human-readable description.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypePersonAdded   EventType = "person_added"
	EventTypePersonRemoved EventType = "person_removed"
	EventTypeSeeded        EventType = "seeded"
)
