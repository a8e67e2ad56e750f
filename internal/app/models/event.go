package models

import "time"

// Event represents a scheduled club activity (training, competition or outing)
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Type        EventType `json:"type" db:"type"`
	Date        time.Time `json:"date" db:"date"`
	Duration    int       `json:"duration" db:"duration"` // Minutes
	Location    string    `json:"location" db:"location"`
	CreatedBy   int64     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Participants []*Profile `json:"participants,omitempty"`
}

// EventRegistration represents a profile registered for an event.
// A profile appears at most once per event, enforced by a unique
// constraint on (event_id, profile_id).
type EventRegistration struct {
	ID           int64     `json:"id" db:"id"`
	EventID      int64     `json:"eventId" db:"event_id"`
	ProfileID    int64     `json:"profileId" db:"profile_id"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`

	// Related entities
	Profile *Profile `json:"profile,omitempty"`
}
