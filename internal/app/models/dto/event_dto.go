package dto

import "time"

// CreateEventRequest is the payload for creating a club event
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Type        string    `json:"type" binding:"required,oneof=entrainement competition sortie"`
	Date        time.Time `json:"date" binding:"required"`
	Duration    int       `json:"duration" binding:"required,min=1" example:"90"` // Minutes
	Location    string    `json:"location" binding:"required,max=200"`
}

// UpdateEventRequest is the payload for updating a club event
type UpdateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	Type        string    `json:"type" binding:"required,oneof=entrainement competition sortie"`
	Date        time.Time `json:"date" binding:"required"`
	Duration    int       `json:"duration" binding:"required,min=1"`
	Location    string    `json:"location" binding:"required,max=200"`
}

// EventResponse is an event as exposed to clients. Past marks events
// whose date is behind now; clients de-emphasize them without hiding.
type EventResponse struct {
	ID               int64              `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Type             string             `json:"type"`
	Date             time.Time          `json:"date"`
	Duration         int                `json:"duration"`
	Location         string             `json:"location"`
	CreatedBy        int64              `json:"createdBy"`
	Past             bool               `json:"past"`
	IsRegistered     bool               `json:"isRegistered"`
	ParticipantCount int                `json:"participantCount"`
	Participants     []*ParticipantInfo `json:"participants,omitempty"`
}

// CalendarDayCell is one in-range day of the month grid. Events is
// never null: days without events carry an empty array.
type CalendarDayCell struct {
	Day    int              `json:"day"`
	Events []*EventResponse `json:"events"`
}

// CalendarMonthRef identifies an adjacent month for grid navigation
type CalendarMonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// CalendarResponse is the month grid view: leading null cells pad the
// first week so the grid starts on Monday, then one cell per day.
type CalendarResponse struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	Cells        []*CalendarDayCell `json:"cells"`
	LeadingEmpty int                `json:"leadingEmpty"`
	Prev         CalendarMonthRef   `json:"prev"`
	Next         CalendarMonthRef   `json:"next"`
}

// ParticipantInfo is the subset of a profile shown on participant lists
type ParticipantInfo struct {
	ID        int64   `json:"id"`
	FullName  string  `json:"fullName"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Role      string  `json:"role"`
}
