package models

// Role defines the permission level of a profile
type Role string

const (
	RoleVisiteur Role = "visiteur"
	RoleAthlete  Role = "athlete"
	RoleMembre   Role = "membre"
	RoleAdmin    Role = "admin"
)

// AllRoles lists every valid role, useful for validation
var AllRoles = []Role{RoleVisiteur, RoleAthlete, RoleMembre, RoleAdmin}

// IsValid reports whether the role is one of the closed set
func (r Role) IsValid() bool {
	switch r {
	case RoleVisiteur, RoleAthlete, RoleMembre, RoleAdmin:
		return true
	}
	return false
}

// EventType defines the kind of a club event
type EventType string

const (
	EventEntrainement EventType = "entrainement"
	EventCompetition  EventType = "competition"
	EventSortie       EventType = "sortie"
)

// IsValid reports whether the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventEntrainement, EventCompetition, EventSortie:
		return true
	}
	return false
}

// CardStatus defines the lifecycle state of an entry card
type CardStatus string

const (
	CardActive   CardStatus = "active"
	CardInactive CardStatus = "inactive"
)
