package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/calendar"
	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/metrics"
)

// eventStore is the subset of EventRepository used by EventService
type eventStore interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListUpcoming(ctx context.Context, limit int, onlyFuture bool) ([]*models.Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
}

// registrationStore is the subset of RegistrationRepository used by EventService
type registrationStore interface {
	Register(ctx context.Context, eventID, profileID int64) (bool, error)
	Unregister(ctx context.Context, eventID, profileID int64) error
	IsRegistered(ctx context.Context, eventID, profileID int64) (bool, error)
	GetParticipantsByEventID(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
	CountByEventIDs(ctx context.Context, eventIDs []int64) (map[int64]int, error)
}

// EventService defines the interface for event operations
type EventService interface {
	CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id, profileID int64) (*models.Event, bool, error)
	ListEvents(ctx context.Context, limit int, onlyFuture bool) ([]*models.Event, map[int64]int, error)
	UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	Register(ctx context.Context, eventID, profileID int64) (bool, error)
	Unregister(ctx context.Context, eventID, profileID int64) error
	MonthGrid(ctx context.Context, year int, month time.Month) (*calendar.MonthGrid, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo        eventStore
	registrationRepo registrationStore
	logger           zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo eventStore, registrationRepo registrationStore, logger zerolog.Logger) EventService {
	return &eventServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		logger:           logger,
	}
}

// CreateEvent creates a new club event
func (s *eventServiceImpl) CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Type:        models.EventType(req.Type),
		Date:        req.Date,
		Duration:    req.Duration,
		Location:    req.Location,
		CreatedBy:   creatorID,
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	event.ID = id

	s.logger.Info().Int64("eventID", id).Str("type", req.Type).Msg("Event created")
	return event, nil
}

// GetEvent retrieves an event with its participant list, plus whether
// the given profile is registered for it.
func (s *eventServiceImpl) GetEvent(ctx context.Context, id, profileID int64) (*models.Event, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	registrations, err := s.registrationRepo.GetParticipantsByEventID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("error loading participants: %w", err)
	}

	event.Participants = make([]*models.Profile, 0, len(registrations))
	for _, reg := range registrations {
		event.Participants = append(event.Participants, reg.Profile)
	}

	registered := false
	if profileID > 0 {
		registered, err = s.registrationRepo.IsRegistered(ctx, id, profileID)
		if err != nil {
			return nil, false, fmt.Errorf("error checking registration: %w", err)
		}
	}

	return event, registered, nil
}

// ListEvents retrieves events with their registration counts. Past
// events stay in the listing; clients mark them instead of hiding.
func (s *eventServiceImpl) ListEvents(ctx context.Context, limit int, onlyFuture bool) ([]*models.Event, map[int64]int, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, limit, onlyFuture)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing events: %w", err)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}

	counts, err := s.registrationRepo.CountByEventIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("error counting registrations: %w", err)
	}

	return events, counts, nil
}

// UpdateEvent modifies an existing event
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Type = models.EventType(req.Type)
	event.Date = req.Date
	event.Duration = req.Duration
	event.Location = req.Location

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// DeleteEvent removes an event and its registrations
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

// Register signs a profile up for an event. The operation is
// idempotent: registering twice succeeds and reports that nothing
// changed. The returned bool is true when a new registration was
// recorded.
func (s *eventServiceImpl) Register(ctx context.Context, eventID, profileID int64) (bool, error) {
	// Ensure the event exists so an idempotent retry on a deleted
	// event still reports not found.
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return false, err
	}

	inserted, err := s.registrationRepo.Register(ctx, eventID, profileID)
	if err != nil {
		return false, err
	}

	if inserted {
		metrics.EventRegistrationsTotal.Inc()
		s.logger.Info().Int64("eventID", eventID).Int64("profileID", profileID).Msg("Registered for event")
	}

	return inserted, nil
}

// Unregister removes a profile's registration
func (s *eventServiceImpl) Unregister(ctx context.Context, eventID, profileID int64) error {
	return s.registrationRepo.Unregister(ctx, eventID, profileID)
}

// MonthGrid builds the Monday-first calendar grid for a month
func (s *eventServiceImpl) MonthGrid(ctx context.Context, year int, month time.Month) (*calendar.MonthGrid, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	events, err := s.eventRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("error loading events for calendar: %w", err)
	}

	return calendar.BuildMonthGrid(events, year, month), nil
}
