package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

var eventColumns = []string{
	"id", "title", "description", "type", "date", "duration",
	"location", "created_by", "created_at", "updated_at",
}

// EventRepository handles event database operations
type EventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	ev := &models.Event{}
	err := row.Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.Type, &ev.Date, &ev.Duration,
		&ev.Location, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Create inserts a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	sql, args, err := r.sb.Insert("events").
		Columns("title", "description", "type", "date", "duration", "location", "created_by").
		Values(event.Title, event.Description, event.Type, event.Date, event.Duration, event.Location, event.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("title", event.Title).Msg("Error executing create event query")
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	return id, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error getting event by ID: %w", err)
	}

	return event, nil
}

// ListUpcoming retrieves events ordered ascending by date. When
// onlyFuture is set, events before now are filtered out; limit <= 0
// means no limit.
func (r *EventRepository) ListUpcoming(ctx context.Context, limit int, onlyFuture bool) ([]*models.Event, error) {
	query := r.sb.Select(eventColumns...).
		From("events").
		OrderBy("date ASC")

	if onlyFuture {
		query = query.Where(squirrel.GtOrEq{"date": time.Now()})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	return r.queryEvents(ctx, sql, args)
}

// ListBetween retrieves events within [from, to), ordered by date,
// used for calendar month views.
func (r *EventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	sql, args, err := r.sb.Select(eventColumns...).
		From("events").
		Where(squirrel.GtOrEq{"date": from}).
		Where(squirrel.Lt{"date": to}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events between query: %w", err)
	}

	return r.queryEvents(ctx, sql, args)
}

func (r *EventRepository) queryEvents(ctx context.Context, sql string, args []interface{}) ([]*models.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing events query")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

// Update modifies an existing event
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	sql, args, err := r.sb.Update("events").
		SetMap(map[string]interface{}{
			"title":       event.Title,
			"description": event.Description,
			"type":        event.Type,
			"date":        event.Date,
			"duration":    event.Duration,
			"location":    event.Location,
			"updated_at":  time.Now(),
		}).
		Where(squirrel.Eq{"id": event.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", event.ID).Msg("Error executing update event query")
		return fmt.Errorf("error updating event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}

// Delete removes an event and, via cascade, its registrations
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("events").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete event query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error executing delete event query")
		return fmt.Errorf("error deleting event: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
