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
	"github.com/aquaclub/aquaclub/internal/db"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
	"github.com/aquaclub/aquaclub/internal/pkg/dberrors"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

var cardColumns = []string{
	"id", "card_id", "total_entries", "remaining_entries", "purchase_price",
	"purchase_date", "status", "notes", "created_by", "created_at", "updated_at",
}

// CardRepository handles entry card database operations
type CardRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *pgxpool.Pool) *CardRepository {
	return &CardRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCard(row pgx.Row) (*models.Card, error) {
	card := &models.Card{}
	err := row.Scan(
		&card.ID, &card.CardID, &card.TotalEntries, &card.RemainingEntries, &card.PurchasePrice,
		&card.PurchaseDate, &card.Status, &card.Notes, &card.CreatedBy, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}

// CreateWithLedgerEntry inserts a card and its matching purchase ledger
// row in a single transaction, so a card never appears without a
// budget trace and vice versa.
func (r *CardRepository) CreateWithLedgerEntry(ctx context.Context, card *models.Card, purchase *models.Purchase) (int64, error) {
	var cardID int64

	err := db.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("cards").
			Columns("card_id", "total_entries", "remaining_entries", "purchase_price",
				"purchase_date", "status", "notes", "created_by").
			Values(card.CardID, card.TotalEntries, card.RemainingEntries, card.PurchasePrice,
				card.PurchaseDate, card.Status, card.Notes, card.CreatedBy).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create card query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&cardID); err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrCardAlreadyExists
			}
			return fmt.Errorf("error creating card: %w", err)
		}

		sql, args, err = r.sb.Insert("purchases").
			Columns("label", "amount", "date", "category", "related_card_id", "created_by").
			Values(purchase.Label, purchase.Amount, purchase.Date, purchase.Category, cardID, purchase.CreatedBy).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build ledger entry query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating ledger entry: %w", err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrCardAlreadyExists) {
			logger.Error().Err(err).Str("cardID", card.CardID).Msg("Error creating card with ledger entry")
		}
		return 0, err
	}

	return cardID, nil
}

// GetByID retrieves a card by its internal ID
func (r *CardRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	sql, args, err := r.sb.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get card query: %w", err)
	}

	card, err := scanCard(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCardNotFound
		}
		logger.Error().Err(err).Int64("cardID", id).Msg("Error scanning card row")
		return nil, fmt.Errorf("error getting card by ID: %w", err)
	}

	return card, nil
}

// List retrieves cards, newest purchases first. A positive createdBy
// restricts the listing to that profile's cards.
func (r *CardRepository) List(ctx context.Context, createdBy int64) ([]*models.Card, error) {
	query := r.sb.Select(cardColumns...).
		From("cards").
		OrderBy("purchase_date DESC", "id DESC")
	if createdBy > 0 {
		query = query.Where(squirrel.Eq{"created_by": createdBy})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list cards query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list cards query")
		return nil, fmt.Errorf("error querying cards: %w", err)
	}
	defer rows.Close()

	cards := []*models.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning card row: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, nil
}

// Update modifies a card's editable fields
func (r *CardRepository) Update(ctx context.Context, card *models.Card) error {
	sql, args, err := r.sb.Update("cards").
		SetMap(map[string]interface{}{
			"card_id":           card.CardID,
			"total_entries":     card.TotalEntries,
			"remaining_entries": card.RemainingEntries,
			"purchase_price":    card.PurchasePrice,
			"status":            card.Status,
			"notes":             card.Notes,
			"updated_at":        time.Now(),
		}).
		Where(squirrel.Eq{"id": card.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update card query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCardAlreadyExists
		}
		logger.Error().Err(err).Int64("cardID", card.ID).Msg("Error executing update card query")
		return fmt.Errorf("error updating card: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCardNotFound
	}

	return nil
}

// ConsumeEntry decrements a card's remaining entries by one and flips
// its status to inactive when the last entry is used. The guard in the
// WHERE clause makes the decrement safe under concurrent requests: an
// exhausted card matches zero rows.
func (r *CardRepository) ConsumeEntry(ctx context.Context, id int64) (*models.Card, error) {
	sql, args, err := r.sb.Update("cards").
		Set("remaining_entries", squirrel.Expr("remaining_entries - 1")).
		Set("status", squirrel.Expr("CASE WHEN remaining_entries - 1 <= 0 THEN 'inactive' ELSE status END")).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"remaining_entries": 0}).
		Where(squirrel.Eq{"status": models.CardActive}).
		Suffix("RETURNING " + "id, card_id, total_entries, remaining_entries, purchase_price, purchase_date, status, notes, created_by, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build consume entry query: %w", err)
	}

	card, err := scanCard(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the card does not exist or it has no entries
			// left; the caller disambiguates with a follow-up read.
			return nil, apperrors.ErrCardExhausted
		}
		logger.Error().Err(err).Int64("cardID", id).Msg("Error executing consume entry query")
		return nil, fmt.Errorf("error consuming card entry: %w", err)
	}

	return card, nil
}
