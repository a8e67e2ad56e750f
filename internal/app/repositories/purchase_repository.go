package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/pkg/logger"
)

// PurchaseRepository handles budget ledger database operations
type PurchaseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(db *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new purchase ledger entry
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) (int64, error) {
	sql, args, err := r.sb.Insert("purchases").
		Columns("label", "amount", "date", "category", "related_card_id", "created_by").
		Values(purchase.Label, purchase.Amount, purchase.Date, purchase.Category, purchase.RelatedCardID, purchase.CreatedBy).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create purchase query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("label", purchase.Label).Msg("Error executing create purchase query")
		return 0, fmt.Errorf("error creating purchase: %w", err)
	}

	return id, nil
}

// List retrieves all purchases, most recent first
func (r *PurchaseRepository) List(ctx context.Context) ([]*models.Purchase, error) {
	sql, args, err := r.sb.Select(
		"id", "label", "amount", "date", "category", "related_card_id", "created_by", "created_at",
	).
		From("purchases").
		OrderBy("date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list purchases query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list purchases query")
		return nil, fmt.Errorf("error querying purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*models.Purchase{}
	for rows.Next() {
		p := &models.Purchase{}
		err := rows.Scan(&p.ID, &p.Label, &p.Amount, &p.Date, &p.Category, &p.RelatedCardID, &p.CreatedBy, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning purchase row: %w", err)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase rows: %w", err)
	}

	return purchases, nil
}

// SummaryByCategory returns the total amount spent and a breakdown per
// category.
func (r *PurchaseRepository) SummaryByCategory(ctx context.Context) (float64, map[string]float64, error) {
	sql, args, err := r.sb.Select("category", "COALESCE(SUM(amount), 0)").
		From("purchases").
		GroupBy("category").
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build purchase summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing purchase summary query")
		return 0, nil, fmt.Errorf("error querying purchase summary: %w", err)
	}
	defer rows.Close()

	total := 0.0
	byCategory := map[string]float64{}
	for rows.Next() {
		var category string
		var amount float64
		if err := rows.Scan(&category, &amount); err != nil {
			return 0, nil, fmt.Errorf("error scanning purchase summary row: %w", err)
		}
		byCategory[category] = amount
		total += amount
	}

	if err := rows.Err(); err != nil {
		return 0, nil, fmt.Errorf("error iterating purchase summary rows: %w", err)
	}

	return total, byCategory, nil
}
