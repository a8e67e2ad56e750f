package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/metrics"
)

// purchaseStore is the subset of PurchaseRepository used by PurchaseService
type purchaseStore interface {
	Create(ctx context.Context, purchase *models.Purchase) (int64, error)
	List(ctx context.Context) ([]*models.Purchase, error)
	SummaryByCategory(ctx context.Context) (float64, map[string]float64, error)
}

// PurchaseService defines the interface for budget ledger operations
type PurchaseService interface {
	CreatePurchase(ctx context.Context, creatorID int64, req *dto.CreatePurchaseRequest) (*models.Purchase, error)
	ListPurchases(ctx context.Context) ([]*models.Purchase, error)
	Summary(ctx context.Context) (*dto.BudgetSummaryResponse, error)
}

// purchaseServiceImpl implements PurchaseService
type purchaseServiceImpl struct {
	purchaseRepo purchaseStore
	logger       zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(purchaseRepo purchaseStore, logger zerolog.Logger) PurchaseService {
	return &purchaseServiceImpl{
		purchaseRepo: purchaseRepo,
		logger:       logger,
	}
}

// CreatePurchase appends one row to the ledger. Rows are never edited
// or removed afterwards.
func (s *purchaseServiceImpl) CreatePurchase(ctx context.Context, creatorID int64, req *dto.CreatePurchaseRequest) (*models.Purchase, error) {
	purchase := &models.Purchase{
		Label:         req.Label,
		Amount:        req.Amount,
		Date:          req.Date,
		Category:      req.Category,
		RelatedCardID: req.RelatedCardID,
		CreatedBy:     creatorID,
	}

	id, err := s.purchaseRepo.Create(ctx, purchase)
	if err != nil {
		return nil, fmt.Errorf("error creating purchase: %w", err)
	}
	purchase.ID = id

	metrics.PurchasesTotal.Inc()
	s.logger.Info().Int64("purchaseID", id).Str("category", req.Category).Float64("amount", req.Amount).Msg("Purchase recorded")
	return purchase, nil
}

// ListPurchases retrieves the full ledger, most recent first
func (s *purchaseServiceImpl) ListPurchases(ctx context.Context) ([]*models.Purchase, error) {
	return s.purchaseRepo.List(ctx)
}

// Summary totals the ledger and breaks it down per category
func (s *purchaseServiceImpl) Summary(ctx context.Context) (*dto.BudgetSummaryResponse, error) {
	total, byCategory, err := s.purchaseRepo.SummaryByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("error summarizing purchases: %w", err)
	}

	return &dto.BudgetSummaryResponse{
		Total:      total,
		ByCategory: byCategory,
	}, nil
}
