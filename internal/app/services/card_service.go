package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/metrics"
	"github.com/aquaclub/aquaclub/internal/pkg/apperrors"
)

// cardStore is the subset of CardRepository used by CardService
type cardStore interface {
	CreateWithLedgerEntry(ctx context.Context, card *models.Card, purchase *models.Purchase) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, createdBy int64) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	ConsumeEntry(ctx context.Context, id int64) (*models.Card, error)
}

// CardService defines the interface for entry card operations
type CardService interface {
	CreateCard(ctx context.Context, creatorID int64, req *dto.CreateCardRequest) (*models.Card, error)
	GetCard(ctx context.Context, requester *models.Profile, id int64) (*models.Card, error)
	ListCards(ctx context.Context, requester *models.Profile) ([]*models.Card, error)
	UpdateCard(ctx context.Context, requester *models.Profile, id int64, req *dto.UpdateCardRequest) (*models.Card, error)
	ConsumeEntry(ctx context.Context, requester *models.Profile, id int64) (*models.Card, error)
}

// cardServiceImpl implements CardService
type cardServiceImpl struct {
	cardRepo cardStore
	logger   zerolog.Logger
}

// NewCardService creates a new CardService
func NewCardService(cardRepo cardStore, logger zerolog.Logger) CardService {
	return &cardServiceImpl{
		cardRepo: cardRepo,
		logger:   logger,
	}
}

// CreateCard registers a new entry card. The matching budget-ledger
// purchase is written in the same transaction, so the two records
// appear together or not at all.
func (s *cardServiceImpl) CreateCard(ctx context.Context, creatorID int64, req *dto.CreateCardRequest) (*models.Card, error) {
	now := time.Now()

	card := &models.Card{
		CardID:           req.CardID,
		TotalEntries:     req.TotalEntries,
		RemainingEntries: req.TotalEntries,
		Status:           models.CardActive,
		PurchasePrice:    req.PurchasePrice,
		PurchaseDate:     now,
		Notes:            req.Notes,
		CreatedBy:        creatorID,
	}

	purchase := &models.Purchase{
		Label:     fmt.Sprintf("Carte %s (%d entrées)", req.CardID, req.TotalEntries),
		Amount:    req.PurchasePrice,
		Date:      now,
		Category:  models.PurchaseCategoryEntries,
		CreatedBy: creatorID,
	}

	id, err := s.cardRepo.CreateWithLedgerEntry(ctx, card, purchase)
	if err != nil {
		return nil, err
	}
	card.ID = id

	metrics.CardsCreatedTotal.Inc()
	s.logger.Info().Int64("cardID", id).Str("label", req.CardID).Float64("price", req.PurchasePrice).Msg("Card created with ledger entry")
	return card, nil
}

// visibleCard loads a card and checks the requester may see it. Cards
// of other members read as not found rather than forbidden, so their
// IDs leak nothing.
func (s *cardServiceImpl) visibleCard(ctx context.Context, requester *models.Profile, id int64) (*models.Card, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester.Role != models.RoleAdmin && card.CreatedBy != requester.ID {
		return nil, apperrors.ErrCardNotFound
	}
	return card, nil
}

// GetCard retrieves a card by ID, scoped to the requester
func (s *cardServiceImpl) GetCard(ctx context.Context, requester *models.Profile, id int64) (*models.Card, error) {
	return s.visibleCard(ctx, requester, id)
}

// ListCards retrieves cards, newest first. Admins see every card,
// everyone else only their own.
func (s *cardServiceImpl) ListCards(ctx context.Context, requester *models.Profile) ([]*models.Card, error) {
	if requester.Role == models.RoleAdmin {
		return s.cardRepo.List(ctx, 0)
	}
	return s.cardRepo.List(ctx, requester.ID)
}

// UpdateCard modifies a card. The status is derived from the remaining
// entry count, never set directly.
func (s *cardServiceImpl) UpdateCard(ctx context.Context, requester *models.Profile, id int64, req *dto.UpdateCardRequest) (*models.Card, error) {
	card, err := s.visibleCard(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if req.RemainingEntries > req.TotalEntries {
		return nil, apperrors.ErrValidationFailed
	}

	card.CardID = req.CardID
	card.TotalEntries = req.TotalEntries
	card.RemainingEntries = req.RemainingEntries
	card.PurchasePrice = req.PurchasePrice
	card.Notes = req.Notes
	if card.RemainingEntries > 0 {
		card.Status = models.CardActive
	} else {
		card.Status = models.CardInactive
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// ConsumeEntry uses one entry from a card. Exhausted cards refuse the
// decrement, so the remaining count never goes negative.
func (s *cardServiceImpl) ConsumeEntry(ctx context.Context, requester *models.Profile, id int64) (*models.Card, error) {
	if _, err := s.visibleCard(ctx, requester, id); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.ConsumeEntry(ctx, id)
	if err != nil {
		// The guarded update cannot tell a missing card from an
		// exhausted one; a plain read settles it.
		if errors.Is(err, apperrors.ErrCardExhausted) {
			if _, gerr := s.cardRepo.GetByID(ctx, id); gerr != nil {
				return nil, gerr
			}
		}
		return nil, err
	}

	metrics.CardEntriesConsumedTotal.Inc()
	s.logger.Info().Int64("cardID", id).Int("remaining", card.RemainingEntries).Msg("Card entry consumed")
	return card, nil
}
