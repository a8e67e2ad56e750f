package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// CardController handles entry card operations
type CardController struct {
	cardService services.CardService
}

// NewCardController creates a new CardController
func NewCardController(cardService services.CardService) *CardController {
	return &CardController{
		cardService: cardService,
	}
}

// requesterFromContext builds the requesting profile from the
// authenticated claims, rejecting unauthenticated calls.
func requesterFromContext(ctx *gin.Context) (*models.Profile, bool) {
	profileID, ok := middleware.GetProfileID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return nil, false
	}
	role, _ := middleware.GetRole(ctx)
	return &models.Profile{ID: profileID, Role: role}, true
}

func toCardResponse(card *models.Card) *dto.CardResponse {
	return &dto.CardResponse{
		ID:               card.ID,
		CardID:           card.CardID,
		TotalEntries:     card.TotalEntries,
		RemainingEntries: card.RemainingEntries,
		Status:           string(card.Status),
		PurchasePrice:    card.PurchasePrice,
		PurchaseDate:     card.PurchaseDate,
		Notes:            card.Notes,
		ProgressPercent:  card.ProgressPercent(),
	}
}

// ListCards handles retrieving cards: admins see every card, other roles only their own
// @Summary List entry cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CardResponse} "Cards"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /cards [get]
func (c *CardController) ListCards(ctx *gin.Context) {
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	cards, err := c.cardService.ListCards(ctx.Request.Context(), requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]*dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, toCardResponse(card))
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// GetCard handles retrieving one card
// @Summary Get a card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} dto.APIResponse{data=dto.CardResponse} "Card"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Router /cards/{id} [get]
func (c *CardController) GetCard(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	card, err := c.cardService.GetCard(ctx.Request.Context(), requester, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCardResponse(card)))
}

// CreateCard handles card creation
// @Summary Create an entry card
// @Description Registers a card and appends the matching budget-ledger purchase in the same transaction
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCardRequest true "Card payload"
// @Success 201 {object} dto.APIResponse{data=dto.CardResponse} "Card created"
// @Failure 409 {object} dto.ErrorResponse "Card label already exists"
// @Router /cards [post]
func (c *CardController) CreateCard(ctx *gin.Context) {
	var req dto.CreateCardRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	card, err := c.cardService.CreateCard(ctx.Request.Context(), profileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(toCardResponse(card)))
}

// UpdateCard handles card modification
// @Summary Update a card
// @Description Edits a card. The status is derived from the remaining entry count.
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Param request body dto.UpdateCardRequest true "Card payload"
// @Success 200 {object} dto.APIResponse{data=dto.CardResponse} "Card updated"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Router /cards/{id} [put]
func (c *CardController) UpdateCard(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	requester, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCardRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	card, err := c.cardService.UpdateCard(ctx.Request.Context(), requester, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCardResponse(card)))
}

// ConsumeEntry handles using one entry from a card
// @Summary Consume a card entry
// @Description Decrements the remaining entry count by one; the card flips inactive when the last entry is used
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Card ID"
// @Success 200 {object} dto.APIResponse{data=dto.CardResponse} "Entry consumed"
// @Failure 404 {object} dto.ErrorResponse "Card not found"
// @Failure 409 {object} dto.ErrorResponse "Card has no remaining entries"
// @Router /cards/{id}/consume [post]
func (c *CardController) ConsumeEntry(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	requester, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	card, err := c.cardService.ConsumeEntry(ctx.Request.Context(), requester, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(toCardResponse(card)))
}
