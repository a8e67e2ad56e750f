package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquaclub/aquaclub/internal/app/models/dto"
	"github.com/aquaclub/aquaclub/internal/app/services"
	"github.com/aquaclub/aquaclub/internal/middleware"
)

// PurchaseController handles budget ledger operations
type PurchaseController struct {
	purchaseService services.PurchaseService
}

// NewPurchaseController creates a new PurchaseController
func NewPurchaseController(purchaseService services.PurchaseService) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
	}
}

// ListPurchases handles retrieving the ledger
// @Summary List purchases
// @Description Returns the full budget ledger, most recent first
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Purchase} "Purchases"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /purchases [get]
func (c *PurchaseController) ListPurchases(ctx *gin.Context) {
	purchases, err := c.purchaseService.ListPurchases(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(purchases))
}

// CreatePurchase handles appending a ledger entry
// @Summary Record a purchase
// @Description Appends one row to the append-only budget ledger
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePurchaseRequest true "Purchase payload"
// @Success 201 {object} dto.APIResponse{data=models.Purchase} "Purchase recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /purchases [post]
func (c *PurchaseController) CreatePurchase(ctx *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	profileID, _ := middleware.GetProfileID(ctx)

	purchase, err := c.purchaseService.CreatePurchase(ctx.Request.Context(), profileID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(purchase))
}

// Summary handles the budget summary
// @Summary Budget summary
// @Description Totals the ledger and breaks it down per category
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.BudgetSummaryResponse} "Summary"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /purchases/summary [get]
func (c *PurchaseController) Summary(ctx *gin.Context) {
	summary, err := c.purchaseService.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary))
}
