package dto

import "time"

// CreatePurchaseRequest appends one row to the budget ledger
type CreatePurchaseRequest struct {
	Label    string    `json:"label" binding:"required,max=200"`
	Amount   float64   `json:"amount" binding:"min=0" example:"45.00"`
	Date     time.Time `json:"date" binding:"required"`
	Category string    `json:"category" binding:"required,max=100" example:"Entrées piscine"`
	// RelatedCardID links the expense to the entry card it paid for
	RelatedCardID *int64 `json:"relatedCardId" binding:"omitempty,gt=0"`
}

// BudgetSummaryResponse totals the ledger, optionally grouped by category
type BudgetSummaryResponse struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
}
