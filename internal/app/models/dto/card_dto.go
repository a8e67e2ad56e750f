package dto

import "time"

// CreateCardRequest is the payload for registering a new entry card.
// Creating a card also appends the matching budget-ledger purchase in
// the same transaction.
type CreateCardRequest struct {
	CardID        string  `json:"cardId" binding:"required,max=60" example:"CARD-2025-07"`
	TotalEntries  int     `json:"totalEntries" binding:"required,min=1" example:"10"`
	PurchasePrice float64 `json:"purchasePrice" binding:"required,min=0" example:"45.00"`
	Notes         *string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// UpdateCardRequest is the payload for editing an existing card
type UpdateCardRequest struct {
	CardID           string  `json:"cardId" binding:"required,max=60"`
	TotalEntries     int     `json:"totalEntries" binding:"required,min=1"`
	RemainingEntries int     `json:"remainingEntries" binding:"min=0"`
	PurchasePrice    float64 `json:"purchasePrice" binding:"required,min=0"`
	Notes            *string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// CardResponse is a card as exposed to clients, one canonical field
// naming regardless of call site
type CardResponse struct {
	ID               int64     `json:"id"`
	CardID           string    `json:"cardId"`
	TotalEntries     int       `json:"totalEntries"`
	RemainingEntries int       `json:"remainingEntries"`
	Status           string    `json:"status"`
	PurchasePrice    float64   `json:"purchasePrice"`
	PurchaseDate     time.Time `json:"purchaseDate"`
	Notes            *string   `json:"notes,omitempty"`
	ProgressPercent  int       `json:"progressPercent" example:"70"`
}
