package models

import (
	"math"
	"time"
)

// Card represents a prepaid entry card with a fixed entry count,
// decremented on use. Invariant: 0 <= RemainingEntries <= TotalEntries.
type Card struct {
	ID               int64      `json:"id" db:"id"`
	CardID           string     `json:"cardId" db:"card_id"` // Human-readable label printed on the card
	TotalEntries     int        `json:"totalEntries" db:"total_entries"`
	RemainingEntries int        `json:"remainingEntries" db:"remaining_entries"`
	Status           CardStatus `json:"status" db:"status"`
	PurchasePrice    float64    `json:"purchasePrice" db:"purchase_price"`
	PurchaseDate     time.Time  `json:"purchaseDate" db:"purchase_date"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy        int64      `json:"createdBy" db:"created_by"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// ProgressPercent returns the remaining entries as a rounded percentage
// of the total. A card with zero total entries reports zero instead of
// dividing by zero.
func (c *Card) ProgressPercent() int {
	if c.TotalEntries <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(c.RemainingEntries) / float64(c.TotalEntries)))
}
