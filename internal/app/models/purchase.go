package models

import "time"

// PurchaseCategoryEntries is the ledger category used for entry-card purchases
const PurchaseCategoryEntries = "Entrées piscine"

// Purchase is one row of the append-only budget ledger. Purchases are
// never updated or deleted; the club budget is the sum of amounts.
type Purchase struct {
	ID            int64     `json:"id" db:"id"`
	Label         string    `json:"label" db:"label"`
	Amount        float64   `json:"amount" db:"amount"` // Always >= 0
	Date          time.Time `json:"date" db:"date"`
	Category      string    `json:"category" db:"category"`
	RelatedCardID *int64    `json:"relatedCardId,omitempty" db:"related_card_id"`
	CreatedBy     int64     `json:"createdBy" db:"created_by"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
