package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aquaclub/aquaclub/internal/app/models"
	"github.com/aquaclub/aquaclub/internal/app/models/dto"
)

type fakePurchaseStore struct {
	ledger []*models.Purchase
	nextID int64
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{nextID: 1}
}

func (f *fakePurchaseStore) Create(_ context.Context, purchase *models.Purchase) (int64, error) {
	id := f.nextID
	f.nextID++
	p := *purchase
	p.ID = id
	f.ledger = append(f.ledger, &p)
	return id, nil
}

func (f *fakePurchaseStore) List(_ context.Context) ([]*models.Purchase, error) {
	out := make([]*models.Purchase, 0, len(f.ledger))
	for i := len(f.ledger) - 1; i >= 0; i-- {
		out = append(out, f.ledger[i])
	}
	return out, nil
}

func (f *fakePurchaseStore) SummaryByCategory(_ context.Context) (float64, map[string]float64, error) {
	total := 0.0
	byCategory := map[string]float64{}
	for _, p := range f.ledger {
		total += p.Amount
		byCategory[p.Category] += p.Amount
	}
	return total, byCategory, nil
}

func TestCreatePurchaseAppendsToLedger(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchaseService(store, zerolog.Nop())

	purchase, err := svc.CreatePurchase(context.Background(), 3, &dto.CreatePurchaseRequest{
		Label:    "Bonnets de bain",
		Amount:   120.50,
		Date:     time.Now(),
		Category: "Équipement",
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if purchase.ID == 0 {
		t.Fatal("expected a persisted purchase ID")
	}
	if purchase.CreatedBy != 3 {
		t.Fatalf("expected creator 3, got %d", purchase.CreatedBy)
	}
	if len(store.ledger) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(store.ledger))
	}
	if store.ledger[0].RelatedCardID != nil {
		t.Fatalf("plain expense must not reference a card, got %v", *store.ledger[0].RelatedCardID)
	}
}

func TestCreatePurchaseLinksCard(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchaseService(store, zerolog.Nop())

	cardID := int64(7)
	purchase, err := svc.CreatePurchase(context.Background(), 3, &dto.CreatePurchaseRequest{
		Label:         "Carte CARD-7 (10 entrées)",
		Amount:        45,
		Date:          time.Now(),
		Category:      models.PurchaseCategoryEntries,
		RelatedCardID: &cardID,
	})
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if purchase.RelatedCardID == nil || *purchase.RelatedCardID != cardID {
		t.Fatalf("expected related card %d, got %v", cardID, purchase.RelatedCardID)
	}
	if got := store.ledger[0].RelatedCardID; got == nil || *got != cardID {
		t.Fatal("ledger row must carry the card reference")
	}
}

func TestSummaryGroupsByCategory(t *testing.T) {
	store := newFakePurchaseStore()
	svc := NewPurchaseService(store, zerolog.Nop())

	rows := []dto.CreatePurchaseRequest{
		{Label: "Carte A", Amount: 45, Date: time.Now(), Category: models.PurchaseCategoryEntries},
		{Label: "Carte B", Amount: 45, Date: time.Now(), Category: models.PurchaseCategoryEntries},
		{Label: "Lignes d'eau", Amount: 200, Date: time.Now(), Category: "Location bassin"},
	}
	for i := range rows {
		if _, err := svc.CreatePurchase(context.Background(), 1, &rows[i]); err != nil {
			t.Fatalf("CreatePurchase %q: %v", rows[i].Label, err)
		}
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Total != 290 {
		t.Fatalf("expected total 290, got %v", summary.Total)
	}
	if summary.ByCategory[models.PurchaseCategoryEntries] != 90 {
		t.Fatalf("expected 90 for entries category, got %v", summary.ByCategory[models.PurchaseCategoryEntries])
	}
	if summary.ByCategory["Location bassin"] != 200 {
		t.Fatalf("expected 200 for pool rental, got %v", summary.ByCategory["Location bassin"])
	}
}
