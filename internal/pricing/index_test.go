package pricing

import (
	"testing"

	"github.com/mercatohq/pricing-service/pkg/db/models"
)

func TestNewIndexDropsInactive(t *testing.T) {
	t.Parallel()

	records := []models.PriceRecord{
		{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
		{ID: 2, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 1, IsActive: false},
		{ID: 3, ProductVariantID: 11, Currency: "USD", MinQuantity: 1, AmountCents: 900, IsActive: true},
	}

	ix := NewIndex(records)

	if got := ix.Candidates(10); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only active record for variant 10, got %+v", got)
	}
	if got := ix.Candidates(11); len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected record 3 for variant 11, got %+v", got)
	}
	if got := ix.Candidates(12); got != nil {
		t.Fatalf("expected nil for unknown variant, got %+v", got)
	}
}
