package pricing

import (
	"github.com/mercatohq/pricing-service/pkg/db/models"
)

// Index groups price records by variant with inactive records dropped. Scope,
// currency and quantity matching stay in the resolver so it remains testable
// against a flat candidate list.
type Index struct {
	byVariant map[int64][]models.PriceRecord
}

// NewIndex builds an index over the given records.
func NewIndex(records []models.PriceRecord) Index {
	byVariant := make(map[int64][]models.PriceRecord)
	for _, rec := range records {
		if !rec.IsActive {
			continue
		}
		byVariant[rec.ProductVariantID] = append(byVariant[rec.ProductVariantID], rec)
	}
	return Index{byVariant: byVariant}
}

// Candidates returns the active records for the variant, nil when none exist.
func (ix Index) Candidates(variantID int64) []models.PriceRecord {
	return ix.byVariant[variantID]
}
