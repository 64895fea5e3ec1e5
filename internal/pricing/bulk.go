package pricing

import "github.com/mercatohq/pricing-service/pkg/db/models"

// ResolveBulk resolves N variants against one context. Records are
// partitioned once, so the cost is linear in candidates plus variants rather
// than candidates times variants. Variants with no eligible candidate map to
// nil.
func ResolveBulk(variantIDs []int64, ctx PricingContext, records []models.PriceRecord) map[int64]*models.PriceRecord {
	index := NewIndex(records)
	results := make(map[int64]*models.PriceRecord, len(variantIDs))
	for _, variantID := range variantIDs {
		results[variantID] = Resolve(ctx, index.Candidates(variantID))
	}
	return results
}
