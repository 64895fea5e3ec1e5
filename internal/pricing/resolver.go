package pricing

import (
	"sort"

	"github.com/mercatohq/pricing-service/pkg/db/models"
)

// Scope weights. Price-list scope outranks site outranks market outranks
// channel, and any combination of narrower scopes beats any wider one because
// the weights are distinct bits.
const (
	scorePriceList = 1 << 3
	scoreSite      = 1 << 2
	scoreMarket    = 1 << 1
	scoreChannel   = 1 << 0
)

// Resolve picks the single applicable record for the context, or nil when no
// candidate is eligible. "No price configured" is a valid business state, not
// an error. The result is a copy; callers may not mutate stored candidates
// through it.
//
// Selection is the max of the (specificity score, min quantity) pair over all
// eligible candidates, with remaining ties broken by lowest record ID so the
// outcome never depends on input ordering.
func Resolve(ctx PricingContext, candidates []models.PriceRecord) *models.PriceRecord {
	var winner *models.PriceRecord
	winnerScore := -1

	for i := range candidates {
		rec := &candidates[i]
		if !eligible(ctx, rec) {
			continue
		}

		score := specificityScore(ctx, rec)
		if winner == nil || beats(score, rec, winnerScore, winner) {
			winner = rec
			winnerScore = score
		}
	}

	if winner == nil {
		return nil
	}
	out := *winner
	return &out
}

// Tiers returns every candidate eligible on scope and currency, ignoring the
// quantity band, sorted by ascending min quantity. A quantity-break table has
// to show bands the requested quantity does not fall in, so the band check is
// deliberately skipped here.
func Tiers(ctx PricingContext, candidates []models.PriceRecord) []models.PriceRecord {
	var tiers []models.PriceRecord
	for _, rec := range candidates {
		if !scopeEligible(ctx, &rec) {
			continue
		}
		tiers = append(tiers, rec)
	}
	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].MinQuantity != tiers[j].MinQuantity {
			return tiers[i].MinQuantity < tiers[j].MinQuantity
		}
		return tiers[i].ID < tiers[j].ID
	})
	return tiers
}

func eligible(ctx PricingContext, rec *models.PriceRecord) bool {
	if !scopeEligible(ctx, rec) {
		return false
	}
	if rec.MinQuantity > ctx.Quantity {
		return false
	}
	if rec.MaxQuantity != nil && ctx.Quantity > *rec.MaxQuantity {
		return false
	}
	return true
}

func scopeEligible(ctx PricingContext, rec *models.PriceRecord) bool {
	if rec.Currency != ctx.Currency {
		return false
	}
	return scopeCompatible(rec.MarketID, ctx.MarketID) &&
		scopeCompatible(rec.SiteID, ctx.SiteID) &&
		scopeCompatible(rec.ChannelID, ctx.ChannelID) &&
		scopeCompatible(rec.PriceListID, ctx.CatalogID)
}

// A null record scope matches any context; a set one must equal a set context
// value.
func scopeCompatible(recID, ctxID *int64) bool {
	if recID == nil {
		return true
	}
	return ctxID != nil && *recID == *ctxID
}

func specificityScore(ctx PricingContext, rec *models.PriceRecord) int {
	score := 0
	if scopeMatched(rec.PriceListID, ctx.CatalogID) {
		score |= scorePriceList
	}
	if scopeMatched(rec.SiteID, ctx.SiteID) {
		score |= scoreSite
	}
	if scopeMatched(rec.MarketID, ctx.MarketID) {
		score |= scoreMarket
	}
	if scopeMatched(rec.ChannelID, ctx.ChannelID) {
		score |= scoreChannel
	}
	return score
}

func scopeMatched(recID, ctxID *int64) bool {
	return recID != nil && ctxID != nil && *recID == *ctxID
}

func beats(score int, rec *models.PriceRecord, winnerScore int, winner *models.PriceRecord) bool {
	if score != winnerScore {
		return score > winnerScore
	}
	// tightest-fitting quantity tier first: a "50+" rule beats a "10+" rule
	// when the requested quantity satisfies both
	if rec.MinQuantity != winner.MinQuantity {
		return rec.MinQuantity > winner.MinQuantity
	}
	return rec.ID < winner.ID
}
