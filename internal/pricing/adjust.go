package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/enums"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// AppliedAdjustment describes the catalog transform applied to a base price.
type AppliedAdjustment struct {
	Type      enums.AdjustmentType      `json:"type"`
	Direction enums.AdjustmentDirection `json:"direction"`
	Value     decimal.Decimal           `json:"value"`
}

// ResolvedPrice is the final output of a resolution: the winning record's
// money fields, optionally reshaped by a catalog adjustment.
type ResolvedPrice struct {
	SourceRecordID       int64
	AmountCents          int64
	Currency             string
	CompareAtAmountCents *int64
	TaxIncluded          bool
	TaxRate              *decimal.Decimal
	AppliedAdjustment    *AppliedAdjustment
}

// FromRecord builds a ResolvedPrice straight from a winning record, for
// catalogs that store already-final per-scope amounts.
func FromRecord(rec models.PriceRecord) ResolvedPrice {
	return ResolvedPrice{
		SourceRecordID:       rec.ID,
		AmountCents:          rec.AmountCents,
		Currency:             rec.Currency,
		CompareAtAmountCents: copyInt64Ptr(rec.CompareAtAmountCents),
		TaxIncluded:          rec.TaxIncluded,
		TaxRate:              copyDecimalPtr(rec.TaxRate),
	}
}

// Adjust applies the catalog's read-time adjustment to the record's amount.
// Percentage math rounds half-up to the nearest minor unit; fixed decreases
// clamp at zero instead of erroring. A nil catalog or AdjustmentTypeNone
// leaves the amount unchanged.
func Adjust(rec models.PriceRecord, catalog *models.Catalog) ResolvedPrice {
	resolved := FromRecord(rec)
	if catalog == nil || catalog.AdjustmentType == enums.AdjustmentTypeNone {
		return resolved
	}

	switch catalog.AdjustmentType {
	case enums.AdjustmentTypePercentage:
		factor := catalog.AdjustmentValue.Div(decimalHundred)
		if catalog.AdjustmentDirection == enums.AdjustmentDirectionDecrease {
			factor = decimalOne.Sub(factor)
		} else {
			factor = decimalOne.Add(factor)
		}
		// shopspring rounds half away from zero, which is half-up for the
		// non-negative amounts this table allows
		adjusted := decimal.NewFromInt(rec.AmountCents).Mul(factor).Round(0).IntPart()
		resolved.AmountCents = clampCents(adjusted)

	case enums.AdjustmentTypeFixed:
		delta := catalog.AdjustmentValue.Round(0).IntPart()
		if catalog.AdjustmentDirection == enums.AdjustmentDirectionDecrease {
			resolved.AmountCents = clampCents(rec.AmountCents - delta)
		} else {
			resolved.AmountCents = rec.AmountCents + delta
		}
	}

	resolved.AppliedAdjustment = &AppliedAdjustment{
		Type:      catalog.AdjustmentType,
		Direction: catalog.AdjustmentDirection,
		Value:     catalog.AdjustmentValue,
	}
	return resolved
}

func clampCents(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	return amount
}

func copyDecimalPtr(src *decimal.Decimal) *decimal.Decimal {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
