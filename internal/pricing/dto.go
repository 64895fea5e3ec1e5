package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/mercatohq/pricing-service/pkg/db/models"
)

// ResolvedPriceDTO is the resolution payload returned to clients.
type ResolvedPriceDTO struct {
	VariantID            int64                 `json:"variant_id"`
	SourceRecordID       int64                 `json:"source_record_id"`
	AmountCents          int64                 `json:"amount_cents"`
	Currency             string                `json:"currency"`
	CompareAtAmountCents *int64                `json:"compare_at_amount_cents,omitempty"`
	TaxIncluded          bool                  `json:"tax_included"`
	TaxRate              *decimal.Decimal      `json:"tax_rate,omitempty"`
	AppliedAdjustment    *AppliedAdjustmentDTO `json:"applied_adjustment,omitempty"`
}

// AppliedAdjustmentDTO mirrors the catalog transform applied to the amount.
type AppliedAdjustmentDTO struct {
	Type      string          `json:"type"`
	Direction string          `json:"direction"`
	Value     decimal.Decimal `json:"value"`
}

// TierDTO is one row of a quantity-break table.
type TierDTO struct {
	RecordID    int64  `json:"record_id"`
	MinQuantity int    `json:"min_quantity"`
	MaxQuantity *int   `json:"max_quantity,omitempty"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// NewResolvedPriceDTO converts an engine result for the given variant.
func NewResolvedPriceDTO(variantID int64, resolved ResolvedPrice) *ResolvedPriceDTO {
	dto := &ResolvedPriceDTO{
		VariantID:            variantID,
		SourceRecordID:       resolved.SourceRecordID,
		AmountCents:          resolved.AmountCents,
		Currency:             resolved.Currency,
		CompareAtAmountCents: resolved.CompareAtAmountCents,
		TaxIncluded:          resolved.TaxIncluded,
		TaxRate:              resolved.TaxRate,
	}
	if resolved.AppliedAdjustment != nil {
		dto.AppliedAdjustment = &AppliedAdjustmentDTO{
			Type:      resolved.AppliedAdjustment.Type.String(),
			Direction: resolved.AppliedAdjustment.Direction.String(),
			Value:     resolved.AppliedAdjustment.Value,
		}
	}
	return dto
}

// NewTierDTO converts one eligible record to a tier row.
func NewTierDTO(rec models.PriceRecord) TierDTO {
	var maxQty *int
	if rec.MaxQuantity != nil {
		val := *rec.MaxQuantity
		maxQty = &val
	}
	return TierDTO{
		RecordID:    rec.ID,
		MinQuantity: rec.MinQuantity,
		MaxQuantity: maxQty,
		AmountCents: rec.AmountCents,
		Currency:    rec.Currency,
	}
}
