package pricing

import (
	"strings"

	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
)

// RawContextInput is the unvalidated pricing request as it arrives from a
// caller. Zero-value quantity means "one unit".
type RawContextInput struct {
	MarketID    *int64 `json:"market_id"`
	SiteID      *int64 `json:"site_id"`
	ChannelID   *int64 `json:"channel_id"`
	CatalogID   *int64 `json:"catalog_id"`
	Currency    string `json:"currency"`
	Locale      string `json:"locale"`
	CountryCode string `json:"country_code"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1"`
}

// PricingContext is the normalized, validated request context. Build one with
// BuildContext and treat it as immutable afterwards; resolution never reads
// ambient state.
type PricingContext struct {
	MarketID    *int64
	SiteID      *int64
	ChannelID   *int64
	CatalogID   *int64
	Currency    string
	Locale      *string
	CountryCode *string
	Quantity    int
}

// BuildContext validates and normalizes raw input into a PricingContext.
// Scope IDs pass through untouched; existence checks belong to the data layer.
func BuildContext(raw RawContextInput, defaultCurrency string) (PricingContext, error) {
	quantity := raw.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return PricingContext{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	currency, err := NormalizeCurrency(currency)
	if err != nil {
		return PricingContext{}, err
	}

	var country *string
	if trimmed := strings.ToUpper(strings.TrimSpace(raw.CountryCode)); trimmed != "" {
		if len(trimmed) != 2 || !isUpperAlpha(trimmed) {
			return PricingContext{}, pkgerrors.New(pkgerrors.CodeValidation, "country code must be a 2-letter ISO 3166 code")
		}
		country = &trimmed
	}

	var locale *string
	if trimmed := strings.TrimSpace(raw.Locale); trimmed != "" {
		locale = &trimmed
	}

	return PricingContext{
		MarketID:    copyInt64Ptr(raw.MarketID),
		SiteID:      copyInt64Ptr(raw.SiteID),
		ChannelID:   copyInt64Ptr(raw.ChannelID),
		CatalogID:   copyInt64Ptr(raw.CatalogID),
		Currency:    currency,
		Locale:      locale,
		CountryCode: country,
		Quantity:    quantity,
	}, nil
}

// NormalizeCurrency uppercases and validates a 3-letter ISO 4217 code.
func NormalizeCurrency(value string) (string, error) {
	currency := strings.ToUpper(strings.TrimSpace(value))
	if len(currency) != 3 || !isUpperAlpha(currency) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "currency must be a 3-letter ISO 4217 code")
	}
	return currency, nil
}

func isUpperAlpha(value string) bool {
	for _, r := range value {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func copyInt64Ptr(src *int64) *int64 {
	if src == nil {
		return nil
	}
	val := *src
	return &val
}
