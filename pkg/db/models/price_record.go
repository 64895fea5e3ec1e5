package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is one stored price rule for a product variant. Scope columns
// are nullable: a null scope field means the rule applies in every value of
// that dimension. Amounts are minor currency units.
type PriceRecord struct {
	ID               int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductVariantID int64  `gorm:"column:product_variant_id;not null;index:idx_price_records_variant_active,priority:1"`
	MarketID         *int64 `gorm:"column:market_id"`
	SiteID           *int64 `gorm:"column:site_id"`
	ChannelID        *int64 `gorm:"column:channel_id"`
	PriceListID      *int64 `gorm:"column:price_list_id;index"`

	Currency    string `gorm:"column:currency;type:char(3);not null"`
	MinQuantity int    `gorm:"column:min_quantity;not null"`
	MaxQuantity *int   `gorm:"column:max_quantity"`

	AmountCents          int64            `gorm:"column:amount_cents;not null"`
	CompareAtAmountCents *int64           `gorm:"column:compare_at_amount_cents"`
	TaxIncluded          bool             `gorm:"column:tax_included;not null"`
	TaxRate              *decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4)"`

	// No default tags on the bool/int columns: gorm drops zero-valued fields
	// carrying a default from INSERT, which would persist IsActive: false as
	// active. The SQL defaults live in the migrations.
	IsActive bool `gorm:"column:is_active;not null;index:idx_price_records_variant_active,priority:2"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the database table name.
func (PriceRecord) TableName() string { return "price_records" }
