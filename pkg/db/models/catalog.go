package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercatohq/pricing-service/pkg/enums"
)

// Catalog is a price list plus its read-time adjustment policy. Catalogs with
// AdjustmentTypeNone store already-final per-scope amounts; the others store a
// base amount that gets adjusted when the price is resolved.
type Catalog struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;not null"`
	Currency  string `gorm:"column:currency;type:char(3);not null"`
	IsDefault bool   `gorm:"column:is_default;not null"`

	AdjustmentType      enums.AdjustmentType      `gorm:"column:adjustment_type;not null"`
	AdjustmentDirection enums.AdjustmentDirection `gorm:"column:adjustment_direction;not null"`
	AdjustmentValue     decimal.Decimal           `gorm:"column:adjustment_value;type:numeric(12,4);not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the database table name.
func (Catalog) TableName() string { return "catalogs" }
