package models

import "time"

// ProductVariant is the purchasable SKU price records hang off. Catalog and
// merchandising data for variants lives in other services; this table carries
// just enough to anchor foreign keys and admin listings.
type ProductVariant struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SKU      string `gorm:"column:sku;not null;uniqueIndex"`
	Title    string `gorm:"column:title;not null"`
	IsActive bool   `gorm:"column:is_active;not null"`

	PriceRecords []PriceRecord `gorm:"foreignKey:ProductVariantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the database table name.
func (ProductVariant) TableName() string { return "product_variants" }
