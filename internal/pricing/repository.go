package pricing

import (
	"context"

	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/pagination"
	"gorm.io/gorm"
)

// Repository wires together the pricing persistence helpers. Resolution reads
// only active records; the admin write path keeps the stored rules current.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListActiveByVariant loads the active candidate records for one variant.
func (r *Repository) ListActiveByVariant(ctx context.Context, variantID int64) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	if err := r.db.WithContext(ctx).
		Where("product_variant_id = ? AND is_active", variantID).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListActiveByVariants loads active candidates for all variants in one query,
// so bulk resolution never scans per variant.
func (r *Repository) ListActiveByVariants(ctx context.Context, variantIDs []int64) ([]models.PriceRecord, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	var records []models.PriceRecord
	if err := r.db.WithContext(ctx).
		Where("product_variant_id IN ? AND is_active", variantIDs).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListPriceRecords pages through stored rules in insertion order, optionally
// filtered to one variant. Inactive rules are included; this is the admin
// view, not the resolution path.
func (r *Repository) ListPriceRecords(ctx context.Context, variantID *int64, cursor *pagination.Cursor, limit int) ([]models.PriceRecord, error) {
	q := r.db.WithContext(ctx).Model(&models.PriceRecord{})
	if variantID != nil {
		q = q.Where("product_variant_id = ?", *variantID)
	}
	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var records []models.PriceRecord
	if err := q.Order("created_at, id").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindCatalog loads the catalog by ID.
func (r *Repository) FindCatalog(ctx context.Context, id int64) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := r.db.WithContext(ctx).First(&catalog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &catalog, nil
}

// DefaultCatalog loads the catalog flagged as default, if any.
func (r *Repository) DefaultCatalog(ctx context.Context) (*models.Catalog, error) {
	var catalog models.Catalog
	if err := r.db.WithContext(ctx).First(&catalog, "is_default").Error; err != nil {
		return nil, err
	}
	return &catalog, nil
}

// FindPriceRecord loads one price record by ID.
func (r *Repository) FindPriceRecord(ctx context.Context, id int64) (*models.PriceRecord, error) {
	var record models.PriceRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CreatePriceRecord persists a new price rule.
func (r *Repository) CreatePriceRecord(ctx context.Context, record *models.PriceRecord) (*models.PriceRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// UpdatePriceRecord saves all columns of an existing price rule.
func (r *Repository) UpdatePriceRecord(ctx context.Context, record *models.PriceRecord) (*models.PriceRecord, error) {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// DeletePriceRecord removes the price rule by ID.
func (r *Repository) DeletePriceRecord(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.PriceRecord{}, "id = ?", id).Error
}

// SaveCatalog creates or updates the catalog.
func (r *Repository) SaveCatalog(ctx context.Context, catalog *models.Catalog) (*models.Catalog, error) {
	if err := r.db.WithContext(ctx).Save(catalog).Error; err != nil {
		return nil, err
	}
	return catalog, nil
}

// CreateVariant persists a product variant stub.
func (r *Repository) CreateVariant(ctx context.Context, variant *models.ProductVariant) (*models.ProductVariant, error) {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return nil, err
	}
	return variant, nil
}
