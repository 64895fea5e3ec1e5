package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/enums"
	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/metrics"
	"github.com/mercatohq/pricing-service/pkg/pagination"
)

const (
	opResolve        = "resolve"
	opResolveCatalog = "resolve_catalog"
	opResolveBulk    = "resolve_bulk"
	opTiers          = "tiers"
)

// PricingRepository is the persistence surface the service needs.
type PricingRepository interface {
	ListActiveByVariant(context.Context, int64) ([]models.PriceRecord, error)
	ListActiveByVariants(context.Context, []int64) ([]models.PriceRecord, error)
	ListPriceRecords(context.Context, *int64, *pagination.Cursor, int) ([]models.PriceRecord, error)
	FindCatalog(context.Context, int64) (*models.Catalog, error)
	DefaultCatalog(context.Context) (*models.Catalog, error)
	FindPriceRecord(context.Context, int64) (*models.PriceRecord, error)
	CreatePriceRecord(context.Context, *models.PriceRecord) (*models.PriceRecord, error)
	UpdatePriceRecord(context.Context, *models.PriceRecord) (*models.PriceRecord, error)
	DeletePriceRecord(context.Context, int64) error
	SaveCatalog(context.Context, *models.Catalog) (*models.Catalog, error)
}

// Service exposes price resolution and the admin write path.
//
// A nil *ResolvedPriceDTO with a nil error means "no price configured",
// a legitimate state callers must branch on, not a failure.
type Service interface {
	ResolvePrice(ctx context.Context, raw RawContextInput, variantID int64) (*ResolvedPriceDTO, error)
	ResolveCatalogPrice(ctx context.Context, raw RawContextInput, variantID int64) (*ResolvedPriceDTO, error)
	ResolvePrices(ctx context.Context, raw RawContextInput, variantIDs []int64) (map[int64]*ResolvedPriceDTO, error)
	PriceTiers(ctx context.Context, raw RawContextInput, variantID int64) ([]TierDTO, error)

	ListPriceRecords(ctx context.Context, variantID *int64, params pagination.Params) (*PriceRecordPage, error)
	UpsertPriceRecord(ctx context.Context, input PriceRecordInput) (*models.PriceRecord, error)
	DeletePriceRecord(ctx context.Context, id int64) error
	SaveCatalog(ctx context.Context, input CatalogInput) (*models.Catalog, error)
}

type service struct {
	repo            PricingRepository
	cache           *CandidateCache
	metrics         *metrics.ResolutionMetrics
	defaultCurrency string
}

// NewService builds a pricing service backed by the provided stack. The cache
// and metrics may be nil.
func NewService(repo PricingRepository, cache *CandidateCache, m *metrics.ResolutionMetrics, defaultCurrency string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if defaultCurrency == "" {
		return nil, fmt.Errorf("default currency required")
	}
	return &service{
		repo:            repo,
		cache:           cache,
		metrics:         m,
		defaultCurrency: defaultCurrency,
	}, nil
}

// ResolvePrice resolves the variant's base price: records are taken as
// already final for their scope, no runtime catalog math.
func (s *service) ResolvePrice(ctx context.Context, raw RawContextInput, variantID int64) (*ResolvedPriceDTO, error) {
	defer s.observe(opResolve, time.Now())

	pctx, err := BuildContext(raw, s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, variantID)
	if err != nil {
		return nil, err
	}

	winner := Resolve(pctx, candidates)
	if winner == nil {
		s.metrics.IncNoPrice(opResolve)
		return nil, nil
	}

	s.metrics.IncResolved(opResolve)
	return NewResolvedPriceDTO(variantID, FromRecord(*winner)), nil
}

// ResolveCatalogPrice resolves the variant's price and, when the catalog in
// play carries a runtime adjustment, applies it to the winning record. A
// context without a catalog falls back to the default catalog when one is
// configured. Catalogs with AdjustmentTypeNone behave exactly like
// ResolvePrice: their records already store final amounts.
func (s *service) ResolveCatalogPrice(ctx context.Context, raw RawContextInput, variantID int64) (*ResolvedPriceDTO, error) {
	defer s.observe(opResolveCatalog, time.Now())

	pctx, err := BuildContext(raw, s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	var catalog *models.Catalog
	if pctx.CatalogID != nil {
		catalog, err = s.repo.FindCatalog(ctx, *pctx.CatalogID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
		}
	} else {
		// no default catalog is a valid state, not an error
		catalog, err = s.repo.DefaultCatalog(ctx)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load default catalog")
			}
			catalog = nil
		}
	}

	candidates, err := s.loadCandidates(ctx, variantID)
	if err != nil {
		return nil, err
	}

	winner := Resolve(pctx, candidates)
	if winner == nil {
		s.metrics.IncNoPrice(opResolveCatalog)
		return nil, nil
	}

	s.metrics.IncResolved(opResolveCatalog)
	return NewResolvedPriceDTO(variantID, Adjust(*winner, catalog)), nil
}

// ResolvePrices resolves many variants against one context. Candidates are
// loaded with a single query (or from cache), partitioned once and resolved
// per variant; unpriced variants map to nil.
func (s *service) ResolvePrices(ctx context.Context, raw RawContextInput, variantIDs []int64) (map[int64]*ResolvedPriceDTO, error) {
	defer s.observe(opResolveBulk, time.Now())

	pctx, err := BuildContext(raw, s.defaultCurrency)
	if err != nil {
		return nil, err
	}
	if len(variantIDs) == 0 {
		return map[int64]*ResolvedPriceDTO{}, nil
	}

	records, err := s.loadCandidatesBulk(ctx, variantIDs)
	if err != nil {
		return nil, err
	}

	resolved := ResolveBulk(variantIDs, pctx, records)

	results := make(map[int64]*ResolvedPriceDTO, len(variantIDs))
	for variantID, winner := range resolved {
		if winner == nil {
			s.metrics.IncNoPrice(opResolveBulk)
			results[variantID] = nil
			continue
		}
		s.metrics.IncResolved(opResolveBulk)
		results[variantID] = NewResolvedPriceDTO(variantID, FromRecord(*winner))
	}
	return results, nil
}

// PriceTiers returns the variant's quantity-break table for the context.
func (s *service) PriceTiers(ctx context.Context, raw RawContextInput, variantID int64) ([]TierDTO, error) {
	defer s.observe(opTiers, time.Now())

	pctx, err := BuildContext(raw, s.defaultCurrency)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, variantID)
	if err != nil {
		return nil, err
	}

	tiers := Tiers(pctx, candidates)
	rows := make([]TierDTO, 0, len(tiers))
	for _, tier := range tiers {
		rows = append(rows, NewTierDTO(tier))
	}
	return rows, nil
}

// PriceRecordPage is one page of the admin rule listing.
type PriceRecordPage struct {
	Records    []models.PriceRecord
	NextCursor string
}

// ListPriceRecords pages through the stored rules for the admin surface.
func (s *service) ListPriceRecords(ctx context.Context, variantID *int64, params pagination.Params) (*PriceRecordPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	records, err := s.repo.ListPriceRecords(ctx, variantID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price records")
	}

	page := &PriceRecordPage{Records: records}
	if len(records) > limit {
		page.Records = records[:limit]
		last := page.Records[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// PriceRecordInput captures the admin payload for creating or updating a rule.
type PriceRecordInput struct {
	ID                   *int64
	ProductVariantID     int64
	MarketID             *int64
	SiteID               *int64
	ChannelID            *int64
	PriceListID          *int64
	Currency             string
	MinQuantity          int
	MaxQuantity          *int
	AmountCents          int64
	CompareAtAmountCents *int64
	TaxIncluded          bool
	TaxRate              *decimal.Decimal
	IsActive             bool
}

// UpsertPriceRecord validates and persists the rule, then drops the variant's
// cached candidate set.
func (s *service) UpsertPriceRecord(ctx context.Context, input PriceRecordInput) (*models.PriceRecord, error) {
	if input.ProductVariantID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product variant id is required")
	}
	if input.MinQuantity == 0 {
		input.MinQuantity = 1
	}
	if input.MinQuantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min quantity must be at least 1")
	}
	if input.MaxQuantity != nil && *input.MaxQuantity < input.MinQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max quantity must not be below min quantity")
	}
	if input.AmountCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}
	currency, err := NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	record := &models.PriceRecord{
		ProductVariantID:     input.ProductVariantID,
		MarketID:             copyInt64Ptr(input.MarketID),
		SiteID:               copyInt64Ptr(input.SiteID),
		ChannelID:            copyInt64Ptr(input.ChannelID),
		PriceListID:          copyInt64Ptr(input.PriceListID),
		Currency:             currency,
		MinQuantity:          input.MinQuantity,
		MaxQuantity:          input.MaxQuantity,
		AmountCents:          input.AmountCents,
		CompareAtAmountCents: copyInt64Ptr(input.CompareAtAmountCents),
		TaxIncluded:          input.TaxIncluded,
		TaxRate:              copyDecimalPtr(input.TaxRate),
		IsActive:             input.IsActive,
	}

	var saved *models.PriceRecord
	if input.ID != nil {
		record.ID = *input.ID
		saved, err = s.repo.UpdatePriceRecord(ctx, record)
	} else {
		saved, err = s.repo.CreatePriceRecord(ctx, record)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist price record")
	}

	_ = s.cache.Invalidate(ctx, saved.ProductVariantID)
	return saved, nil
}

// DeletePriceRecord removes the rule and drops the variant's cached set.
func (s *service) DeletePriceRecord(ctx context.Context, id int64) error {
	record, err := s.repo.FindPriceRecord(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price record not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price record")
	}

	if err := s.repo.DeletePriceRecord(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price record")
	}

	_ = s.cache.Invalidate(ctx, record.ProductVariantID)
	return nil
}

// CatalogInput captures the admin payload for a catalog and its adjustment policy.
type CatalogInput struct {
	ID                  *int64
	Name                string
	Currency            string
	IsDefault           bool
	AdjustmentType      enums.AdjustmentType
	AdjustmentDirection enums.AdjustmentDirection
	AdjustmentValue     decimal.Decimal
}

// SaveCatalog validates and persists the catalog.
func (s *service) SaveCatalog(ctx context.Context, input CatalogInput) (*models.Catalog, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog name is required")
	}
	currency, err := NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}
	if input.AdjustmentType == "" {
		input.AdjustmentType = enums.AdjustmentTypeNone
	}
	if !input.AdjustmentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid adjustment type")
	}
	if input.AdjustmentDirection == "" {
		input.AdjustmentDirection = enums.AdjustmentDirectionDecrease
	}
	if !input.AdjustmentDirection.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid adjustment direction")
	}
	if input.AdjustmentValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "adjustment value must be non-negative")
	}

	catalog := &models.Catalog{
		Name:                input.Name,
		Currency:            currency,
		IsDefault:           input.IsDefault,
		AdjustmentType:      input.AdjustmentType,
		AdjustmentDirection: input.AdjustmentDirection,
		AdjustmentValue:     input.AdjustmentValue,
	}
	if input.ID != nil {
		catalog.ID = *input.ID
	}

	saved, err := s.repo.SaveCatalog(ctx, catalog)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist catalog")
	}
	return saved, nil
}

func (s *service) loadCandidates(ctx context.Context, variantID int64) ([]models.PriceRecord, error) {
	if records, ok := s.cache.Get(ctx, variantID); ok {
		s.metrics.IncCacheHit()
		return records, nil
	}
	s.metrics.IncCacheMiss()

	records, err := s.repo.ListActiveByVariant(ctx, variantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price candidates")
	}
	_ = s.cache.Put(ctx, variantID, records)
	return records, nil
}

func (s *service) loadCandidatesBulk(ctx context.Context, variantIDs []int64) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	var misses []int64

	for _, variantID := range variantIDs {
		if cached, ok := s.cache.Get(ctx, variantID); ok {
			s.metrics.IncCacheHit()
			records = append(records, cached...)
			continue
		}
		s.metrics.IncCacheMiss()
		misses = append(misses, variantID)
	}

	if len(misses) == 0 {
		return records, nil
	}

	loaded, err := s.repo.ListActiveByVariants(ctx, misses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price candidates")
	}

	index := NewIndex(loaded)
	for _, variantID := range misses {
		_ = s.cache.Put(ctx, variantID, index.Candidates(variantID))
	}

	return append(records, loaded...), nil
}

func (s *service) observe(operation string, start time.Time) {
	s.metrics.ObserveDuration(operation, time.Since(start))
}

