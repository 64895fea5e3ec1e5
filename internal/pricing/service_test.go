package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/enums"
	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/pagination"
)

type stubPricingRepo struct {
	records        []models.PriceRecord
	catalog        *models.Catalog
	defaultCatalog *models.Catalog
	catalogErr     error
	listErr        error

	saved       *models.PriceRecord
	savedCat    *models.Catalog
	deletedID   int64
	foundRecord *models.PriceRecord
}

func (s *stubPricingRepo) ListActiveByVariant(_ context.Context, variantID int64) ([]models.PriceRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.PriceRecord
	for _, rec := range s.records {
		if rec.ProductVariantID == variantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubPricingRepo) ListActiveByVariants(_ context.Context, variantIDs []int64) ([]models.PriceRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	wanted := make(map[int64]bool, len(variantIDs))
	for _, id := range variantIDs {
		wanted[id] = true
	}
	var out []models.PriceRecord
	for _, rec := range s.records {
		if wanted[rec.ProductVariantID] {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubPricingRepo) ListPriceRecords(_ context.Context, variantID *int64, cursor *pagination.Cursor, limit int) ([]models.PriceRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.PriceRecord
	for _, rec := range s.records {
		if variantID != nil && rec.ProductVariantID != *variantID {
			continue
		}
		if cursor != nil && rec.ID <= cursor.ID {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubPricingRepo) FindCatalog(context.Context, int64) (*models.Catalog, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return s.catalog, nil
}

func (s *stubPricingRepo) DefaultCatalog(context.Context) (*models.Catalog, error) {
	if s.defaultCatalog == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.defaultCatalog, nil
}

func (s *stubPricingRepo) FindPriceRecord(context.Context, int64) (*models.PriceRecord, error) {
	if s.foundRecord == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.foundRecord, nil
}

func (s *stubPricingRepo) CreatePriceRecord(_ context.Context, rec *models.PriceRecord) (*models.PriceRecord, error) {
	rec.ID = 101
	s.saved = rec
	return rec, nil
}

func (s *stubPricingRepo) UpdatePriceRecord(_ context.Context, rec *models.PriceRecord) (*models.PriceRecord, error) {
	s.saved = rec
	return rec, nil
}

func (s *stubPricingRepo) DeletePriceRecord(_ context.Context, id int64) error {
	s.deletedID = id
	return nil
}

func (s *stubPricingRepo) SaveCatalog(_ context.Context, cat *models.Catalog) (*models.Catalog, error) {
	if cat.ID == 0 {
		cat.ID = 7
	}
	s.savedCat = cat
	return cat, nil
}

func newTestService(t *testing.T, repo PricingRepository) Service {
	t.Helper()

	svc, err := NewService(repo, nil, nil, "USD")
	if err != nil {
		t.Fatalf("unexpected error building service: %v", err)
	}
	return svc
}

func TestServiceResolvePrice(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{records: []models.PriceRecord{
		{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
		{ID: 2, ProductVariantID: 10, Currency: "USD", MinQuantity: 10, AmountCents: 2250, IsActive: true},
	}}
	svc := newTestService(t, repo)

	got, err := svc.ResolvePrice(context.Background(), RawContextInput{Quantity: 12}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.SourceRecordID != 2 || got.AmountCents != 2250 {
		t.Fatalf("expected tier record 2 at 2250, got %+v", got)
	}
	if got.VariantID != 10 {
		t.Fatalf("expected variant 10, got %d", got.VariantID)
	}
}

func TestServiceResolvePriceNone(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPricingRepo{})

	got, err := svc.ResolvePrice(context.Background(), RawContextInput{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil result for unpriced variant, got %+v", got)
	}
}

func TestServiceResolvePriceInvalidContext(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPricingRepo{})

	_, err := svc.ResolvePrice(context.Background(), RawContextInput{Currency: "DOLLARS"}, 10)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceResolveCatalogPriceApplies(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{
		records: []models.PriceRecord{
			{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
		},
		catalog: &models.Catalog{
			ID:                  4,
			AdjustmentType:      enums.AdjustmentTypePercentage,
			AdjustmentDirection: enums.AdjustmentDirectionDecrease,
			AdjustmentValue:     decimal.NewFromInt(20),
		},
	}
	svc := newTestService(t, repo)

	catalogID := int64(4)
	got, err := svc.ResolveCatalogPrice(context.Background(), RawContextInput{CatalogID: &catalogID}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.AmountCents != 2000 {
		t.Fatalf("expected adjusted 2000, got %+v", got)
	}
	if got.AppliedAdjustment == nil || got.AppliedAdjustment.Type != enums.AdjustmentTypePercentage.String() {
		t.Fatalf("expected applied adjustment, got %+v", got.AppliedAdjustment)
	}
}

func TestServiceResolveCatalogPriceMissingCatalog(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{catalogErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo)

	catalogID := int64(4)
	_, err := svc.ResolveCatalogPrice(context.Background(), RawContextInput{CatalogID: &catalogID}, 10)
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceResolveCatalogPriceNoCatalogInContext(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{records: []models.PriceRecord{
		{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
	}}
	svc := newTestService(t, repo)

	got, err := svc.ResolveCatalogPrice(context.Background(), RawContextInput{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.AmountCents != 2500 || got.AppliedAdjustment != nil {
		t.Fatalf("expected base price without adjustment, got %+v", got)
	}
}

func TestServiceResolveCatalogPriceDefaultFallback(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{
		records: []models.PriceRecord{
			{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
		},
		defaultCatalog: &models.Catalog{
			ID:                  9,
			IsDefault:           true,
			AdjustmentType:      enums.AdjustmentTypePercentage,
			AdjustmentDirection: enums.AdjustmentDirectionDecrease,
			AdjustmentValue:     decimal.NewFromInt(10),
		},
	}
	svc := newTestService(t, repo)

	got, err := svc.ResolveCatalogPrice(context.Background(), RawContextInput{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.AmountCents != 2250 {
		t.Fatalf("expected default catalog to adjust 2500 to 2250, got %+v", got)
	}
	if got.AppliedAdjustment == nil {
		t.Fatal("expected applied adjustment from the default catalog")
	}
}

func TestServiceResolvePrices(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{records: []models.PriceRecord{
		{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
		{ID: 2, ProductVariantID: 11, Currency: "USD", MinQuantity: 1, AmountCents: 900, IsActive: true},
	}}
	svc := newTestService(t, repo)

	got, err := svc.ResolvePrices(context.Background(), RawContextInput{}, []int64{10, 11, 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[10] == nil || got[10].AmountCents != 2500 {
		t.Fatalf("variant 10: got %+v", got[10])
	}
	if got[11] == nil || got[11].AmountCents != 900 {
		t.Fatalf("variant 11: got %+v", got[11])
	}
	if got[12] != nil {
		t.Fatalf("variant 12: expected nil, got %+v", got[12])
	}
}

func TestServicePriceTiers(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{records: []models.PriceRecord{
		{ID: 3, ProductVariantID: 10, Currency: "USD", MinQuantity: 50, AmountCents: 2000, IsActive: true},
		{ID: 1, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 2500, IsActive: true},
	}}
	svc := newTestService(t, repo)

	tiers, err := svc.PriceTiers(context.Background(), RawContextInput{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tiers) != 2 || tiers[0].RecordID != 1 || tiers[1].RecordID != 3 {
		t.Fatalf("expected tiers ordered by min quantity, got %+v", tiers)
	}
}

func TestServiceListPriceRecordsPaging(t *testing.T) {
	t.Parallel()

	var records []models.PriceRecord
	for i := int64(1); i <= 30; i++ {
		records = append(records, models.PriceRecord{ID: i, ProductVariantID: 10, Currency: "USD", MinQuantity: 1, AmountCents: 100 * i, IsActive: true})
	}
	svc := newTestService(t, &stubPricingRepo{records: records})

	page, err := svc.ListPriceRecords(context.Background(), nil, pagination.Params{Limit: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Records) != 25 {
		t.Fatalf("expected 25 records, got %d", len(page.Records))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor for remaining rows")
	}

	next, err := svc.ListPriceRecords(context.Background(), nil, pagination.Params{Limit: 25, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Records) != 5 || next.NextCursor != "" {
		t.Fatalf("expected final page of 5, got %d (cursor %q)", len(next.Records), next.NextCursor)
	}
}

func TestServiceListPriceRecordsBadCursor(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPricingRepo{})

	_, err := svc.ListPriceRecords(context.Background(), nil, pagination.Params{Cursor: "!!!"})
	if err == nil {
		t.Fatal("expected error for malformed cursor")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceUpsertPriceRecordValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPricingRepo{})

	cases := []struct {
		name  string
		input PriceRecordInput
	}{
		{"missing variant", PriceRecordInput{Currency: "USD", AmountCents: 100}},
		{"bad currency", PriceRecordInput{ProductVariantID: 10, Currency: "XX", AmountCents: 100}},
		{"negative amount", PriceRecordInput{ProductVariantID: 10, Currency: "USD", AmountCents: -1}},
		{"inverted band", PriceRecordInput{ProductVariantID: 10, Currency: "USD", MinQuantity: 10, MaxQuantity: iptr(5)}},
	}
	for _, tc := range cases {
		_, err := svc.UpsertPriceRecord(context.Background(), tc.input)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: unexpected error code: %v", tc.name, err)
		}
	}
}

func TestServiceUpsertPriceRecordCreate(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{}
	svc := newTestService(t, repo)

	saved, err := svc.UpsertPriceRecord(context.Background(), PriceRecordInput{
		ProductVariantID: 10,
		Currency:         "usd",
		AmountCents:      2500,
		IsActive:         true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != 101 || repo.saved == nil {
		t.Fatalf("expected create through repo, got %+v", saved)
	}
	if saved.Currency != "USD" {
		t.Fatalf("expected normalized currency, got %q", saved.Currency)
	}
	if saved.MinQuantity != 1 {
		t.Fatalf("expected min quantity default 1, got %d", saved.MinQuantity)
	}
}

func TestServiceDeletePriceRecordNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubPricingRepo{})

	err := svc.DeletePriceRecord(context.Background(), 55)
	if err == nil {
		t.Fatal("expected error for missing record")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServiceDeletePriceRecord(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{foundRecord: &models.PriceRecord{ID: 55, ProductVariantID: 10}}
	svc := newTestService(t, repo)

	if err := svc.DeletePriceRecord(context.Background(), 55); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletedID != 55 {
		t.Fatalf("expected delete of record 55, got %d", repo.deletedID)
	}
}

func TestServiceSaveCatalogDefaultsAndValidation(t *testing.T) {
	t.Parallel()

	repo := &stubPricingRepo{}
	svc := newTestService(t, repo)

	saved, err := svc.SaveCatalog(context.Background(), CatalogInput{Name: "Wholesale", Currency: "usd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.AdjustmentType != enums.AdjustmentTypeNone {
		t.Fatalf("expected adjustment type default none, got %s", saved.AdjustmentType)
	}
	if saved.Currency != "USD" {
		t.Fatalf("expected normalized currency, got %q", saved.Currency)
	}

	_, err = svc.SaveCatalog(context.Background(), CatalogInput{
		Name:            "Bad",
		Currency:        "USD",
		AdjustmentType:  enums.AdjustmentType("unknown"),
		AdjustmentValue: decimal.NewFromInt(10),
	})
	if err == nil {
		t.Fatal("expected error for invalid adjustment type")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}
