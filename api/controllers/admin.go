package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mercatohq/pricing-service/api/responses"
	"github.com/mercatohq/pricing-service/api/validators"
	"github.com/mercatohq/pricing-service/internal/pricing"
	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/enums"
	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/logger"
	"github.com/mercatohq/pricing-service/pkg/pagination"
)

type priceRecordPayload struct {
	ProductVariantID     int64            `json:"product_variant_id" validate:"required,min=1"`
	MarketID             *int64           `json:"market_id" validate:"omitempty,min=1"`
	SiteID               *int64           `json:"site_id" validate:"omitempty,min=1"`
	ChannelID            *int64           `json:"channel_id" validate:"omitempty,min=1"`
	PriceListID          *int64           `json:"price_list_id" validate:"omitempty,min=1"`
	Currency             string           `json:"currency" validate:"required,len=3"`
	MinQuantity          int              `json:"min_quantity" validate:"omitempty,min=1"`
	MaxQuantity          *int             `json:"max_quantity" validate:"omitempty,min=1"`
	AmountCents          int64            `json:"amount_cents" validate:"min=0"`
	CompareAtAmountCents *int64           `json:"compare_at_amount_cents" validate:"omitempty,min=0"`
	TaxIncluded          bool             `json:"tax_included"`
	TaxRate              *decimal.Decimal `json:"tax_rate"`
	IsActive             *bool            `json:"is_active"`
}

type catalogPayload struct {
	Name                string          `json:"name" validate:"required"`
	Currency            string          `json:"currency" validate:"required,len=3"`
	IsDefault           bool            `json:"is_default"`
	AdjustmentType      string          `json:"adjustment_type" validate:"omitempty,oneof=none percentage fixed"`
	AdjustmentDirection string          `json:"adjustment_direction" validate:"omitempty,oneof=increase decrease"`
	AdjustmentValue     decimal.Decimal `json:"adjustment_value"`
}

func toPriceRecordInput(payload priceRecordPayload, id *int64) pricing.PriceRecordInput {
	active := true
	if payload.IsActive != nil {
		active = *payload.IsActive
	}
	return pricing.PriceRecordInput{
		ID:                   id,
		ProductVariantID:     payload.ProductVariantID,
		MarketID:             payload.MarketID,
		SiteID:               payload.SiteID,
		ChannelID:            payload.ChannelID,
		PriceListID:          payload.PriceListID,
		Currency:             payload.Currency,
		MinQuantity:          payload.MinQuantity,
		MaxQuantity:          payload.MaxQuantity,
		AmountCents:          payload.AmountCents,
		CompareAtAmountCents: payload.CompareAtAmountCents,
		TaxIncluded:          payload.TaxIncluded,
		TaxRate:              payload.TaxRate,
		IsActive:             active,
	}
}

type priceRecordPageResponse struct {
	Records    []models.PriceRecord `json:"records"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// AdminListPriceRecords pages through stored rules, optionally filtered by
// variant via the variant_id query parameter.
func AdminListPriceRecords(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var variantID *int64
		if raw := strings.TrimSpace(r.URL.Query().Get("variant_id")); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant_id must be a positive integer"))
				return
			}
			variantID = &parsed
		}

		page, err := svc.ListPriceRecords(r.Context(), variantID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := priceRecordPageResponse{Records: page.Records, NextCursor: page.NextCursor}
		if payload.Records == nil {
			payload.Records = []models.PriceRecord{}
		}
		responses.WriteSuccess(w, payload)
	}
}

// AdminCreatePriceRecord persists a new price rule.
func AdminCreatePriceRecord(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload priceRecordPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.UpsertPriceRecord(r.Context(), toPriceRecordInput(payload, nil))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, saved)
	}
}

// AdminUpdatePriceRecord replaces an existing price rule.
func AdminUpdatePriceRecord(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload priceRecordPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.UpsertPriceRecord(r.Context(), toPriceRecordInput(payload, &id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saved)
	}
}

// AdminDeletePriceRecord removes a price rule.
func AdminDeletePriceRecord(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePriceRecord(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSaveCatalog creates or updates a catalog and its adjustment policy.
func AdminSaveCatalog(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var id *int64
		if raw := chi.URLParam(r, "id"); raw != "" {
			parsed, err := validators.ParseIDParam(r, "id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			id = &parsed
		}

		var payload catalogPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		saved, err := svc.SaveCatalog(r.Context(), pricing.CatalogInput{
			ID:                  id,
			Name:                payload.Name,
			Currency:            payload.Currency,
			IsDefault:           payload.IsDefault,
			AdjustmentType:      enums.AdjustmentType(payload.AdjustmentType),
			AdjustmentDirection: enums.AdjustmentDirection(payload.AdjustmentDirection),
			AdjustmentValue:     payload.AdjustmentValue,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if id == nil {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, saved)
	}
}
