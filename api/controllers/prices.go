package controllers

import (
	"context"
	"net/http"

	"github.com/mercatohq/pricing-service/api/responses"
	"github.com/mercatohq/pricing-service/api/validators"
	"github.com/mercatohq/pricing-service/internal/pricing"
	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/logger"
)

type resolvePriceRequest struct {
	VariantID int64                   `json:"variant_id" validate:"required,min=1"`
	Context   pricing.RawContextInput `json:"context"`
}

type resolveBulkRequest struct {
	VariantIDs []int64                 `json:"variant_ids" validate:"required,min=1,max=500,dive,min=1"`
	Context    pricing.RawContextInput `json:"context"`
}

type resolvePriceResponse struct {
	Price *pricing.ResolvedPriceDTO `json:"price"`
}

type resolveBulkResponse struct {
	Prices map[int64]*pricing.ResolvedPriceDTO `json:"prices"`
}

type priceTiersResponse struct {
	Tiers []pricing.TierDTO `json:"tiers"`
}

// resolutionLogContext tags the request logger with the resolution inputs so
// downstream error entries carry the variant, catalog and currency in play.
func resolutionLogContext(r *http.Request, logg *logger.Logger, payload resolvePriceRequest) context.Context {
	ctx := r.Context()
	if logg == nil {
		return ctx
	}
	ctx = logg.WithVariantID(ctx, payload.VariantID)
	if payload.Context.CatalogID != nil {
		ctx = logg.WithCatalogID(ctx, *payload.Context.CatalogID)
	}
	if payload.Context.Currency != "" {
		ctx = logg.WithCurrency(ctx, payload.Context.Currency)
	}
	return ctx
}

// ResolvePrice resolves one variant's base price for the request context.
// A null price in the response means no rule covers the context.
func ResolvePrice(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload resolvePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := resolutionLogContext(r, logg, payload)

		price, err := svc.ResolveCatalogPrice(ctx, payload.Context, payload.VariantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolvePriceResponse{Price: price})
	}
}

// ResolveBulk resolves a batch of variants against one shared context.
func ResolveBulk(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload resolveBulkRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prices, err := svc.ResolvePrices(r.Context(), payload.Context, payload.VariantIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resolveBulkResponse{Prices: prices})
	}
}

// PriceTiers returns the quantity-break table for one variant.
func PriceTiers(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload resolvePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := resolutionLogContext(r, logg, payload)

		tiers, err := svc.PriceTiers(ctx, payload.Context, payload.VariantID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if tiers == nil {
			tiers = []pricing.TierDTO{}
		}

		responses.WriteSuccess(w, priceTiersResponse{Tiers: tiers})
	}
}
