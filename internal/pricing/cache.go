package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mercatohq/pricing-service/pkg/db/models"
	"github.com/mercatohq/pricing-service/pkg/redis"
	"go.uber.org/multierr"
)

// CandidateCache keeps the active candidate set per variant in Redis so hot
// variants skip the database. Misses and transport failures both read as a
// miss; resolution falls through to the repository and never fails on the
// cache. A nil cache is a valid no-op.
type CandidateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCandidateCache builds a cache over the shared Redis client.
func NewCandidateCache(client *redis.Client, ttl time.Duration) *CandidateCache {
	if client == nil {
		return nil
	}
	return &CandidateCache{client: client, ttl: ttl}
}

// Get returns the cached candidate set and whether it was present.
func (c *CandidateCache) Get(ctx context.Context, variantID int64) ([]models.PriceRecord, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.client.CandidateKey(variantID))
	if err != nil {
		return nil, false
	}
	var records []models.PriceRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false
	}
	return records, true
}

// Put stores the candidate set, best effort. An empty set is cached too:
// "variant has no prices" is worth remembering.
func (c *CandidateCache) Put(ctx context.Context, variantID int64, records []models.PriceRecord) error {
	if c == nil {
		return nil
	}
	if records == nil {
		records = []models.PriceRecord{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.client.CandidateKey(variantID), payload, c.ttl)
}

// Invalidate drops the cached sets for the given variants.
func (c *CandidateCache) Invalidate(ctx context.Context, variantIDs ...int64) error {
	if c == nil || len(variantIDs) == 0 {
		return nil
	}
	var errs []error
	for _, variantID := range variantIDs {
		if err := c.client.Del(ctx, c.client.CandidateKey(variantID)); err != nil && !errors.Is(err, redis.ErrMiss) {
			errs = append(errs, err)
		}
	}
	return multierr.Combine(errs...)
}
