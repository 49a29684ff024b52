/*
Package rates provides RateLookup decorators.

PURPOSE:
  Correction-factor lookups hit an external market-data source, which
  is slow and rate-limited. The Cache decorator memoizes resolved
  factors in Redis so repeated valuations of the same index/date pair
  skip the upstream call.

FAILURE MODEL:
  The cache is best-effort: a Redis failure (down, unreachable, bad
  payload) falls through to the inner lookup. Only the inner lookup's
  errors propagate to the caller.

USAGE:
  client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
  lookup := rates.NewCache(client, upstream, 24*time.Hour)
  factor, err := lookup.FetchCorrectionFactor(ctx, wallet.IndexIPCA, date)

SEE ALSO:
  - wallet/rates.go: The RateLookup contract
  - wallet/store/memory.go: Static table used as inner lookup in tests
*/
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/wallet"
)

// Cache is a Redis-backed memoizing decorator around a RateLookup.
type Cache struct {
	client *redis.Client
	inner  wallet.RateLookup
	ttl    time.Duration
}

func NewCache(client *redis.Client, inner wallet.RateLookup, ttl time.Duration) *Cache {
	return &Cache{client: client, inner: inner, ttl: ttl}
}

func (c *Cache) FetchCorrectionFactor(ctx context.Context, index wallet.Index, referenceDate time.Time) (decimal.Decimal, error) {
	key := rateKey(index, referenceDate)

	if cached, err := c.client.Get(ctx, key).Result(); err == nil {
		if factor, perr := decimal.NewFromString(cached); perr == nil {
			return factor, nil
		}
	}

	factor, err := c.inner.FetchCorrectionFactor(ctx, index, referenceDate)
	if err != nil {
		return decimal.Zero, err
	}

	// Best-effort write; a failed Set only costs the next caller a miss.
	c.client.Set(ctx, key, factor.String(), c.ttl)

	return factor, nil
}

func rateKey(index wallet.Index, referenceDate time.Time) string {
	return fmt.Sprintf("rate:%s:%s", index, wallet.DateKey(referenceDate))
}

var _ wallet.RateLookup = (*Cache)(nil)
