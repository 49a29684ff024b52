/*
rates.go - The external rate-lookup capability

PURPOSE:
  Index-linked installments value themselves against a market index
  (IPCA, IGP-M, CDI, ...). The wallet does not know curve mathematics;
  it consumes an injected RateLookup that resolves an (index, date)
  pair to a correction factor.

FAILURE MODEL:
  A failed lookup is NOT a business validation error. It propagates
  into the calling operation's failure path as ErrRateUnavailable.
  Retries, timeouts and backoff are the caller's responsibility.

IMPLEMENTATIONS:
  - wallet/store: static in-memory rate table (tests, fixtures)
  - rates: Redis-cached decorator over any inner lookup

SEE ALSO:
  - installment.go: Where the correction factor is applied
*/
package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INDEX - Market indices an installment can be linked to
// =============================================================================

type Index string

const (
	IndexIPCA Index = "ipca"
	IndexIGPM Index = "igpm"
	IndexCDI  Index = "cdi"
	IndexTR   Index = "tr"
)

// =============================================================================
// RATE LOOKUP - Injected capability, potentially blocking
// =============================================================================

// RateLookup resolves a market index and reference date to a correction
// factor. Implementations may block on network or disk; the context
// carries cancellation and deadlines.
type RateLookup interface {
	// FetchCorrectionFactor returns the multiplicative correction factor
	// for the index at the reference date, or an error wrapping
	// ErrRateUnavailable when the combination cannot be resolved.
	FetchCorrectionFactor(ctx context.Context, index Index, referenceDate time.Time) (decimal.Decimal, error)
}

// DateKey normalizes a reference date to its day, the granularity rate
// tables and caches are keyed on.
func DateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }
