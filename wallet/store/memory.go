// Package store provides in-memory StatementLog and RateLookup
// implementations, used by tests and development setups.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/wallet"
)

// =============================================================================
// MEMORY STATEMENT LOG - Append-only, for testing/dev
// =============================================================================

type MemoryLog struct {
	mu      sync.RWMutex
	records []wallet.StatementRecord
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Append adds a record. Append-only.
func (m *MemoryLog) Append(_ context.Context, rec wallet.StatementRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Query returns matching records in append (chronological) order.
func (m *MemoryLog) Query(_ context.Context, filter wallet.StatementFilter) ([]wallet.StatementRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []wallet.StatementRecord
	for _, rec := range m.records {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

var _ wallet.StatementLog = (*MemoryLog)(nil)

// =============================================================================
// RATE TABLE - Static in-memory rate lookup
// =============================================================================

// RateTable resolves correction factors from a fixed table keyed by
// index and day. Unknown combinations fail with ErrRateUnavailable.
type RateTable struct {
	mu      sync.RWMutex
	factors map[wallet.Index]map[string]decimal.Decimal
}

func NewRateTable() *RateTable {
	return &RateTable{factors: make(map[wallet.Index]map[string]decimal.Decimal)}
}

// Set registers the correction factor for an index at a date.
func (t *RateTable) Set(index wallet.Index, date time.Time, factor decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.factors[index] == nil {
		t.factors[index] = make(map[string]decimal.Decimal)
	}
	t.factors[index][wallet.DateKey(date)] = factor
}

func (t *RateTable) FetchCorrectionFactor(_ context.Context, index wallet.Index, referenceDate time.Time) (decimal.Decimal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if factor, ok := t.factors[index][wallet.DateKey(referenceDate)]; ok {
		return factor, nil
	}
	return decimal.Zero, &wallet.RateLookupError{Index: index, ReferenceDate: wallet.DateKey(referenceDate)}
}

var _ wallet.RateLookup = (*RateTable)(nil)
