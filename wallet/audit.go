/*
audit.go - Append-only statement log

PURPOSE:
  Every payment event produces an AmortizationStatement. The statement
  log is the immutable audit trail of those events: you can always
  explain how a component balance got to its current state by replaying
  the statements against it.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once written, records cannot be modified
  3. Corrections are new payment events, never edits

IMPLEMENTATIONS:
  - wallet/store: in-memory log for tests and development
  - store/sqlite: production SQLite-backed log

SEE ALSO:
  - amortize.go: Where statements are produced
  - store/sqlite/sqlite.go: Persistent implementation
*/
package wallet

import (
	"context"
	"time"
)

// =============================================================================
// STATEMENT RECORD - Statement plus the keys it is filed under
// =============================================================================

// StatementRecord wraps a statement with the wallet and installment it
// settled against. The statement itself stays free of back-references;
// the keys live only on the log entry.
type StatementRecord struct {
	WalletID          string
	InstallmentNumber int
	Statement         AmortizationStatement
}

// =============================================================================
// STATEMENT LOG - Append-only audit trail
// =============================================================================

// StatementLog stores statement records. Append-only.
type StatementLog interface {
	// Append adds a record. This is the ONLY write operation.
	Append(ctx context.Context, rec StatementRecord) error

	// Query returns matching records in chronological order. Read-only.
	Query(ctx context.Context, filter StatementFilter) ([]StatementRecord, error)
}

// StatementFilter narrows a query. Nil fields match everything.
type StatementFilter struct {
	WalletID          *string
	InstallmentNumber *int
	From              *time.Time
	To                *time.Time
}

// Matches reports whether a record passes the filter.
func (f StatementFilter) Matches(rec StatementRecord) bool {
	if f.WalletID != nil && rec.WalletID != *f.WalletID {
		return false
	}
	if f.InstallmentNumber != nil && rec.InstallmentNumber != *f.InstallmentNumber {
		return false
	}
	if f.From != nil && rec.Statement.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && rec.Statement.Timestamp.After(*f.To) {
		return false
	}
	return true
}
