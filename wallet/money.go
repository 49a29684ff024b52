/*
Package wallet provides the loan-servicing contract engine.

PURPOSE:
  This package contains the domain core for a loan-servicing contract
  (the "wallet"): installments whose value is split into financial
  components, payment allocation under pluggable amortization policies,
  rule-based validation with full error aggregation, immutable payment
  statements, and schedule recalculation after early principal paydown.

KEY CONCEPTS IN THIS FILE (money.go):
  - ComponentKind: The typed sub-balances of an installment
  - Minor-unit rounding: All money lands on the currency's minor unit

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Immutability: AmortizationStatements are never modified
  3. Aggregation: Validation reports every failure, never just the first
  4. Single writer: The Wallet is the only entry point for mutation

SEE ALSO:
  - component.go: FinancialComponent and its reference rule set
  - installment.go: The closed installment variant set
  - amortize.go: Payment allocation policies and statements
  - wallet.go: The aggregate root
*/
package wallet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// COMPONENT KINDS - The typed sub-balances of an installment
// =============================================================================

type ComponentKind string

const (
	KindPrincipal ComponentKind = "principal"
	KindInterest  ComponentKind = "interest"
	KindPenalty   ComponentKind = "penalty"
	KindFee       ComponentKind = "fee"
)

// AllComponentKinds lists every kind, in statement-display order.
var AllComponentKinds = []ComponentKind{KindPenalty, KindInterest, KindFee, KindPrincipal}

// =============================================================================
// MINOR-UNIT ROUNDING
// =============================================================================

// DefaultScale is the minor unit of most currencies (cents).
const DefaultScale int32 = 2

// RoundMinorUnit rounds half-up to the given number of decimal places.
func RoundMinorUnit(d decimal.Decimal, scale int32) decimal.Decimal {
	return d.Round(scale)
}

// MustParseDecimal parses a decimal string, returning zero on failure.
// Intended for constants and tests, not for untrusted input.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
