/*
component.go - Financial components: the value slices of an installment

PURPOSE:
  A FinancialComponent is one typed slice of an installment's value
  (principal, interest, penalty, fee). It tracks the amount it was
  created with and the balance still outstanding.

CRITICAL INVARIANTS:
  1. 0 <= OutstandingBalance <= OriginalAmount, always
  2. Balances only move DOWN, and only through an AmortizationPolicy
  3. Components never reference their installment or wallet

SEE ALSO:
  - validate.go: The rule engine that checks these invariants
  - amortize.go: The only code allowed to reduce balances
*/
package wallet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// FINANCIAL COMPONENT
// =============================================================================

// FinancialComponent is a mutable value slice of an installment.
// Its balance is reduced only by an AmortizationPolicy allocation step.
type FinancialComponent struct {
	Kind               ComponentKind
	OriginalAmount     decimal.Decimal
	OutstandingBalance decimal.Decimal
}

// NewComponent creates a component with its full amount outstanding.
func NewComponent(kind ComponentKind, amount decimal.Decimal) FinancialComponent {
	return FinancialComponent{
		Kind:               kind,
		OriginalAmount:     amount,
		OutstandingBalance: amount,
	}
}

func (c FinancialComponent) IsSettled() bool { return c.OutstandingBalance.IsZero() }

// =============================================================================
// REFERENCE RULE SET
// =============================================================================

// ComponentRules returns the reference validation rules for a component.
// Every rule is always evaluated; failures are aggregated by the engine.
func ComponentRules() []Rule[FinancialComponent] {
	return []Rule[FinancialComponent]{
		{
			Check: func(c FinancialComponent) bool { return !c.OriginalAmount.IsNegative() },
			Err:   ValidationError{Field: "original_amount", Message: "original amount must not be negative"},
		},
		{
			Check: func(c FinancialComponent) bool { return !c.OutstandingBalance.IsNegative() },
			Err:   ValidationError{Field: "outstanding_balance", Message: "outstanding balance must not be negative"},
		},
		{
			Check: func(c FinancialComponent) bool { return !c.OutstandingBalance.GreaterThan(c.OriginalAmount) },
			Err:   ValidationError{Field: "outstanding_balance", Message: "outstanding balance must not exceed original amount"},
		},
	}
}
