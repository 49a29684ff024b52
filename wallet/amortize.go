/*
amortize.go - Payment allocation policies and the audit statement

PURPOSE:
  An AmortizationPolicy decides how one payment is spread across the
  financial components of an installment. Policies differ in exactly
  one axis: the fixed priority order in which component kinds consume
  the payment. Everything else - the min(remaining, balance) walk, the
  per-component detail lines, the conservation guarantee - is shared.

ALGORITHM:
  Walk component kinds in the policy's priority order. For each
  component with a nonzero balance, apply min(remaining, balance),
  reduce the balance, and record a detail line. Stop as soon as the
  remaining amount hits zero.

GUARANTEES:
  - TotalApplied + UnusedAmount == AmountPaid, exactly
  - Detail lines list only components actually touched, in priority order
  - Component balances never go negative and never exceed the original
  - Zero or negative payments are a NO-OP: no statement, no mutation

AUDIT RECORD:
  Every successful application produces an AmortizationStatement - an
  immutable, freely shareable snapshot with no back-reference to the
  wallet. Corrections are new payments, never edits.

SEE ALSO:
  - component.go: The balances being reduced
  - audit.go: The append-only statement log
  - wallet.go: Where the policy is invoked
*/
package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMORTIZATION POLICY - Priority order is the single axis of variation
// =============================================================================

// AmortizationPolicy allocates a payment across components by walking
// component kinds in a fixed priority order.
type AmortizationPolicy struct {
	Name  string
	Order []ComponentKind
}

// PenaltyFirst settles punitive and accessory charges before principal.
// This is the ordinary collections order.
func PenaltyFirst() AmortizationPolicy {
	return AmortizationPolicy{
		Name:  "penalty_first",
		Order: []ComponentKind{KindPenalty, KindInterest, KindFee, KindPrincipal},
	}
}

// PrincipalFirst reduces principal before accessory charges. Used for
// early-paydown products where the goal is shrinking the debt base.
func PrincipalFirst() AmortizationPolicy {
	return AmortizationPolicy{
		Name:  "principal_first",
		Order: []ComponentKind{KindPrincipal, KindFee, KindInterest, KindPenalty},
	}
}

// Apply allocates amountPaid across the components, mutating their
// outstanding balances in place, and returns the resulting statement.
// A non-positive amount is a no-op: nil statement, zero mutation.
func (p AmortizationPolicy) Apply(components []FinancialComponent, amountPaid decimal.Decimal) *AmortizationStatement {
	if !amountPaid.IsPositive() {
		return nil
	}

	remaining := amountPaid
	totalApplied := decimal.Zero
	var lines []StatementLine

	for _, kind := range p.Order {
		if remaining.IsZero() {
			break
		}
		for idx := range components {
			c := &components[idx]
			if c.Kind != kind || c.OutstandingBalance.IsZero() {
				continue
			}
			if remaining.IsZero() {
				break
			}

			applied := decimal.Min(remaining, c.OutstandingBalance)
			before := c.OutstandingBalance
			c.OutstandingBalance = before.Sub(applied)
			remaining = remaining.Sub(applied)
			totalApplied = totalApplied.Add(applied)

			lines = append(lines, StatementLine{
				Kind:          c.Kind,
				BalanceBefore: before,
				AmountApplied: applied,
				BalanceAfter:  c.OutstandingBalance,
			})
		}
	}

	return &AmortizationStatement{
		TransactionID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		AmountPaid:    amountPaid,
		PolicyName:    p.Name,
		Lines:         lines,
		TotalApplied:  totalApplied,
		UnusedAmount:  remaining,
	}
}

// =============================================================================
// AMORTIZATION STATEMENT - Immutable audit record of one payment event
// =============================================================================

// StatementLine records the effect of one payment on one component.
type StatementLine struct {
	Kind          ComponentKind
	BalanceBefore decimal.Decimal
	AmountApplied decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// AmortizationStatement is the immutable record of one payment event.
// TotalApplied + UnusedAmount always equals AmountPaid.
type AmortizationStatement struct {
	TransactionID string
	Timestamp     time.Time
	AmountPaid    decimal.Decimal
	PolicyName    string
	Lines         []StatementLine
	TotalApplied  decimal.Decimal
	UnusedAmount  decimal.Decimal
}

// PrincipalApplied sums the amount the statement applied to principal.
// An early-paydown is detected by this being positive.
func (s *AmortizationStatement) PrincipalApplied() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		if l.Kind == KindPrincipal {
			total = total.Add(l.AmountApplied)
		}
	}
	return total
}
