/*
recalc.go - Schedule recalculation after early principal paydown

PURPOSE:
  When an early payment reduces principal ahead of schedule, the rest
  of the schedule no longer reflects the debt. A RecalculationPolicy
  produces a fully-formed replacement sequence of future installments
  from the new outstanding principal, the remaining term and the rate.

CURVES:
  EqualInstallmentCurve:   constant total installment (Price table /
                           annuity); interest share falls, principal
                           share rises over the term.
  EqualAmortizationCurve:  constant principal share; total installment
                           falls over the term.

CONSERVATION:
  Every curve conserves the remaining principal EXACTLY: per-period
  principal shares are rounded to the minor unit and the accumulated
  rounding remainder lands on the last installment.

  Replaced installments are rebuilt with principal and interest
  components only; fee or penalty balances on them belonged to the
  schedule that no longer exists and are discarded.

SEE ALSO:
  - wallet.go: AmortizeEarly, the only caller
  - installment.go: The installments produced here
*/
package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECALCULATION CONTRACT
// =============================================================================

// RecalcInput carries everything a curve needs to rebuild the future
// schedule. FirstNumber and FirstDueDate continue the numbering and
// monthly spacing of the installments being replaced.
type RecalcInput struct {
	RemainingPrincipal decimal.Decimal
	TermCount          int
	PeriodRate         decimal.Decimal
	FirstDueDate       time.Time
	FirstNumber        int
	Scale              int32
}

// RecalculationPolicy regenerates future installments after an early
// principal reduction. Implementations produce exactly TermCount
// installments and must conserve RemainingPrincipal as the exact sum
// of produced principal components.
type RecalculationPolicy interface {
	Name() string
	Recompute(input RecalcInput) ([]Installment, error)
}

// =============================================================================
// EQUAL INSTALLMENT (PRICE / ANNUITY) CURVE
// =============================================================================

// EqualInstallmentCurve keeps the total installment value constant.
type EqualInstallmentCurve struct{}

func (EqualInstallmentCurve) Name() string { return "equal_installment" }

func (EqualInstallmentCurve) Recompute(input RecalcInput) ([]Installment, error) {
	if input.TermCount <= 0 || !input.RemainingPrincipal.IsPositive() {
		return nil, ErrInvalidContractTerms
	}

	n := int64(input.TermCount)
	r := input.PeriodRate
	payment := annuityPayment(input.RemainingPrincipal, n, r)

	installments := make([]Installment, 0, input.TermCount)
	balance := input.RemainingPrincipal

	for i := 0; i < input.TermCount; i++ {
		interest := RoundMinorUnit(balance.Mul(r), input.Scale)

		var principal decimal.Decimal
		if i == input.TermCount-1 {
			// Rounding remainder lands here so principal is conserved.
			principal = balance
		} else {
			principal = RoundMinorUnit(payment.Sub(interest), input.Scale)
			if principal.GreaterThan(balance) {
				principal = balance
			}
		}
		balance = balance.Sub(principal)

		installments = append(installments, NewFixedInstallment(
			input.FirstNumber+i,
			input.FirstDueDate.AddDate(0, i, 0),
			NewComponent(KindPrincipal, principal),
			NewComponent(KindInterest, interest),
		))
	}

	return installments, nil
}

// annuityPayment is the constant payment P*r*(1+r)^n / ((1+r)^n - 1).
// A zero rate degenerates to an even split.
func annuityPayment(principal decimal.Decimal, periods int64, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return principal.Div(decimal.NewFromInt(periods))
	}
	one := decimal.NewFromInt(1)
	compound := one.Add(rate).Pow(decimal.NewFromInt(periods))
	return principal.Mul(compound).Mul(rate).Div(compound.Sub(one))
}

// =============================================================================
// EQUAL AMORTIZATION (LINEAR) CURVE
// =============================================================================

// EqualAmortizationCurve keeps the principal share constant.
type EqualAmortizationCurve struct{}

func (EqualAmortizationCurve) Name() string { return "equal_amortization" }

func (EqualAmortizationCurve) Recompute(input RecalcInput) ([]Installment, error) {
	if input.TermCount <= 0 || !input.RemainingPrincipal.IsPositive() {
		return nil, ErrInvalidContractTerms
	}

	count := decimal.NewFromInt(int64(input.TermCount))
	share := RoundMinorUnit(input.RemainingPrincipal.Div(count), input.Scale)

	installments := make([]Installment, 0, input.TermCount)
	balance := input.RemainingPrincipal

	for i := 0; i < input.TermCount; i++ {
		interest := RoundMinorUnit(balance.Mul(input.PeriodRate), input.Scale)

		principal := share
		if i == input.TermCount-1 {
			principal = balance
		}
		balance = balance.Sub(principal)

		installments = append(installments, NewFixedInstallment(
			input.FirstNumber+i,
			input.FirstDueDate.AddDate(0, i, 0),
			NewComponent(KindPrincipal, principal),
			NewComponent(KindInterest, interest),
		))
	}

	return installments, nil
}
