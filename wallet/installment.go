/*
installment.go - The closed installment variant set

PURPOSE:
  An Installment is one scheduled payment obligation inside a wallet.
  Two variants exist, expressed as a closed kind enum on one struct
  rather than an open class hierarchy:

  KindFixedValue:   value fixed at contracting time; only direct
                    amortization changes it.
  KindIndexLinked:  value = outstanding balances x a correction factor
                    resolved through the injected RateLookup for the
                    installment's index at the valuation date.

KEY INVARIANTS:
  - Number is unique within the owning wallet
  - Current value = sum of component outstanding balances
    (times the correction factor for index-linked variants)
  - Status transitions Open -> Paid exactly once, never reopens
  - An installment NEVER references its wallet or sibling installments;
    all cross-installment work is orchestrated top-down by the Wallet

  The correction factor is a valuation overlay: amortization always
  operates on the uncorrected component balances, so a failed lookup
  can never corrupt state.

SEE ALSO:
  - component.go: The value slices summed here
  - rates.go: The lookup capability used by index-linked valuation
  - wallet.go: The only owner and mutator of installments
*/
package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// VARIANTS AND STATUS
// =============================================================================

type InstallmentKind string

const (
	KindFixedValue  InstallmentKind = "fixed_value"
	KindIndexLinked InstallmentKind = "index_linked"
)

type InstallmentStatus string

const (
	StatusOpen InstallmentStatus = "open"
	StatusPaid InstallmentStatus = "paid"
)

// =============================================================================
// INSTALLMENT
// =============================================================================

// Installment is one scheduled payment obligation. Variant-specific data
// (BaseAmount, Index) is only meaningful for KindIndexLinked.
type Installment struct {
	Number     int
	DueDate    time.Time
	Status     InstallmentStatus
	Kind       InstallmentKind
	Components []FinancialComponent

	// Index-linked variant data
	BaseAmount decimal.Decimal
	Index      Index
}

// NewFixedInstallment creates an open fixed-value installment whose value
// is carried entirely by its components.
func NewFixedInstallment(number int, dueDate time.Time, components ...FinancialComponent) Installment {
	return Installment{
		Number:     number,
		DueDate:    dueDate,
		Status:     StatusOpen,
		Kind:       KindFixedValue,
		Components: components,
	}
}

// NewIndexLinkedInstallment creates an open index-linked installment with
// the base amount held as a principal component.
func NewIndexLinkedInstallment(number int, dueDate time.Time, base decimal.Decimal, index Index) Installment {
	return Installment{
		Number:     number,
		DueDate:    dueDate,
		Status:     StatusOpen,
		Kind:       KindIndexLinked,
		Components: []FinancialComponent{NewComponent(KindPrincipal, base)},
		BaseAmount: base,
		Index:      index,
	}
}

// =============================================================================
// VALUE CALCULATION
// =============================================================================

// OutstandingTotal sums the outstanding balances of all components.
func (i *Installment) OutstandingTotal() decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.Components {
		total = total.Add(c.OutstandingBalance)
	}
	return total
}

// CurrentValue computes the installment's value at the given date.
// Fixed-value installments are the plain component sum; index-linked
// installments multiply that sum by the correction factor for their
// index at asOf. A nil lookup on an index-linked installment fails with
// ErrRateLookupRequired; lookup failures propagate unchanged.
func (i *Installment) CurrentValue(ctx context.Context, asOf time.Time, rates RateLookup) (decimal.Decimal, error) {
	total := i.OutstandingTotal()

	switch i.Kind {
	case KindIndexLinked:
		if rates == nil {
			return decimal.Zero, ErrRateLookupRequired
		}
		factor, err := rates.FetchCorrectionFactor(ctx, i.Index, asOf)
		if err != nil {
			return decimal.Zero, err
		}
		return total.Mul(factor), nil
	default:
		return total, nil
	}
}

// Component returns the first component of the given kind, or nil.
func (i *Installment) Component(kind ComponentKind) *FinancialComponent {
	for idx := range i.Components {
		if i.Components[idx].Kind == kind {
			return &i.Components[idx]
		}
	}
	return nil
}

// OutstandingByKind sums outstanding balances for one component kind.
func (i *Installment) OutstandingByKind(kind ComponentKind) decimal.Decimal {
	total := decimal.Zero
	for _, c := range i.Components {
		if c.Kind == kind {
			total = total.Add(c.OutstandingBalance)
		}
	}
	return total
}

// =============================================================================
// STATUS TRANSITION
// =============================================================================

// MarkPaidIfSettled transitions Open -> Paid once the component sum
// reaches zero. Paid installments never reopen.
func (i *Installment) MarkPaidIfSettled() {
	if i.Status == StatusOpen && i.OutstandingTotal().IsZero() {
		i.Status = StatusPaid
	}
}

func (i *Installment) IsOpen() bool { return i.Status == StatusOpen }
