/*
wallet.go - The aggregate root

PURPOSE:
  The Wallet represents one financial contract. It exclusively owns its
  installments and their components, and is the SOLE entry point for
  contracting and payment operations. Nothing outside this file may
  mutate an installment.

OPERATION FLOW (ReceivePayment):
  1. Locate the open installment by number (fatal NotFound otherwise)
  2. Validate its components - ALL rule failures are aggregated and
     returned with zero mutation
  3. Delegate to the amortization policy, which mutates balances and
     produces the statement
  4. Update installment status, append the statement to the audit log

  AmortizeEarly additionally inspects the statement: if principal was
  reduced, the configured recalculation policy rebuilds every open
  installment due after the target, and the tail is replaced atomically.
  The splice either fully succeeds or leaves the schedule untouched.

CONCURRENCY:
  A Wallet is NOT self-synchronizing. Callers must serialize payment
  operations against the same wallet (the api layer holds a per-wallet
  mutex). Distinct wallets share no state and run fully in parallel.

SEE ALSO:
  - amortize.go: The allocation step
  - recalc.go: The tail-replacement curves
  - errors.go: The two error classes produced here
*/
package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CONFIG - Explicit, constructed once, no global registries
// =============================================================================

// Config carries the policies and parameters a wallet operates under.
// It is fixed at construction time.
type Config struct {
	// Amortization decides payment allocation order. Defaults to
	// PenaltyFirst when left zero.
	Amortization AmortizationPolicy

	// Recalculation rebuilds the future schedule after early paydown.
	// Nil disables recalculation: AmortizeEarly degrades to ReceivePayment.
	Recalculation RecalculationPolicy

	// MonthlyRate is the period rate handed to the recalculation curve.
	MonthlyRate decimal.Decimal

	// Scale is the currency minor unit. Defaults to DefaultScale.
	Scale int32

	// Log receives every produced statement. Nil disables audit logging.
	Log StatementLog
}

// =============================================================================
// WALLET - Aggregate root
// =============================================================================

// Wallet is the aggregate root for one loan-servicing contract.
type Wallet struct {
	id           string
	config       Config
	engine       Engine[FinancialComponent]
	rates        RateLookup
	installments []Installment
}

// NewWallet creates an empty wallet. Installments only come into
// existence through one of the contracting operations.
func NewWallet(id string, cfg Config) *Wallet {
	if len(cfg.Amortization.Order) == 0 {
		cfg.Amortization = PenaltyFirst()
	}
	if cfg.Scale == 0 {
		cfg.Scale = DefaultScale
	}
	return &Wallet{
		id:     id,
		config: cfg,
		engine: NewEngine(ComponentRules()...),
	}
}

func (w *Wallet) ID() string { return w.id }

// Installments returns a copy of the schedule. Mutating the copy has no
// effect on the wallet.
func (w *Wallet) Installments() []Installment {
	out := make([]Installment, len(w.installments))
	copy(out, w.installments)
	for i := range out {
		comps := make([]FinancialComponent, len(w.installments[i].Components))
		copy(comps, w.installments[i].Components)
		out[i].Components = comps
	}
	return out
}

// InstallmentByNumber returns a copy of one installment.
func (w *Wallet) InstallmentByNumber(number int) (Installment, bool) {
	for _, inst := range w.installments {
		if inst.Number == number {
			comps := make([]FinancialComponent, len(inst.Components))
			copy(comps, inst.Components)
			inst.Components = comps
			return inst, true
		}
	}
	return Installment{}, false
}

// =============================================================================
// CONTRACTING OPERATIONS
// =============================================================================

// ContractFixedOperation populates the wallet with installmentCount
// fixed-value installments dividing totalValue evenly (half-up to the
// minor unit; the rounding remainder lands on the last installment so
// the total is conserved exactly). Due dates are monthly from
// firstDueDate. Fails with ErrAlreadyContracted on a populated wallet.
func (w *Wallet) ContractFixedOperation(totalValue decimal.Decimal, installmentCount int, firstDueDate time.Time) ([]Installment, error) {
	if len(w.installments) > 0 {
		return nil, ErrAlreadyContracted
	}
	if installmentCount <= 0 || !totalValue.IsPositive() {
		return nil, ErrInvalidContractTerms
	}

	count := decimal.NewFromInt(int64(installmentCount))
	share := RoundMinorUnit(totalValue.Div(count), w.config.Scale)
	last := totalValue.Sub(share.Mul(decimal.NewFromInt(int64(installmentCount - 1))))

	installments := make([]Installment, 0, installmentCount)
	for i := 0; i < installmentCount; i++ {
		value := share
		if i == installmentCount-1 {
			value = last
		}
		installments = append(installments, NewFixedInstallment(
			i+1,
			firstDueDate.AddDate(0, i, 0),
			NewComponent(KindPrincipal, value),
		))
	}

	w.installments = installments
	return w.Installments(), nil
}

// ContractIndexLinkedOperation populates the wallet with installments
// sharing the same base value and market index. The injected rate
// lookup is retained for value computation.
func (w *Wallet) ContractIndexLinkedOperation(baseValue decimal.Decimal, installmentCount int, index Index, firstDueDate time.Time, rates RateLookup) ([]Installment, error) {
	if len(w.installments) > 0 {
		return nil, ErrAlreadyContracted
	}
	if installmentCount <= 0 || !baseValue.IsPositive() {
		return nil, ErrInvalidContractTerms
	}
	if rates == nil {
		return nil, ErrRateLookupRequired
	}

	installments := make([]Installment, 0, installmentCount)
	for i := 0; i < installmentCount; i++ {
		installments = append(installments, NewIndexLinkedInstallment(
			i+1,
			firstDueDate.AddDate(0, i, 0),
			baseValue,
			index,
		))
	}

	w.rates = rates
	w.installments = installments
	return w.Installments(), nil
}

// =============================================================================
// PAYMENT OPERATIONS
// =============================================================================

// ReceivePayment settles amount against the open installment with the
// given number.
//
// Failure paths, in order:
//   - *NotFoundError (fatal precondition) when no open installment
//     carries the number
//   - *ValidationFailure carrying EVERY failed component rule, with
//     zero mutation
//
// A non-positive amount is a policy no-op: (nil, nil), no mutation.
// On success the statement is appended to the audit log; a log failure
// is returned alongside the statement since the payment has already
// been applied.
func (w *Wallet) ReceivePayment(ctx context.Context, installmentNumber int, amount decimal.Decimal) (*AmortizationStatement, error) {
	inst := w.openInstallment(installmentNumber)
	if inst == nil {
		return nil, &NotFoundError{WalletID: w.id, Number: installmentNumber}
	}

	if errs := w.engine.ValidateAll(inst.Components); len(errs) > 0 {
		return nil, &ValidationFailure{Errors: errs}
	}

	stmt := w.config.Amortization.Apply(inst.Components, amount)
	if stmt == nil {
		return nil, nil
	}

	inst.MarkPaidIfSettled()

	if w.config.Log != nil {
		rec := StatementRecord{
			WalletID:          w.id,
			InstallmentNumber: inst.Number,
			Statement:         *stmt,
		}
		if err := w.config.Log.Append(ctx, rec); err != nil {
			return stmt, fmt.Errorf("append statement %s: %w", stmt.TransactionID, err)
		}
	}

	return stmt, nil
}

// AmortizeEarly performs ReceivePayment, then rebuilds the future
// schedule when the payment reduced principal. Replaced installments
// are the OPEN ones due after the target; paid installments are never
// touched, even when they sit between the replaced ones. Each
// replacement takes over the exact number and due-date slot of the
// open installment it replaces, so numbers stay unique and due dates
// ascending. The swap is atomic: a recalculation error leaves the
// prior schedule entirely unchanged (the payment itself stands).
func (w *Wallet) AmortizeEarly(ctx context.Context, installmentNumber int, amount decimal.Decimal) (*AmortizationStatement, error) {
	stmt, err := w.ReceivePayment(ctx, installmentNumber, amount)
	if err != nil || stmt == nil {
		return stmt, err
	}
	if w.config.Recalculation == nil || !stmt.PrincipalApplied().IsPositive() {
		return stmt, nil
	}

	target, _ := w.InstallmentByNumber(installmentNumber)

	var futureIdx []int
	for i := range w.installments {
		if w.installments[i].IsOpen() && w.installments[i].DueDate.After(target.DueDate) {
			futureIdx = append(futureIdx, i)
		}
	}
	if len(futureIdx) == 0 {
		return stmt, nil
	}

	remaining := decimal.Zero
	for _, i := range futureIdx {
		remaining = remaining.Add(w.installments[i].OutstandingByKind(KindPrincipal))
	}
	if !remaining.IsPositive() {
		return stmt, nil
	}

	first := w.installments[futureIdx[0]]
	tail, err := w.config.Recalculation.Recompute(RecalcInput{
		RemainingPrincipal: remaining,
		TermCount:          len(futureIdx),
		PeriodRate:         w.config.MonthlyRate,
		FirstDueDate:       first.DueDate,
		FirstNumber:        first.Number,
		Scale:              w.config.Scale,
	})
	if err != nil {
		return stmt, fmt.Errorf("recalculate schedule: %w", err)
	}
	if len(tail) != len(futureIdx) {
		return stmt, fmt.Errorf("recalculate schedule: curve produced %d installments for %d slots", len(tail), len(futureIdx))
	}

	rebuilt := make([]Installment, len(w.installments))
	copy(rebuilt, w.installments)
	for k, i := range futureIdx {
		tail[k].Number = w.installments[i].Number
		tail[k].DueDate = w.installments[i].DueDate
		rebuilt[i] = tail[k]
	}
	w.installments = rebuilt
	return stmt, nil
}

// =============================================================================
// VALUE QUERIES
// =============================================================================

// CurrentValue sums the current value of every open installment at the
// given date. Index-linked installments resolve their correction factor
// through the lookup injected at contracting time.
func (w *Wallet) CurrentValue(ctx context.Context, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range w.installments {
		inst := &w.installments[i]
		if !inst.IsOpen() {
			continue
		}
		value, err := inst.CurrentValue(ctx, asOf, w.rates)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// OutstandingPrincipal sums principal balances across open installments.
func (w *Wallet) OutstandingPrincipal() decimal.Decimal {
	total := decimal.Zero
	for i := range w.installments {
		if w.installments[i].IsOpen() {
			total = total.Add(w.installments[i].OutstandingByKind(KindPrincipal))
		}
	}
	return total
}

// openInstallment returns a pointer into the owned slice, for mutation.
// Never escapes the aggregate.
func (w *Wallet) openInstallment(number int) *Installment {
	for i := range w.installments {
		if w.installments[i].Number == number && w.installments[i].IsOpen() {
			return &w.installments[i]
		}
	}
	return nil
}
