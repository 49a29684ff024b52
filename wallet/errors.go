/*
errors.go - Centralized error types for the wallet engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Two classes exist and are never conflated:

  1. Business validation failures - expected, recoverable, returned as
     an aggregated ordered list (*ValidationFailure). The caller is
     expected to inspect ALL of them, not just the first.
  2. Application precondition violations - programming/integration
     errors (unknown installment, contracting twice). Fatal sentinels,
     never silently swallowed or retried.

  Zero/negative payment amounts belong to NEITHER class: the policy
  treats them as a no-op that produces no statement and no mutation.

USAGE:
  if wallet.IsValidation(err) {
      var vf *wallet.ValidationFailure
      errors.As(err, &vf) // vf.Errors holds every failed rule
  }

SEE ALSO:
  - validate.go: ValidationError and the rule engine
  - wallet.go: Where these errors are produced
*/
package wallet

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAlreadyContracted is returned when a contracting operation is
	// called on a wallet that already has installments.
	ErrAlreadyContracted = errors.New("wallet already contracted")

	// ErrInstallmentNotFound is returned when a payment targets an
	// installment number that does not exist or is already settled.
	ErrInstallmentNotFound = errors.New("open installment not found")

	// ErrValidationFailed is the sentinel wrapped by ValidationFailure.
	ErrValidationFailed = errors.New("validation failed")

	// ErrRateUnavailable is returned by a RateLookup when the index/date
	// combination cannot be resolved.
	ErrRateUnavailable = errors.New("correction factor unavailable")

	// ErrRateLookupRequired is returned when an index-linked operation is
	// attempted without an injected RateLookup.
	ErrRateLookupRequired = errors.New("rate lookup required for index-linked installments")

	// ErrInvalidContractTerms is returned for non-positive totals or
	// installment counts at contracting time.
	ErrInvalidContractTerms = errors.New("invalid contract terms")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationFailure aggregates every business rule that failed for one
// operation. It is the Result-failure arm of validation: non-empty by
// construction, carrying zero mutation with it.
type ValidationFailure struct {
	Errors []ValidationError
}

func (f *ValidationFailure) Error() string {
	return fmt.Sprintf("validation failed with %d error(s): %v", len(f.Errors), f.Errors)
}

func (f *ValidationFailure) Unwrap() error { return ErrValidationFailed }

// NotFoundError reports which installment a payment tried to target.
type NotFoundError struct {
	WalletID string
	Number   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("wallet %s: no open installment with number %d", e.WalletID, e.Number)
}

func (e *NotFoundError) Unwrap() error { return ErrInstallmentNotFound }

// RateLookupError reports a failed correction-factor resolution.
type RateLookupError struct {
	Index         Index
	ReferenceDate string
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("no correction factor for index %q at %s", e.Index, e.ReferenceDate)
}

func (e *RateLookupError) Unwrap() error { return ErrRateUnavailable }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation returns true for aggregated business-rule failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// IsPrecondition returns true for fatal application precondition
// violations, as opposed to recoverable validation failures.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyContracted) ||
		errors.Is(err, ErrInstallmentNotFound) ||
		errors.Is(err, ErrInvalidContractTerms) ||
		errors.Is(err, ErrRateLookupRequired)
}

// IsRateLookup returns true when an external rate resolution failed.
func IsRateLookup(err error) bool {
	return errors.Is(err, ErrRateUnavailable)
}
