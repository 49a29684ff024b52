/*
validate.go - Generic rule-based validation with error aggregation

PURPOSE:
  A small declarative validation engine: a list of (predicate, error)
  rules for a subject type. Validation applies EVERY rule and collects
  every failure - it never stops at the first one, so the caller always
  sees the complete picture.

KEY PROPERTIES:
  - Side-effect free: validating never mutates the subject
  - Idempotent: validating a valid subject twice succeeds twice
  - Order-independent for correctness: all rules always run
  - Errors are plain data, never panics or control-flow exceptions

USAGE:
  engine := wallet.NewEngine(wallet.ComponentRules()...)
  if errs := engine.Validate(component); len(errs) > 0 {
      // every triggered rule is in errs, in rule order
  }

SEE ALSO:
  - component.go: The reference rule set for components
  - errors.go: ValidationFailure, the aggregate returned by the Wallet
*/
package wallet

// =============================================================================
// VALIDATION ERROR - Plain data, never thrown
// =============================================================================

// ValidationError describes one failed business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string { return e.Field + ": " + e.Message }

// =============================================================================
// RULE - One (predicate, error) pair
// =============================================================================

// Rule pairs a stateless predicate with the error reported when it fails.
type Rule[T any] struct {
	Check func(T) bool
	Err   ValidationError
}

// =============================================================================
// ENGINE - Applies all rules, aggregates all failures
// =============================================================================

// Engine validates subjects of type T against a fixed rule set.
type Engine[T any] struct {
	rules []Rule[T]
}

// NewEngine builds a validation engine from the given rules.
func NewEngine[T any](rules ...Rule[T]) Engine[T] {
	return Engine[T]{rules: rules}
}

// Validate applies every rule to the subject. It returns nil when all
// rules pass, otherwise the complete ordered list of triggered errors.
func (e Engine[T]) Validate(subject T) []ValidationError {
	var errs []ValidationError
	for _, r := range e.rules {
		if !r.Check(subject) {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// ValidateAll validates every subject, flattening all failures into one
// ordered list. Used for installment-level validation across components.
func (e Engine[T]) ValidateAll(subjects []T) []ValidationError {
	var errs []ValidationError
	for _, s := range subjects {
		errs = append(errs, e.Validate(s)...)
	}
	return errs
}
