/*
Package factory provides JSON to Go wallet configuration conversion.

PURPOSE:
  Converts JSON contract definitions into wallet.Config values. This
  enables servicing-policy configuration without code changes - an
  operations team can define allocation order, recalculation curve and
  rates in JSON, and the factory builds the proper Go structs.

  There is deliberately NO process-wide policy registry: the factory
  produces an explicit Config that is handed to NewWallet once, at
  wallet-creation time.

JSON SCHEMA:
  {
    "amortization_policy": "penalty_first",
    "allocation_order": ["penalty", "interest", "fee", "principal"],
    "recalculation_curve": "equal_installment",
    "monthly_rate": "0.01",
    "minor_unit": 2
  }

  allocation_order is optional; when present it overrides the named
  policy's order (the name is kept for statements). recalculation_curve
  "none" (or absence) disables schedule recalculation.

USAGE:
  cfg, err := factory.ParseConfig(jsonStr)
  w := wallet.NewWallet("w-1", cfg)

SEE ALSO:
  - wallet/wallet.go: Config definition
  - wallet/amortize.go: The named policies
  - wallet/recalc.go: The named curves
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/wallet"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ConfigJSON is the JSON representation of a wallet configuration.
type ConfigJSON struct {
	AmortizationPolicy string   `json:"amortization_policy"`
	AllocationOrder    []string `json:"allocation_order,omitempty"`
	RecalculationCurve string   `json:"recalculation_curve,omitempty"`
	MonthlyRate        string   `json:"monthly_rate,omitempty"`
	MinorUnit          int32    `json:"minor_unit,omitempty"`
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ParseConfig parses a JSON string into a wallet.Config.
func ParseConfig(jsonStr string) (wallet.Config, error) {
	var cj ConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return wallet.Config{}, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return FromJSON(cj)
}

// FromJSON converts ConfigJSON to a wallet.Config.
func FromJSON(cj ConfigJSON) (wallet.Config, error) {
	cfg := wallet.Config{
		Scale: cj.MinorUnit,
	}

	policy, err := parseAmortizationPolicy(cj.AmortizationPolicy)
	if err != nil {
		return wallet.Config{}, err
	}
	if len(cj.AllocationOrder) > 0 {
		order, err := parseAllocationOrder(cj.AllocationOrder)
		if err != nil {
			return wallet.Config{}, err
		}
		policy.Order = order
	}
	cfg.Amortization = policy

	cfg.Recalculation, err = parseCurve(cj.RecalculationCurve)
	if err != nil {
		return wallet.Config{}, err
	}

	if cj.MonthlyRate != "" {
		cfg.MonthlyRate, err = decimal.NewFromString(cj.MonthlyRate)
		if err != nil {
			return wallet.Config{}, fmt.Errorf("invalid monthly_rate: %w", err)
		}
	}

	return cfg, nil
}

// ToJSON converts a wallet.Config back to its JSON representation.
func ToJSON(cfg wallet.Config) ConfigJSON {
	cj := ConfigJSON{
		AmortizationPolicy: cfg.Amortization.Name,
		MinorUnit:          cfg.Scale,
	}
	for _, kind := range cfg.Amortization.Order {
		cj.AllocationOrder = append(cj.AllocationOrder, string(kind))
	}
	if cfg.Recalculation != nil {
		cj.RecalculationCurve = cfg.Recalculation.Name()
	}
	if !cfg.MonthlyRate.IsZero() {
		cj.MonthlyRate = cfg.MonthlyRate.String()
	}
	return cj
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseAmortizationPolicy(name string) (wallet.AmortizationPolicy, error) {
	switch name {
	case "", "penalty_first":
		return wallet.PenaltyFirst(), nil
	case "principal_first":
		return wallet.PrincipalFirst(), nil
	default:
		return wallet.AmortizationPolicy{}, fmt.Errorf("unknown amortization policy: %s", name)
	}
}

func parseAllocationOrder(order []string) ([]wallet.ComponentKind, error) {
	kinds := make([]wallet.ComponentKind, 0, len(order))
	for _, s := range order {
		kind, err := parseComponentKind(s)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func parseComponentKind(s string) (wallet.ComponentKind, error) {
	switch s {
	case "principal":
		return wallet.KindPrincipal, nil
	case "interest":
		return wallet.KindInterest, nil
	case "penalty":
		return wallet.KindPenalty, nil
	case "fee":
		return wallet.KindFee, nil
	default:
		return "", fmt.Errorf("unknown component kind: %s", s)
	}
}

func parseCurve(name string) (wallet.RecalculationPolicy, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "equal_installment":
		return wallet.EqualInstallmentCurve{}, nil
	case "equal_amortization":
		return wallet.EqualAmortizationCurve{}, nil
	default:
		return nil, fmt.Errorf("unknown recalculation curve: %s", name)
	}
}
