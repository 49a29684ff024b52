/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the wallet domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY AND DATES:
  Money travels as decimal strings ("1200.00"), never floats.
  Dates travel as "2006-01-02".

VALIDATION:
  Input validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/config.go: ConfigJSON embedded in wallet creation
*/
package api

import (
	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/wallet"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateWalletRequest creates an empty wallet with its servicing config.
type CreateWalletRequest struct {
	ID     string             `json:"id,omitempty"`
	Config factory.ConfigJSON `json:"config"`
}

// ContractFixedRequest populates a wallet with fixed-value installments.
type ContractFixedRequest struct {
	TotalValue       string `json:"total_value"`
	InstallmentCount int    `json:"installment_count"`
	FirstDueDate     string `json:"first_due_date"`
}

// ContractIndexLinkedRequest populates a wallet with index-linked
// installments.
type ContractIndexLinkedRequest struct {
	BaseValue        string `json:"base_value"`
	InstallmentCount int    `json:"installment_count"`
	Index            string `json:"index"`
	FirstDueDate     string `json:"first_due_date"`
}

// PaymentRequest settles an amount against one installment. The same
// body drives both ordinary payments and early amortizations.
type PaymentRequest struct {
	InstallmentNumber int    `json:"installment_number"`
	Amount            string `json:"amount"`
}

// SetRateRequest seeds a correction factor in the rate table.
type SetRateRequest struct {
	Index  string `json:"index"`
	Date   string `json:"date"`
	Factor string `json:"factor"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// WalletDTO represents a wallet in API responses.
type WalletDTO struct {
	ID                   string           `json:"id"`
	OutstandingPrincipal string           `json:"outstanding_principal"`
	Installments         []InstallmentDTO `json:"installments"`
}

// InstallmentDTO represents one installment.
type InstallmentDTO struct {
	Number     int            `json:"number"`
	DueDate    string         `json:"due_date"`
	Status     string         `json:"status"`
	Kind       string         `json:"kind"`
	Index      string         `json:"index,omitempty"`
	Total      string         `json:"outstanding_total"`
	Components []ComponentDTO `json:"components"`
}

// ComponentDTO represents one financial component.
type ComponentDTO struct {
	Kind               string `json:"kind"`
	OriginalAmount     string `json:"original_amount"`
	OutstandingBalance string `json:"outstanding_balance"`
}

// StatementDTO represents an amortization statement.
type StatementDTO struct {
	TransactionID     string             `json:"transaction_id"`
	Timestamp         string             `json:"timestamp"`
	InstallmentNumber int                `json:"installment_number,omitempty"`
	AmountPaid        string             `json:"amount_paid"`
	PolicyName        string             `json:"policy_name"`
	Lines             []StatementLineDTO `json:"lines"`
	TotalApplied      string             `json:"total_applied"`
	UnusedAmount      string             `json:"unused_amount"`
}

// StatementLineDTO represents one per-component detail entry.
type StatementLineDTO struct {
	Kind          string `json:"kind"`
	BalanceBefore string `json:"balance_before"`
	AmountApplied string `json:"amount_applied"`
	BalanceAfter  string `json:"balance_after"`
}

// ErrorResponse is the JSON error envelope. ValidationErrors is only
// populated for aggregated business-rule failures.
type ErrorResponse struct {
	Error            string               `json:"error"`
	ValidationErrors []ValidationErrorDTO `json:"validation_errors,omitempty"`
}

// ValidationErrorDTO represents one failed business rule.
type ValidationErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toInstallmentDTO(inst wallet.Installment) InstallmentDTO {
	dto := InstallmentDTO{
		Number:  inst.Number,
		DueDate: inst.DueDate.Format("2006-01-02"),
		Status:  string(inst.Status),
		Kind:    string(inst.Kind),
		Index:   string(inst.Index),
		Total:   inst.OutstandingTotal().String(),
	}
	for _, c := range inst.Components {
		dto.Components = append(dto.Components, ComponentDTO{
			Kind:               string(c.Kind),
			OriginalAmount:     c.OriginalAmount.String(),
			OutstandingBalance: c.OutstandingBalance.String(),
		})
	}
	return dto
}

func toStatementDTO(stmt wallet.AmortizationStatement, installmentNumber int) StatementDTO {
	dto := StatementDTO{
		TransactionID:     stmt.TransactionID,
		Timestamp:         stmt.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		InstallmentNumber: installmentNumber,
		AmountPaid:        stmt.AmountPaid.String(),
		PolicyName:        stmt.PolicyName,
		TotalApplied:      stmt.TotalApplied.String(),
		UnusedAmount:      stmt.UnusedAmount.String(),
	}
	for _, l := range stmt.Lines {
		dto.Lines = append(dto.Lines, StatementLineDTO{
			Kind:          string(l.Kind),
			BalanceBefore: l.BalanceBefore.String(),
			AmountApplied: l.AmountApplied.String(),
			BalanceAfter:  l.BalanceAfter.String(),
		})
	}
	return dto
}
