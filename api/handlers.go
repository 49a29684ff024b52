/*
handlers.go - HTTP API handlers for the wallet engine

PURPOSE:
  Exposes the wallet aggregate via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Wallets:
    POST   /api/wallets                          Create empty wallet
    GET    /api/wallets/{id}                     Wallet with schedule
    POST   /api/wallets/{id}/contract/fixed      Contract fixed operation
    POST   /api/wallets/{id}/contract/index-linked
    POST   /api/wallets/{id}/payments            Receive payment
    POST   /api/wallets/{id}/early-amortizations Amortize early
    GET    /api/wallets/{id}/statements          Audit trail

  Rates:
    POST   /api/rates                            Seed a correction factor

CONCURRENCY:
  The domain core requires at most one concurrent payment operation per
  wallet. The handler enforces that here with a per-wallet mutex; the
  aggregate itself stays lock-free. Different wallets proceed in
  parallel.

ERROR HANDLING:
  Error classes map to HTTP status codes:
  - 400: Malformed input, non-positive payment amounts
  - 404: Unknown wallet, unknown/settled installment
  - 409: Already-contracted and other precondition conflicts
  - 422: Aggregated business validation failures (all of them)
  - 502: Upstream rate lookup unavailable
  - 500: Everything else

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/factory"
	"github.com/warp/loan-engine/wallet"
	walletstore "github.com/warp/loan-engine/wallet/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Log   wallet.StatementLog
	Rates *walletstore.RateTable

	// Lookup is what index-linked contracts receive; usually the rate
	// table, optionally wrapped in the Redis cache decorator.
	Lookup wallet.RateLookup

	mu      sync.Mutex
	wallets map[string]*walletEntry
}

// walletEntry pairs a wallet with the mutex serializing its payment
// operations.
type walletEntry struct {
	mu sync.Mutex
	w  *wallet.Wallet
}

// NewHandler creates a handler with the given audit log and rate lookup.
func NewHandler(log wallet.StatementLog, rates *walletstore.RateTable, lookup wallet.RateLookup) *Handler {
	if lookup == nil {
		lookup = rates
	}
	return &Handler{
		Log:     log,
		Rates:   rates,
		Lookup:  lookup,
		wallets: make(map[string]*walletEntry),
	}
}

func (h *Handler) entry(id string) *walletEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.wallets[id]
}

// =============================================================================
// WALLET LIFECYCLE
// =============================================================================

// CreateWallet creates an empty wallet from a JSON servicing config.
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cfg, err := factory.FromJSON(req.Config)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg.Log = h.Log

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	h.mu.Lock()
	if _, exists := h.wallets[id]; exists {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, "wallet already exists")
		return
	}
	entry := &walletEntry{w: wallet.NewWallet(id, cfg)}
	h.wallets[id] = entry
	h.mu.Unlock()

	writeJSON(w, http.StatusCreated, h.walletDTO(entry.w))
}

// GetWallet returns a wallet with its full schedule.
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(chi.URLParam(r, "id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}

	entry.mu.Lock()
	dto := h.walletDTO(entry.w)
	entry.mu.Unlock()

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CONTRACTING
// =============================================================================

// ContractFixed populates a wallet with fixed-value installments.
func (h *Handler) ContractFixed(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(chi.URLParam(r, "id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}

	var req ContractFixedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	total, err := decimal.NewFromString(req.TotalValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid total_value")
		return
	}
	firstDue, err := time.Parse("2006-01-02", req.FirstDueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid first_due_date, want YYYY-MM-DD")
		return
	}

	entry.mu.Lock()
	installments, err := entry.w.ContractFixedOperation(total, req.InstallmentCount, firstDue)
	entry.mu.Unlock()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInstallmentDTOs(installments))
}

// ContractIndexLinked populates a wallet with index-linked installments.
func (h *Handler) ContractIndexLinked(w http.ResponseWriter, r *http.Request) {
	entry := h.entry(chi.URLParam(r, "id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}

	var req ContractIndexLinkedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	base, err := decimal.NewFromString(req.BaseValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid base_value")
		return
	}
	firstDue, err := time.Parse("2006-01-02", req.FirstDueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid first_due_date, want YYYY-MM-DD")
		return
	}

	entry.mu.Lock()
	installments, err := entry.w.ContractIndexLinkedOperation(
		base, req.InstallmentCount, wallet.Index(req.Index), firstDue, h.Lookup)
	entry.mu.Unlock()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInstallmentDTOs(installments))
}

// =============================================================================
// PAYMENTS
// =============================================================================

// ReceivePayment settles an amount against one installment.
func (h *Handler) ReceivePayment(w http.ResponseWriter, r *http.Request) {
	h.payment(w, r, (*wallet.Wallet).ReceivePayment)
}

// AmortizeEarly settles an amount and recalculates the future schedule
// when principal was reduced.
func (h *Handler) AmortizeEarly(w http.ResponseWriter, r *http.Request) {
	h.payment(w, r, (*wallet.Wallet).AmortizeEarly)
}

type paymentOp func(*wallet.Wallet, context.Context, int, decimal.Decimal) (*wallet.AmortizationStatement, error)

func (h *Handler) payment(w http.ResponseWriter, r *http.Request, op paymentOp) {
	entry := h.entry(chi.URLParam(r, "id"))
	if entry == nil {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	entry.mu.Lock()
	stmt, err := op(entry.w, r.Context(), req.InstallmentNumber, amount)
	entry.mu.Unlock()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if stmt == nil {
		// Policy no-op for zero/negative amounts: nothing happened.
		writeError(w, http.StatusBadRequest, "payment amount must be positive")
		return
	}

	writeJSON(w, http.StatusOK, toStatementDTO(*stmt, req.InstallmentNumber))
}

// =============================================================================
// AUDIT TRAIL
// =============================================================================

// GetStatements returns the wallet's payment audit trail.
func (h *Handler) GetStatements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.entry(id) == nil {
		writeError(w, http.StatusNotFound, "wallet not found")
		return
	}

	records, err := h.Log.Query(r.Context(), wallet.StatementFilter{WalletID: &id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	dtos := make([]StatementDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toStatementDTO(rec.Statement, rec.InstallmentNumber))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RATES
// =============================================================================

// SetRate seeds a correction factor in the rate table.
func (h *Handler) SetRate(w http.ResponseWriter, r *http.Request) {
	var req SetRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	factor, err := decimal.NewFromString(req.Factor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid factor")
		return
	}

	h.Rates.Set(wallet.Index(req.Index), date, factor)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) walletDTO(w *wallet.Wallet) WalletDTO {
	return WalletDTO{
		ID:                   w.ID(),
		OutstandingPrincipal: w.OutstandingPrincipal().String(),
		Installments:         toInstallmentDTOs(w.Installments()),
	}
}

func toInstallmentDTOs(installments []wallet.Installment) []InstallmentDTO {
	dtos := make([]InstallmentDTO, 0, len(installments))
	for _, inst := range installments {
		dtos = append(dtos, toInstallmentDTO(inst))
	}
	return dtos
}

// writeDomainError maps the domain's error classes to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var vf *wallet.ValidationFailure
	if errors.As(err, &vf) {
		resp := ErrorResponse{Error: "validation failed"}
		for _, ve := range vf.Errors {
			resp.ValidationErrors = append(resp.ValidationErrors, ValidationErrorDTO{
				Field:   ve.Field,
				Message: ve.Message,
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	switch {
	case errors.Is(err, wallet.ErrInstallmentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case wallet.IsPrecondition(err):
		writeError(w, http.StatusConflict, err.Error())
	case wallet.IsRateLookup(err):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
