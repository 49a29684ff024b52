package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-engine/wallet"
)

func TestWriteDomainError_ValidationFailure_UnprocessableWithAllErrors(t *testing.T) {
	// GIVEN: An aggregated validation failure with two failed rules
	// WHEN: Mapping it to an HTTP response
	// THEN: 422 with every rule in the envelope, in order

	rec := httptest.NewRecorder()
	writeDomainError(rec, &wallet.ValidationFailure{Errors: []wallet.ValidationError{
		{Field: "outstanding_balance", Message: "outstanding balance must not exceed original amount"},
		{Field: "outstanding_balance", Message: "outstanding balance must not be negative"},
	}})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	require.Len(t, resp.ValidationErrors, 2)
	assert.Equal(t, "outstanding_balance", resp.ValidationErrors[0].Field)
	assert.Equal(t, "outstanding balance must not exceed original amount", resp.ValidationErrors[0].Message)
	assert.Equal(t, "outstanding balance must not be negative", resp.ValidationErrors[1].Message)
}

func TestWriteDomainError_StatusByErrorClass(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"installment not found", &wallet.NotFoundError{WalletID: "w-1", Number: 9}, http.StatusNotFound},
		{"already contracted", wallet.ErrAlreadyContracted, http.StatusConflict},
		{"invalid contract terms", wallet.ErrInvalidContractTerms, http.StatusConflict},
		{"rate unavailable", &wallet.RateLookupError{Index: wallet.IndexIPCA, ReferenceDate: "2025-06-15"}, http.StatusBadGateway},
		{"unclassified", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
