package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Corrupt component states cannot be produced through the public
// contracting operations, so this test builds the installment directly.

func TestReceivePayment_InvalidComponents_AggregatesAllFailures(t *testing.T) {
	// GIVEN: An installment whose components violate two rules at once
	// WHEN: Receiving a payment against it
	// THEN: Every failed rule comes back in one ValidationFailure and
	//       no balance moves

	due := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	w := NewWallet("w-1", Config{})
	w.installments = []Installment{
		NewFixedInstallment(1, due,
			FinancialComponent{
				Kind:               KindPrincipal,
				OriginalAmount:     decimal.NewFromInt(100),
				OutstandingBalance: decimal.NewFromInt(150),
			},
			FinancialComponent{
				Kind:               KindInterest,
				OriginalAmount:     decimal.NewFromInt(50),
				OutstandingBalance: decimal.NewFromInt(-10),
			},
		),
	}

	stmt, err := w.ReceivePayment(context.Background(), 1, decimal.NewFromInt(40))
	assert.Nil(t, stmt)
	require.Error(t, err)

	var vf *ValidationFailure
	require.True(t, errors.As(err, &vf))
	require.Len(t, vf.Errors, 2)
	assert.Equal(t, "outstanding_balance", vf.Errors[0].Field)
	assert.Equal(t, "outstanding balance must not exceed original amount", vf.Errors[0].Message)
	assert.Equal(t, "outstanding_balance", vf.Errors[1].Field)
	assert.Equal(t, "outstanding balance must not be negative", vf.Errors[1].Message)

	assert.True(t, IsValidation(err))
	assert.False(t, IsPrecondition(err))

	// Zero mutation: balances and status are exactly as constructed
	inst := w.installments[0]
	assert.True(t, inst.Components[0].OutstandingBalance.Equal(decimal.NewFromInt(150)))
	assert.True(t, inst.Components[1].OutstandingBalance.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, StatusOpen, inst.Status)
}
