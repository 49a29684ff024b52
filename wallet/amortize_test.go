package wallet_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-engine/wallet"
)

// =============================================================================
// ALLOCATION ORDER TESTS
// =============================================================================

func TestPenaltyFirst_InterestThenPrincipal(t *testing.T) {
	// GIVEN: Components {Interest: 30, Principal: 100}, payment 50,
	//        priority [Penalty, Interest, Fee, Principal]
	// WHEN: Applying
	// THEN: Interest is wiped (30 applied), Principal drops to 80
	//       (20 applied), nothing is unused

	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindInterest, dec("30")),
		wallet.NewComponent(wallet.KindPrincipal, dec("100")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, dec("50"))
	require.NotNil(t, stmt)

	assert.True(t, components[0].OutstandingBalance.IsZero())
	assert.True(t, components[1].OutstandingBalance.Equal(dec("80")))

	require.Len(t, stmt.Lines, 2)
	assert.Equal(t, wallet.KindInterest, stmt.Lines[0].Kind)
	assert.True(t, stmt.Lines[0].AmountApplied.Equal(dec("30")))
	assert.Equal(t, wallet.KindPrincipal, stmt.Lines[1].Kind)
	assert.True(t, stmt.Lines[1].AmountApplied.Equal(dec("20")))

	assert.True(t, stmt.TotalApplied.Equal(dec("50")))
	assert.True(t, stmt.UnusedAmount.IsZero())
}

func TestPrincipalFirst_ReversedPriority(t *testing.T) {
	// GIVEN: The same components under the reversed priority order
	// WHEN: Applying 50
	// THEN: Principal is consumed first

	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindInterest, dec("30")),
		wallet.NewComponent(wallet.KindPrincipal, dec("100")),
	}

	stmt := wallet.PrincipalFirst().Apply(components, dec("50"))
	require.NotNil(t, stmt)

	assert.True(t, components[1].OutstandingBalance.Equal(dec("50")))
	assert.True(t, components[0].OutstandingBalance.Equal(dec("30")))

	require.Len(t, stmt.Lines, 1)
	assert.Equal(t, wallet.KindPrincipal, stmt.Lines[0].Kind)
}

func TestApply_OverpaymentReportsUnused(t *testing.T) {
	// GIVEN: Total outstanding 40, payment 100
	// WHEN: Applying
	// THEN: TotalApplied + UnusedAmount == AmountPaid, exactly

	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindPenalty, dec("15")),
		wallet.NewComponent(wallet.KindPrincipal, dec("25")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, dec("100"))
	require.NotNil(t, stmt)

	assert.True(t, stmt.TotalApplied.Equal(dec("40")))
	assert.True(t, stmt.UnusedAmount.Equal(dec("60")))
	assert.True(t, stmt.TotalApplied.Add(stmt.UnusedAmount).Equal(stmt.AmountPaid))
}

func TestApply_SkipsSettledComponents(t *testing.T) {
	// GIVEN: A penalty component already at zero
	// WHEN: Applying a payment
	// THEN: The statement lists only components actually touched

	components := []wallet.FinancialComponent{
		component(wallet.KindPenalty, "10", "0"),
		wallet.NewComponent(wallet.KindPrincipal, dec("100")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, dec("30"))
	require.NotNil(t, stmt)
	require.Len(t, stmt.Lines, 1)
	assert.Equal(t, wallet.KindPrincipal, stmt.Lines[0].Kind)
}

// =============================================================================
// NO-OP BOUNDARY TESTS
// =============================================================================

func TestApply_ZeroAmount_NoOpNoStatement(t *testing.T) {
	// GIVEN: A zero payment
	// WHEN: Applying
	// THEN: No statement, no mutation

	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindPrincipal, dec("100")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, decimal.Zero)
	assert.Nil(t, stmt)
	assert.True(t, components[0].OutstandingBalance.Equal(dec("100")))
}

func TestApply_NegativeAmount_NoOpNoStatement(t *testing.T) {
	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindPrincipal, dec("100")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, dec("-5"))
	assert.Nil(t, stmt)
	assert.True(t, components[0].OutstandingBalance.Equal(dec("100")))
}

// =============================================================================
// INVARIANT TESTS
// =============================================================================

func TestApply_BalancesStayWithinBounds(t *testing.T) {
	// GIVEN: A full component set and a partial payment
	// WHEN: Applying repeatedly until settled
	// THEN: 0 <= outstanding <= original holds after every application

	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindPenalty, dec("12.50")),
		wallet.NewComponent(wallet.KindInterest, dec("37.25")),
		wallet.NewComponent(wallet.KindFee, dec("5.00")),
		wallet.NewComponent(wallet.KindPrincipal, dec("500.00")),
	}
	engine := componentEngine()
	policy := wallet.PenaltyFirst()

	for i := 0; i < 20; i++ {
		policy.Apply(components, dec("30"))
		assert.Empty(t, engine.ValidateAll(components))
	}

	// 20 x 30 = 600 > 554.75 total, everything settled
	for _, c := range components {
		assert.True(t, c.OutstandingBalance.IsZero(), "component %s not settled", c.Kind)
	}
}

func TestStatement_PrincipalApplied(t *testing.T) {
	components := []wallet.FinancialComponent{
		wallet.NewComponent(wallet.KindInterest, dec("10")),
		wallet.NewComponent(wallet.KindPrincipal, dec("90")),
	}

	stmt := wallet.PenaltyFirst().Apply(components, dec("25"))
	require.NotNil(t, stmt)
	assert.True(t, stmt.PrincipalApplied().Equal(dec("15")))

	stmtInterestOnly := wallet.PenaltyFirst().Apply(
		[]wallet.FinancialComponent{wallet.NewComponent(wallet.KindInterest, dec("10"))},
		dec("5"),
	)
	require.NotNil(t, stmtInterestOnly)
	assert.True(t, stmtInterestOnly.PrincipalApplied().IsZero())
}
