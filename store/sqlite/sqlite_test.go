package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-engine/store/sqlite"
	"github.com/warp/loan-engine/wallet"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLog(t *testing.T) *sqlite.Log {
	t.Helper()
	log, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

func paidStatement(txID string, at time.Time) wallet.AmortizationStatement {
	return wallet.AmortizationStatement{
		TransactionID: txID,
		Timestamp:     at,
		AmountPaid:    wallet.MustParseDecimal("150.00"),
		PolicyName:    "penalty_first",
		Lines: []wallet.StatementLine{
			{
				Kind:          wallet.KindInterest,
				BalanceBefore: wallet.MustParseDecimal("30.00"),
				AmountApplied: wallet.MustParseDecimal("30.00"),
				BalanceAfter:  wallet.MustParseDecimal("0"),
			},
			{
				Kind:          wallet.KindPrincipal,
				BalanceBefore: wallet.MustParseDecimal("100.00"),
				AmountApplied: wallet.MustParseDecimal("100.00"),
				BalanceAfter:  wallet.MustParseDecimal("0"),
			},
		},
		TotalApplied: wallet.MustParseDecimal("130.00"),
		UnusedAmount: wallet.MustParseDecimal("20.00"),
	}
}

// =============================================================================
// ROUND-TRIP TESTS
// =============================================================================

func TestLog_AppendAndQuery_RoundTrip(t *testing.T) {
	ctx := context.Background()
	log := newTestLog(t)
	at := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

	rec := wallet.StatementRecord{
		WalletID:          "w-1",
		InstallmentNumber: 3,
		Statement:         paidStatement("tx-1", at),
	}
	require.NoError(t, log.Append(ctx, rec))

	w1 := "w-1"
	records, err := log.Query(ctx, wallet.StatementFilter{WalletID: &w1})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, "w-1", got.WalletID)
	assert.Equal(t, 3, got.InstallmentNumber)
	assert.Equal(t, "tx-1", got.Statement.TransactionID)
	assert.Equal(t, "penalty_first", got.Statement.PolicyName)
	assert.True(t, got.Statement.AmountPaid.Equal(wallet.MustParseDecimal("150.00")))
	assert.True(t, got.Statement.TotalApplied.Equal(wallet.MustParseDecimal("130.00")))
	assert.True(t, got.Statement.UnusedAmount.Equal(wallet.MustParseDecimal("20.00")))
	assert.True(t, got.Statement.Timestamp.Equal(at))

	// Lines preserved in order
	require.Len(t, got.Statement.Lines, 2)
	assert.Equal(t, wallet.KindInterest, got.Statement.Lines[0].Kind)
	assert.Equal(t, wallet.KindPrincipal, got.Statement.Lines[1].Kind)
	assert.True(t, got.Statement.Lines[1].BalanceBefore.Equal(wallet.MustParseDecimal("100.00")))
}

func TestLog_QueryFilters(t *testing.T) {
	ctx := context.Background()
	log := newTestLog(t)
	base := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"tx-1", "tx-2", "tx-3"} {
		rec := wallet.StatementRecord{
			WalletID:          "w-1",
			InstallmentNumber: i + 1,
			Statement:         paidStatement(id, base.Add(time.Duration(i)*time.Hour)),
		}
		require.NoError(t, log.Append(ctx, rec))
	}
	other := wallet.StatementRecord{
		WalletID:          "w-2",
		InstallmentNumber: 1,
		Statement:         paidStatement("tx-4", base),
	}
	require.NoError(t, log.Append(ctx, other))

	w1 := "w-1"
	records, err := log.Query(ctx, wallet.StatementFilter{WalletID: &w1})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	number := 2
	records, err = log.Query(ctx, wallet.StatementFilter{WalletID: &w1, InstallmentNumber: &number})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "tx-2", records[0].Statement.TransactionID)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	records, err = log.Query(ctx, wallet.StatementFilter{WalletID: &w1, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "tx-2", records[0].Statement.TransactionID)
}

func TestLog_DuplicateTransactionID_Rejected(t *testing.T) {
	// The primary key protects the audit trail from double-append.

	ctx := context.Background()
	log := newTestLog(t)
	at := time.Now().UTC()

	rec := wallet.StatementRecord{WalletID: "w-1", InstallmentNumber: 1, Statement: paidStatement("tx-1", at)}
	require.NoError(t, log.Append(ctx, rec))
	assert.Error(t, log.Append(ctx, rec))
}

func TestLog_WorksAsWalletAuditLog(t *testing.T) {
	// GIVEN: A wallet wired to the SQLite log
	// WHEN: Receiving a payment
	// THEN: The statement lands in the database

	ctx := context.Background()
	log := newTestLog(t)

	w := wallet.NewWallet("w-sql", wallet.Config{Log: log})
	_, err := w.ContractFixedOperation(wallet.MustParseDecimal("300.00"), 3,
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	stmt, err := w.ReceivePayment(ctx, 1, wallet.MustParseDecimal("100.00"))
	require.NoError(t, err)
	require.NotNil(t, stmt)

	id := "w-sql"
	records, err := log.Query(ctx, wallet.StatementFilter{WalletID: &id})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, stmt.TransactionID, records[0].Statement.TransactionID)
}
