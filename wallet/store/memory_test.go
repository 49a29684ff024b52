package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loan-engine/wallet"
	"github.com/warp/loan-engine/wallet/store"
)

func record(walletID string, number int, txID string, at time.Time) wallet.StatementRecord {
	return wallet.StatementRecord{
		WalletID:          walletID,
		InstallmentNumber: number,
		Statement: wallet.AmortizationStatement{
			TransactionID: txID,
			Timestamp:     at,
			AmountPaid:    wallet.MustParseDecimal("50"),
			PolicyName:    "penalty_first",
			TotalApplied:  wallet.MustParseDecimal("50"),
			UnusedAmount:  wallet.MustParseDecimal("0"),
		},
	}
}

func TestMemoryLog_AppendAndQuery(t *testing.T) {
	ctx := context.Background()
	log := store.NewMemoryLog()
	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, log.Append(ctx, record("w-1", 1, "tx-1", base)))
	require.NoError(t, log.Append(ctx, record("w-1", 2, "tx-2", base.Add(time.Hour))))
	require.NoError(t, log.Append(ctx, record("w-2", 1, "tx-3", base.Add(2*time.Hour))))

	w1 := "w-1"
	records, err := log.Query(ctx, wallet.StatementFilter{WalletID: &w1})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "tx-1", records[0].Statement.TransactionID)
	assert.Equal(t, "tx-2", records[1].Statement.TransactionID)

	number := 1
	records, err = log.Query(ctx, wallet.StatementFilter{WalletID: &w1, InstallmentNumber: &number})
	require.NoError(t, err)
	require.Len(t, records, 1)

	from := base.Add(30 * time.Minute)
	records, err = log.Query(ctx, wallet.StatementFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRateTable_SetAndFetch(t *testing.T) {
	ctx := context.Background()
	table := store.NewRateTable()
	date := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	table.Set(wallet.IndexIPCA, date, wallet.MustParseDecimal("1.0432"))

	factor, err := table.FetchCorrectionFactor(ctx, wallet.IndexIPCA, date)
	require.NoError(t, err)
	assert.True(t, factor.Equal(wallet.MustParseDecimal("1.0432")))

	// Time-of-day is irrelevant: lookups are keyed by day
	factor, err = table.FetchCorrectionFactor(ctx, wallet.IndexIPCA, date.Add(14*time.Hour))
	require.NoError(t, err)
	assert.True(t, factor.Equal(wallet.MustParseDecimal("1.0432")))
}

func TestRateTable_UnknownCombination_Fails(t *testing.T) {
	ctx := context.Background()
	table := store.NewRateTable()
	date := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	table.Set(wallet.IndexIPCA, date, wallet.MustParseDecimal("1.05"))

	_, err := table.FetchCorrectionFactor(ctx, wallet.IndexCDI, date)
	assert.ErrorIs(t, err, wallet.ErrRateUnavailable)

	_, err = table.FetchCorrectionFactor(ctx, wallet.IndexIPCA, date.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, wallet.ErrRateUnavailable)
}
