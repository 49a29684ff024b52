/*
Package sqlite provides a SQLite-backed StatementLog.

PURPOSE:
  Persists the audit trail of amortization statements. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on statement tables
  - No DELETE statements on statement tables
  - Corrections are new payment events, never edits

KEY TABLES:
  statements:      One row per payment event
  statement_lines: Per-component detail, ordered by position

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't
  block the single writer.

USAGE:
  slog, err := sqlite.New("./data/wallets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer slog.Close()

  w := wallet.NewWallet("w-1", wallet.Config{Log: slog})

SEE ALSO:
  - wallet/audit.go: Interface definition
  - wallet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/loan-engine/wallet"
)

const timeLayout = "2006-01-02T15:04:05.000Z"

// Log implements wallet.StatementLog using SQLite.
type Log struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite statement log at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Log, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	l := &Log{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return l, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// migrate creates the database schema.
func (l *Log) migrate() error {
	schema := `
	-- Statements (append-only audit trail)
	CREATE TABLE IF NOT EXISTS statements (
		transaction_id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		installment_number INTEGER NOT NULL,
		recorded_at TEXT NOT NULL,
		amount_paid TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		total_applied TEXT NOT NULL,
		unused_amount TEXT NOT NULL
	);

	-- Per-component detail lines, ordered by position
	CREATE TABLE IF NOT EXISTS statement_lines (
		transaction_id TEXT NOT NULL REFERENCES statements(transaction_id),
		position INTEGER NOT NULL,
		component_kind TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		amount_applied TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		PRIMARY KEY (transaction_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_statements_wallet
		ON statements(wallet_id, recorded_at);
	CREATE INDEX IF NOT EXISTS idx_statements_wallet_installment
		ON statements(wallet_id, installment_number);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append persists a statement record atomically. Statement and lines
// either all land or none do.
func (l *Log) Append(ctx context.Context, rec wallet.StatementRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := rec.Statement
	_, err = tx.ExecContext(ctx, `
		INSERT INTO statements
			(transaction_id, wallet_id, installment_number, recorded_at,
			 amount_paid, policy_name, total_applied, unused_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stmt.TransactionID,
		rec.WalletID,
		rec.InstallmentNumber,
		stmt.Timestamp.UTC().Format(timeLayout),
		stmt.AmountPaid.String(),
		stmt.PolicyName,
		stmt.TotalApplied.String(),
		stmt.UnusedAmount.String(),
	)
	if err != nil {
		return fmt.Errorf("insert statement: %w", err)
	}

	for pos, line := range stmt.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO statement_lines
				(transaction_id, position, component_kind,
				 balance_before, amount_applied, balance_after)
			VALUES (?, ?, ?, ?, ?, ?)`,
			stmt.TransactionID,
			pos,
			string(line.Kind),
			line.BalanceBefore.String(),
			line.AmountApplied.String(),
			line.BalanceAfter.String(),
		)
		if err != nil {
			return fmt.Errorf("insert statement line %d: %w", pos, err)
		}
	}

	return tx.Commit()
}

// Query returns matching statement records in chronological order.
func (l *Log) Query(ctx context.Context, filter wallet.StatementFilter) ([]wallet.StatementRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	query := `
		SELECT transaction_id, wallet_id, installment_number, recorded_at,
		       amount_paid, policy_name, total_applied, unused_amount
		FROM statements WHERE 1=1`
	var args []any

	if filter.WalletID != nil {
		query += " AND wallet_id = ?"
		args = append(args, *filter.WalletID)
	}
	if filter.InstallmentNumber != nil {
		query += " AND installment_number = ?"
		args = append(args, *filter.InstallmentNumber)
	}
	if filter.From != nil {
		query += " AND recorded_at >= ?"
		args = append(args, filter.From.UTC().Format(timeLayout))
	}
	if filter.To != nil {
		query += " AND recorded_at <= ?"
		args = append(args, filter.To.UTC().Format(timeLayout))
	}
	query += " ORDER BY recorded_at, transaction_id"

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []wallet.StatementRecord
	for rows.Next() {
		rec, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		lines, err := l.loadLines(ctx, records[i].Statement.TransactionID)
		if err != nil {
			return nil, err
		}
		records[i].Statement.Lines = lines
	}

	return records, nil
}

func scanStatement(rows *sql.Rows) (wallet.StatementRecord, error) {
	var rec wallet.StatementRecord
	var recordedAt, amountPaid, totalApplied, unusedAmount string

	err := rows.Scan(
		&rec.Statement.TransactionID,
		&rec.WalletID,
		&rec.InstallmentNumber,
		&recordedAt,
		&amountPaid,
		&rec.Statement.PolicyName,
		&totalApplied,
		&unusedAmount,
	)
	if err != nil {
		return rec, err
	}

	if rec.Statement.Timestamp, err = time.Parse(timeLayout, recordedAt); err != nil {
		return rec, fmt.Errorf("parse recorded_at: %w", err)
	}
	if rec.Statement.AmountPaid, err = decimal.NewFromString(amountPaid); err != nil {
		return rec, fmt.Errorf("parse amount_paid: %w", err)
	}
	if rec.Statement.TotalApplied, err = decimal.NewFromString(totalApplied); err != nil {
		return rec, fmt.Errorf("parse total_applied: %w", err)
	}
	if rec.Statement.UnusedAmount, err = decimal.NewFromString(unusedAmount); err != nil {
		return rec, fmt.Errorf("parse unused_amount: %w", err)
	}
	return rec, nil
}

func (l *Log) loadLines(ctx context.Context, transactionID string) ([]wallet.StatementLine, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT component_kind, balance_before, amount_applied, balance_after
		FROM statement_lines
		WHERE transaction_id = ?
		ORDER BY position`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []wallet.StatementLine
	for rows.Next() {
		var line wallet.StatementLine
		var kind, before, applied, after string
		if err := rows.Scan(&kind, &before, &applied, &after); err != nil {
			return nil, err
		}
		line.Kind = wallet.ComponentKind(kind)
		if line.BalanceBefore, err = decimal.NewFromString(before); err != nil {
			return nil, err
		}
		if line.AmountApplied, err = decimal.NewFromString(applied); err != nil {
			return nil, err
		}
		if line.BalanceAfter, err = decimal.NewFromString(after); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

var _ wallet.StatementLog = (*Log)(nil)
