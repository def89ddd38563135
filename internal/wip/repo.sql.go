package wip

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides PostgreSQL backed read access to the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const wipColumns = `task_ref, client_ref, txn_date, subtype, txn_flag, employee_code, amount, cost, hours, service_line, updated_at`

// TaskExists reports whether the task reference resolves.
func (r *Repository) TaskExists(ctx context.Context, taskRef string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE external_ref = $1)`, taskRef).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("wip: task exists: %w", err)
	}
	return exists, nil
}

// ClientExists reports whether the client reference resolves.
func (r *Repository) ClientExists(ctx context.Context, clientRef string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE external_ref = $1)`, clientRef).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("wip: client exists: %w", err)
	}
	return exists, nil
}

// TaskTransactions returns up to limit WIP rows for a task.
func (r *Repository) TaskTransactions(ctx context.Context, taskRef string, limit int) ([]WipTransaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM wip_transactions WHERE task_ref = $1 LIMIT $2`, wipColumns)
	rows, err := r.pool.Query(ctx, query, taskRef, limit)
	if err != nil {
		return nil, fmt.Errorf("wip: task transactions: %w", err)
	}
	defer rows.Close()
	return scanWipRows(rows)
}

// ClientTransactions returns up to limit WIP rows for a client. Some ledger
// rows only carry a task reference, so the client scope matches the direct
// client ref or any task belonging to the client. A single scan, not a
// UNION: the ledger is append-only and two rows with identical values are
// still two contributions, so row-value dedup would understate balances.
func (r *Repository) ClientTransactions(ctx context.Context, clientRef string, limit int) ([]WipTransaction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM wip_transactions
		WHERE client_ref = $1
		   OR task_ref IN (SELECT external_ref FROM tasks WHERE client_ref = $1)
		LIMIT $2`, wipColumns)
	rows, err := r.pool.Query(ctx, query, clientRef, limit)
	if err != nil {
		return nil, fmt.Errorf("wip: client transactions: %w", err)
	}
	defer rows.Close()
	return scanWipRows(rows)
}

// TaskBalanceFeed returns the pre-aggregated balance row for a task, or nil
// when the feed carries no row for it.
func (r *Repository) TaskBalanceFeed(ctx context.Context, taskRef string) (*TaskBalance, error) {
	var balWIP, balTime, balDisb, provision pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT bal_wip, bal_time, bal_disb, wip_provision
		FROM task_balances WHERE task_ref = $1`, taskRef).
		Scan(&balWIP, &balTime, &balDisb, &provision)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wip: task balance feed: %w", err)
	}
	return &TaskBalance{
		BalWIP:    numericToDecimal(balWIP),
		BalTime:   numericToDecimal(balTime),
		BalDisb:   numericToDecimal(balDisb),
		Provision: numericToDecimal(provision),
	}, nil
}

// DebtorTransactions returns the client's invoiced amounts.
func (r *Repository) DebtorTransactions(ctx context.Context, clientRef string) ([]DebtorTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT client_ref, total_amount, updated_at
		FROM debtor_transactions WHERE client_ref = $1`, clientRef)
	if err != nil {
		return nil, fmt.Errorf("wip: debtor transactions: %w", err)
	}
	defer rows.Close()

	var txns []DebtorTransaction
	for rows.Next() {
		var txn DebtorTransaction
		var total pgtype.Numeric
		if err := rows.Scan(&txn.ClientRef, &total, &txn.UpdatedAt); err != nil {
			return nil, fmt.Errorf("wip: scan debtor transaction: %w", err)
		}
		txn.Total = numericToDecimal(total)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wip: debtor transactions: %w", err)
	}
	return txns, nil
}

func scanWipRows(rows pgx.Rows) ([]WipTransaction, error) {
	var txns []WipTransaction
	for rows.Next() {
		var txn WipTransaction
		var taskRef, clientRef, serviceLine, employee pgtype.Text
		var txnDate pgtype.Timestamptz
		var subtype, flag string
		var amount, cost, hours pgtype.Numeric
		var updatedAt time.Time

		if err := rows.Scan(&taskRef, &clientRef, &txnDate, &subtype, &flag, &employee, &amount, &cost, &hours, &serviceLine, &updatedAt); err != nil {
			return nil, fmt.Errorf("wip: scan transaction: %w", err)
		}

		txn.TaskRef = taskRef.String
		txn.ClientRef = clientRef.String
		if txnDate.Valid {
			txn.TxnDate = txnDate.Time
		}
		txn.Subtype = ParseSubtype(subtype)
		txn.Flag = ParseFlag(flag)
		if employee.Valid {
			code := employee.String
			txn.EmployeeCode = &code
		}
		txn.Amount = numericToDecimal(amount)
		txn.Cost = numericToDecimal(cost)
		txn.Hours = numericToDecimal(hours)
		txn.ServiceLine = serviceLine.String
		txn.UpdatedAt = updatedAt
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wip: transactions: %w", err)
	}
	return txns, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
