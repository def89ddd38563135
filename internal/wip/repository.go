package wip

import (
	"context"
	"fmt"

	"github.com/praxis-pm/praxis/internal/platform/httpx"
)

// ErrNotFound indicates the task or client scope does not resolve. It wraps
// the platform sentinel so the HTTP layer can map it through
// httpx.RespondError.
var ErrNotFound = fmt.Errorf("wip: %w", httpx.ErrNotFound)

// RepositoryPort defines read-only data access for the engine. The engine
// never writes; corrections arrive in the ledger as new rows.
type RepositoryPort interface {
	// TaskExists reports whether the task reference resolves.
	TaskExists(ctx context.Context, taskRef string) (bool, error)
	// ClientExists reports whether the client reference resolves.
	ClientExists(ctx context.Context, clientRef string) (bool, error)
	// TaskTransactions returns up to limit WIP rows for a task.
	TaskTransactions(ctx context.Context, taskRef string, limit int) ([]WipTransaction, error)
	// ClientTransactions returns up to limit WIP rows for a client. The
	// query must cover both join paths (client ref, or a task ref belonging
	// to the client) since some ledger rows only carry a task reference,
	// and must keep duplicate row values: each ledger row is one
	// contribution.
	ClientTransactions(ctx context.Context, clientRef string, limit int) ([]WipTransaction, error)
	// TaskBalanceFeed returns the pre-aggregated balance row for a task, or
	// nil when the feed has no row for it.
	TaskBalanceFeed(ctx context.Context, taskRef string) (*TaskBalance, error)
	// DebtorTransactions returns the client's invoiced amounts.
	DebtorTransactions(ctx context.Context, clientRef string) ([]DebtorTransaction, error)
}
