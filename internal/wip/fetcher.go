package wip

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultTransactionLimit is the hard row cap for one bounded scan.
const DefaultTransactionLimit = 50_000

// FetchResult is a bounded transaction window. LimitReached signals that
// totals computed from Records may be incomplete (not wrong for the subset);
// callers must surface it, never swallow it.
type FetchResult struct {
	Records      []WipTransaction
	Count        int
	LimitReached bool
}

// ScanRecorder counts data-completeness events for observability.
type ScanRecorder interface {
	ScanTruncated(scope string)
}

// Fetcher retrieves the bounded transaction window for a task or client
// scope. A single bounded read: no retries, no backoff; transient store
// errors propagate unchanged.
type Fetcher struct {
	repo    RepositoryPort
	limit   int
	logger  *slog.Logger
	metrics ScanRecorder
}

// NewFetcher wires a fetcher over the repository port. A non-positive limit
// falls back to DefaultTransactionLimit.
func NewFetcher(repo RepositoryPort, limit int, logger *slog.Logger, metrics ScanRecorder) *Fetcher {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{repo: repo, limit: limit, logger: logger, metrics: metrics}
}

// Limit returns the configured row cap.
func (f *Fetcher) Limit() int {
	return f.limit
}

// TaskScope fetches the bounded window for a task.
func (f *Fetcher) TaskScope(ctx context.Context, taskRef string) (FetchResult, error) {
	txns, err := f.repo.TaskTransactions(ctx, taskRef, f.limit+1)
	if err != nil {
		return FetchResult{}, fmt.Errorf("wip: fetch task scope: %w", err)
	}
	return f.bound(txns, "task", taskRef), nil
}

// ClientScope fetches the bounded window for a client, covering both the
// client-ref and task-ref join paths.
func (f *Fetcher) ClientScope(ctx context.Context, clientRef string) (FetchResult, error) {
	txns, err := f.repo.ClientTransactions(ctx, clientRef, f.limit+1)
	if err != nil {
		return FetchResult{}, fmt.Errorf("wip: fetch client scope: %w", err)
	}
	return f.bound(txns, "client", clientRef), nil
}

// bound trims the over-fetched row and flags truncation. The fetch asks for
// limit+1 rows so a full window can be told apart from a truncated one.
func (f *Fetcher) bound(txns []WipTransaction, scope, ref string) FetchResult {
	if len(txns) <= f.limit {
		return FetchResult{Records: txns, Count: len(txns)}
	}
	f.logger.Warn("transaction scan truncated",
		slog.String("scope", scope),
		slog.String("ref", ref),
		slog.Int("limit", f.limit))
	if f.metrics != nil {
		f.metrics.ScanTruncated(scope)
	}
	return FetchResult{Records: txns[:f.limit], Count: f.limit, LimitReached: true}
}
