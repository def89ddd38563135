package wip

import (
	"context"
	"fmt"
	"log/slog"
)

// ReferenceData resolves the excluded-cost employee code set.
type ReferenceData interface {
	ExcludedCostCodes(ctx context.Context) ([]string, error)
}

// TaskProfitabilityResult is the task-level engine output returned to the
// API layer. The completeness fields ride along so consumers can detect a
// truncated scan.
type TaskProfitabilityResult struct {
	TaskRef          string
	Totals           WipTotals
	Profitability    Profitability
	TransactionCount int
	TransactionLimit int
	LimitReached     bool
}

// ClientBalancesResult is the client-level engine output.
type ClientBalancesResult struct {
	ClientRef        string
	Balance          ClientBalance
	TransactionCount int
	TransactionLimit int
	LimitReached     bool
}

// Service runs the fetch, normalise, aggregate and derive pipeline. Each
// invocation is independent and synchronous; all intermediate state is
// request-local.
type Service struct {
	repo    RepositoryPort
	fetcher *Fetcher
	refdata ReferenceData
	logger  *slog.Logger
}

// NewService wires the engine components.
func NewService(repo RepositoryPort, fetcher *Fetcher, refdata ReferenceData, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, fetcher: fetcher, refdata: refdata, logger: logger}
}

// TransactionLimit exposes the configured row cap for API payloads.
func (s *Service) TransactionLimit() int {
	return s.fetcher.Limit()
}

// TaskProfitability computes the task-level WIP totals and billing metrics.
// Returns ErrNotFound when the task reference does not resolve.
func (s *Service) TaskProfitability(ctx context.Context, taskRef string) (TaskProfitabilityResult, error) {
	exists, err := s.repo.TaskExists(ctx, taskRef)
	if err != nil {
		return TaskProfitabilityResult{}, err
	}
	if !exists {
		return TaskProfitabilityResult{}, fmt.Errorf("task %s: %w", taskRef, ErrNotFound)
	}

	window, err := s.fetcher.TaskScope(ctx, taskRef)
	if err != nil {
		return TaskProfitabilityResult{}, err
	}

	codes, err := s.refdata.ExcludedCostCodes(ctx)
	if err != nil {
		return TaskProfitabilityResult{}, fmt.Errorf("wip: load excluded cost codes: %w", err)
	}

	balance, err := s.repo.TaskBalanceFeed(ctx, taskRef)
	if err != nil {
		return TaskProfitabilityResult{}, err
	}

	normalized := NormalizeCosts(window.Records, NewExcludedCostSet(codes))
	totals := Aggregate(normalized, balance)

	return TaskProfitabilityResult{
		TaskRef:          taskRef,
		Totals:           totals,
		Profitability:    ComputeProfitability(totals),
		TransactionCount: window.Count,
		TransactionLimit: s.fetcher.Limit(),
		LimitReached:     window.LimitReached,
	}, nil
}

// ClientBalances computes the client summary snapshot from the raw WIP scan
// (union of both join paths) and the debtor transaction set. Returns
// ErrNotFound when the client reference does not resolve.
func (s *Service) ClientBalances(ctx context.Context, clientRef string) (ClientBalancesResult, error) {
	exists, err := s.repo.ClientExists(ctx, clientRef)
	if err != nil {
		return ClientBalancesResult{}, err
	}
	if !exists {
		return ClientBalancesResult{}, fmt.Errorf("client %s: %w", clientRef, ErrNotFound)
	}

	window, err := s.fetcher.ClientScope(ctx, clientRef)
	if err != nil {
		return ClientBalancesResult{}, err
	}

	debtors, err := s.repo.DebtorTransactions(ctx, clientRef)
	if err != nil {
		return ClientBalancesResult{}, err
	}

	return ClientBalancesResult{
		ClientRef:        clientRef,
		Balance:          ComputeClientBalance(window.Records, debtors),
		TransactionCount: window.Count,
		TransactionLimit: s.fetcher.Limit(),
		LimitReached:     window.LimitReached,
	}, nil
}
