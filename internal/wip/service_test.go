package wip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryWipRepo struct {
	tasks      map[string]bool
	clients    map[string]bool
	taskTxns   map[string][]WipTransaction
	clientTxns map[string][]WipTransaction
	balances   map[string]*TaskBalance
	debtors    map[string][]DebtorTransaction
}

func newMemoryWipRepo() *memoryWipRepo {
	return &memoryWipRepo{
		tasks:      make(map[string]bool),
		clients:    make(map[string]bool),
		taskTxns:   make(map[string][]WipTransaction),
		clientTxns: make(map[string][]WipTransaction),
		balances:   make(map[string]*TaskBalance),
		debtors:    make(map[string][]DebtorTransaction),
	}
}

func (r *memoryWipRepo) TaskExists(ctx context.Context, taskRef string) (bool, error) {
	return r.tasks[taskRef], nil
}

func (r *memoryWipRepo) ClientExists(ctx context.Context, clientRef string) (bool, error) {
	return r.clients[clientRef], nil
}

func (r *memoryWipRepo) TaskTransactions(ctx context.Context, taskRef string, limit int) ([]WipTransaction, error) {
	txns := r.taskTxns[taskRef]
	if len(txns) > limit {
		return txns[:limit], nil
	}
	return txns, nil
}

func (r *memoryWipRepo) ClientTransactions(ctx context.Context, clientRef string, limit int) ([]WipTransaction, error) {
	txns := r.clientTxns[clientRef]
	if len(txns) > limit {
		return txns[:limit], nil
	}
	return txns, nil
}

func (r *memoryWipRepo) TaskBalanceFeed(ctx context.Context, taskRef string) (*TaskBalance, error) {
	return r.balances[taskRef], nil
}

func (r *memoryWipRepo) DebtorTransactions(ctx context.Context, clientRef string) ([]DebtorTransaction, error) {
	return r.debtors[clientRef], nil
}

type staticRefData struct {
	codes []string
}

func (s staticRefData) ExcludedCostCodes(ctx context.Context) ([]string, error) {
	return s.codes, nil
}

func newTestService(repo *memoryWipRepo, limit int, codes []string) *Service {
	fetcher := NewFetcher(repo, limit, nil, nil)
	return NewService(repo, fetcher, staticRefData{codes: codes}, nil)
}

func TestTaskProfitabilityNotFound(t *testing.T) {
	svc := newTestService(newMemoryWipRepo(), 100, nil)
	_, err := svc.TaskProfitability(context.Background(), "T-404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskProfitabilityEndToEnd(t *testing.T) {
	repo := newMemoryWipRepo()
	repo.tasks["T-1"] = true
	repo.taskTxns["T-1"] = []WipTransaction{
		{Subtype: SubtypeTime, Flag: FlagNormal, Amount: dec("1000"), Hours: dec("8"), Cost: dec("350"), EmployeeCode: strptr("EMP1")},
		{Subtype: SubtypeTime, Flag: FlagReversal, Amount: dec("200"), Hours: dec("1"), Cost: dec("50"), EmployeeCode: strptr("EP001")},
		{Subtype: SubtypeDisbursement, Flag: FlagNormal, Amount: dec("50"), Hours: dec("1")},
	}
	repo.balances["T-1"] = &TaskBalance{BalWIP: dec("850"), BalTime: dec("800"), BalDisb: dec("50")}

	svc := newTestService(repo, 100, []string{"EP001"})
	res, err := svc.TaskProfitability(context.Background(), "T-1")
	require.NoError(t, err)

	require.True(t, res.Totals.LTDTime.Equal(dec("800")))
	require.True(t, res.Totals.LTDDisb.Equal(dec("50")))
	require.True(t, res.Totals.LTDHours.Equal(dec("10")))
	// EP001's cost is excluded before aggregation.
	require.True(t, res.Totals.LTDCost.Equal(dec("350")))
	require.True(t, res.Totals.BalWIP.Equal(dec("850")))

	require.True(t, res.Profitability.GrossProduction.Equal(dec("850")))
	require.True(t, res.Profitability.AvgChargeoutRate.Equal(dec("85")))

	require.Equal(t, 3, res.TransactionCount)
	require.Equal(t, 100, res.TransactionLimit)
	require.False(t, res.LimitReached)
}

func TestTaskProfitabilityWithoutBalanceFeed(t *testing.T) {
	repo := newMemoryWipRepo()
	repo.tasks["T-2"] = true
	repo.taskTxns["T-2"] = []WipTransaction{
		{Subtype: SubtypeTime, Flag: FlagNormal, Amount: dec("100"), Hours: dec("1")},
	}
	svc := newTestService(repo, 100, nil)
	res, err := svc.TaskProfitability(context.Background(), "T-2")
	require.NoError(t, err)
	require.True(t, res.Totals.BalWIP.IsZero())
	require.True(t, res.Totals.BalTime.IsZero())
	require.True(t, res.Totals.BalDisb.IsZero())
}

func TestTaskProfitabilityLimitReached(t *testing.T) {
	repo := newMemoryWipRepo()
	repo.tasks["T-3"] = true
	repo.taskTxns["T-3"] = makeTxns(6)
	svc := newTestService(repo, 5, nil)
	res, err := svc.TaskProfitability(context.Background(), "T-3")
	require.NoError(t, err)
	require.True(t, res.LimitReached)
	require.Equal(t, 5, res.TransactionCount)
	require.Equal(t, 5, res.TransactionLimit)
	// Totals reflect the retrieved subset: incomplete, not wrong.
	require.True(t, res.Totals.LTDTime.Equal(dec("5")))
}

func TestClientBalancesNotFound(t *testing.T) {
	svc := newTestService(newMemoryWipRepo(), 100, nil)
	_, err := svc.ClientBalances(context.Background(), "C-404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientBalancesEndToEnd(t *testing.T) {
	updated := time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC)
	repo := newMemoryWipRepo()
	repo.clients["C-1"] = true
	// Union of join paths: one row carries the client ref, one only a task
	// ref belonging to the client. The repository presents both.
	repo.clientTxns["C-1"] = []WipTransaction{
		{ClientRef: "C-1", Flag: FlagNormal, Amount: dec("500"), UpdatedAt: updated},
		{TaskRef: "T-9", Flag: FlagReversal, Amount: dec("300")},
	}
	repo.debtors["C-1"] = []DebtorTransaction{
		{ClientRef: "C-1", Total: dec("150")},
		{ClientRef: "C-1", Total: dec("150")},
	}
	svc := newTestService(repo, 100, nil)
	res, err := svc.ClientBalances(context.Background(), "C-1")
	require.NoError(t, err)
	require.True(t, res.Balance.WIPBalance.Equal(dec("200")))
	require.True(t, res.Balance.DebtorBalance.Equal(dec("300")))
	require.NotNil(t, res.Balance.LastUpdated)
	require.True(t, res.Balance.LastUpdated.Equal(updated))
	require.Equal(t, 2, res.TransactionCount)
	require.False(t, res.LimitReached)
}

// Two ledger rows with identical values are still two contributions; the
// client scan must never collapse them.
func TestClientBalancesIdenticalRowsEachContribute(t *testing.T) {
	loaded := time.Date(2026, 7, 1, 3, 0, 0, 0, time.UTC)
	row := WipTransaction{
		ClientRef: "C-7",
		Subtype:   SubtypeTime,
		Flag:      FlagNormal,
		Amount:    dec("100"),
		Hours:     dec("1"),
		UpdatedAt: loaded,
	}
	repo := newMemoryWipRepo()
	repo.clients["C-7"] = true
	repo.clientTxns["C-7"] = []WipTransaction{row, row}

	svc := newTestService(repo, 100, nil)
	res, err := svc.ClientBalances(context.Background(), "C-7")
	require.NoError(t, err)
	require.True(t, res.Balance.WIPBalance.Equal(dec("200")))
	require.Equal(t, 2, res.TransactionCount)
}

func TestClientBalancesEmptyClient(t *testing.T) {
	repo := newMemoryWipRepo()
	repo.clients["C-2"] = true
	svc := newTestService(repo, 100, nil)
	res, err := svc.ClientBalances(context.Background(), "C-2")
	require.NoError(t, err)
	require.True(t, res.Balance.WIPBalance.IsZero())
	require.True(t, res.Balance.DebtorBalance.IsZero())
	require.Nil(t, res.Balance.LastUpdated)
}
