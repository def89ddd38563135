package wip

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fetcherRepo struct {
	txns []WipTransaction
	err  error
}

func (r *fetcherRepo) TaskExists(ctx context.Context, taskRef string) (bool, error) {
	return true, nil
}

func (r *fetcherRepo) ClientExists(ctx context.Context, clientRef string) (bool, error) {
	return true, nil
}

func (r *fetcherRepo) TaskTransactions(ctx context.Context, taskRef string, limit int) ([]WipTransaction, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.txns) > limit {
		return r.txns[:limit], nil
	}
	return r.txns, nil
}

func (r *fetcherRepo) ClientTransactions(ctx context.Context, clientRef string, limit int) ([]WipTransaction, error) {
	return r.TaskTransactions(ctx, clientRef, limit)
}

func (r *fetcherRepo) TaskBalanceFeed(ctx context.Context, taskRef string) (*TaskBalance, error) {
	return nil, nil
}

func (r *fetcherRepo) DebtorTransactions(ctx context.Context, clientRef string) ([]DebtorTransaction, error) {
	return nil, nil
}

type recordingScans struct {
	scopes []string
}

func (r *recordingScans) ScanTruncated(scope string) {
	r.scopes = append(r.scopes, scope)
}

func makeTxns(n int) []WipTransaction {
	txns := make([]WipTransaction, n)
	for i := range txns {
		txns[i] = WipTransaction{Subtype: SubtypeTime, Flag: FlagNormal, Amount: dec("1")}
	}
	return txns
}

func TestFetcherUnderLimit(t *testing.T) {
	f := NewFetcher(&fetcherRepo{txns: makeTxns(10)}, 50, nil, nil)
	res, err := f.TaskScope(context.Background(), "T-1")
	require.NoError(t, err)
	require.Equal(t, 10, res.Count)
	require.Len(t, res.Records, 10)
	require.False(t, res.LimitReached)
}

func TestFetcherExactlyAtLimit(t *testing.T) {
	f := NewFetcher(&fetcherRepo{txns: makeTxns(50)}, 50, nil, nil)
	res, err := f.TaskScope(context.Background(), "T-1")
	require.NoError(t, err)
	require.Equal(t, 50, res.Count)
	require.False(t, res.LimitReached)
}

func TestFetcherOverLimit(t *testing.T) {
	// N+1 rows against a cap of N: exactly N records back and the
	// completeness flag raised.
	scans := &recordingScans{}
	f := NewFetcher(&fetcherRepo{txns: makeTxns(51)}, 50, nil, scans)
	res, err := f.TaskScope(context.Background(), "T-1")
	require.NoError(t, err)
	require.Equal(t, 50, res.Count)
	require.Len(t, res.Records, 50)
	require.True(t, res.LimitReached)
	require.Equal(t, []string{"task"}, scans.scopes)
}

func TestFetcherClientScopeTruncation(t *testing.T) {
	scans := &recordingScans{}
	f := NewFetcher(&fetcherRepo{txns: makeTxns(51)}, 50, nil, scans)
	res, err := f.ClientScope(context.Background(), "C-1")
	require.NoError(t, err)
	require.True(t, res.LimitReached)
	require.Equal(t, []string{"client"}, scans.scopes)
}

func TestFetcherPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	f := NewFetcher(&fetcherRepo{err: storeErr}, 50, nil, nil)
	_, err := f.TaskScope(context.Background(), "T-1")
	require.ErrorIs(t, err, storeErr)
}

func TestFetcherDefaultLimit(t *testing.T) {
	f := NewFetcher(&fetcherRepo{}, 0, nil, nil)
	require.Equal(t, DefaultTransactionLimit, f.Limit())
}
