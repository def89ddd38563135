package refdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryRefRepo struct {
	codes []string
	calls int
	err   error
}

func (r *memoryRefRepo) ExcludedCostCodes(ctx context.Context) ([]string, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.codes, nil
}

func newCachedService(t *testing.T, repo *memoryRefRepo) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, client, time.Minute)
}

func TestExcludedCostCodesCaches(t *testing.T) {
	repo := &memoryRefRepo{codes: []string{"EP001", "EP002"}}
	svc := newCachedService(t, repo)
	ctx := context.Background()

	codes, err := svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"EP001", "EP002"}, codes)
	require.Equal(t, 1, repo.calls)

	codes, err = svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"EP001", "EP002"}, codes)
	require.Equal(t, 1, repo.calls)
}

func TestExcludedCostCodesInvalidate(t *testing.T) {
	repo := &memoryRefRepo{codes: []string{"EP001"}}
	svc := newCachedService(t, repo)
	ctx := context.Background()

	_, err := svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestExcludedCostCodesNoCache(t *testing.T) {
	repo := &memoryRefRepo{codes: []string{"EP001"}}
	svc := NewService(repo, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	_, err = svc.ExcludedCostCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestExcludedCostCodesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := &memoryRefRepo{err: storeErr}
	svc := newCachedService(t, repo)

	_, err := svc.ExcludedCostCodes(context.Background())
	require.ErrorIs(t, err, storeErr)
}
