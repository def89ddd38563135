package refdata

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const excludedCodesKey = "refdata:excluded_cost_codes"

// Service serves reference data snapshots, caching them in Redis with a TTL.
// Callers treat the snapshot as read-only for the duration of one request;
// the refresh policy lives here, outside the pure calculation components.
type Service struct {
	repo   RepositoryPort
	client *redis.Client
	ttl    time.Duration
}

// NewService wires the repository with an optional Redis client. A nil
// client disables caching.
func NewService(repo RepositoryPort, client *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{repo: repo, client: client, ttl: ttl}
}

// ExcludedCostCodes returns the current excluded-cost snapshot.
func (s *Service) ExcludedCostCodes(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return s.repo.ExcludedCostCodes(ctx)
	}

	payload, err := s.client.Get(ctx, excludedCodesKey).Bytes()
	if err == nil {
		var codes []string
		if err := json.Unmarshal(payload, &codes); err == nil {
			return codes, nil
		}
		// Unreadable cache entry; fall through to the store.
	} else if err != redis.Nil {
		return nil, err
	}

	codes, err := s.repo.ExcludedCostCodes(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return nil, err
	}
	if err := s.client.Set(ctx, excludedCodesKey, raw, s.ttl).Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// Invalidate drops the cached snapshot so the next read hits the store.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, excludedCodesKey).Err()
}
