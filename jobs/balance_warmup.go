package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/praxis-pm/praxis/internal/jobs"
	"github.com/praxis-pm/praxis/internal/wip"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BalanceWarmupJob pre-populates the client balance caches so the first
// morning dashboard hit does not pay for a full ledger scan.
type BalanceWarmupJob struct {
	Service *wip.Service
	Cache   *wip.Cache
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewBalanceWarmupJob wires dependencies for the warmup handler.
func NewBalanceWarmupJob(service *wip.Service, cache *wip.Cache, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *BalanceWarmupJob {
	return &BalanceWarmupJob{
		Service: service,
		Cache:   cache,
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes balance warmup tasks.
func (j *BalanceWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("balance warmup: handler not configured")
	}
	var payload BalanceWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Scope == "" {
		payload.Scope = "active"
	}

	tracker := j.metrics().Track(TaskWipBalanceWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("run_id", payload.RunID), slog.String("scope", payload.Scope))
	logger.Info("starting balance warmup")

	refs, err := j.fetchClientRefs(ctx, payload.Scope)
	if err != nil {
		resultErr = err
		logger.Error("load warmup clients", slog.Any("error", err))
		return resultErr
	}
	if len(refs) == 0 {
		logger.Info("no clients discovered for warmup")
		return resultErr
	}

	start := j.now()
	warmed := 0
	for _, ref := range refs {
		if err := j.warmClient(ctx, ref); err != nil {
			resultErr = err
			logger.Error("warm client", slog.String("client_ref", ref), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed balance warmup", slog.Int("clients", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *BalanceWarmupJob) warmClient(ctx context.Context, clientRef string) error {
	if j.Service == nil {
		return nil
	}
	// Bound each client so one pathological ledger cannot stall the run.
	clientCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if j.Cache == nil {
		_, err := j.Service.ClientBalances(clientCtx, clientRef)
		return err
	}
	return j.Cache.WarmClientBalances(clientCtx, j.Service, clientRef)
}

func (j *BalanceWarmupJob) fetchClientRefs(ctx context.Context, scope string) ([]string, error) {
	if j.Pool == nil {
		return nil, errors.New("balance warmup: pool not configured")
	}
	query := `SELECT external_ref FROM clients WHERE active ORDER BY external_ref`
	if scope == "all" {
		query = `SELECT external_ref FROM clients ORDER BY external_ref`
	}
	rows, err := j.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]string, 0)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

func (j *BalanceWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskWipBalanceWarmup))
	}
	return slog.Default().With(slog.String("job", TaskWipBalanceWarmup))
}

func (j *BalanceWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BalanceWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
