// Package jobs defines the asynq background tasks and worker wiring.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWipBalanceWarmup pre-populates the client balance and task
	// profitability caches ahead of the morning reporting window.
	TaskWipBalanceWarmup = "wip:balance_warmup"
)

// BalanceWarmupPayload scopes one warmup run.
type BalanceWarmupPayload struct {
	RunID string `json:"run_id"`
	// Scope selects the client set: "active" (default) or "all".
	Scope string `json:"scope"`
}

// NewBalanceWarmupTask constructs an asynq task for a warmup run.
func NewBalanceWarmupTask(scope string) (*asynq.Task, error) {
	if scope == "" {
		scope = "active"
	}
	data, err := json.Marshal(BalanceWarmupPayload{RunID: uuid.NewString(), Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWipBalanceWarmup, data), nil
}
