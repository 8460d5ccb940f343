// Package notify fans policy events out to users. The policy engine hands
// events to Enqueuer after its transaction commits; the job worker later
// materializes them into the notifications table.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"log/slog"

	"github.com/qalamdan/porsesh/internal/jobs"
	"github.com/qalamdan/porsesh/pkg/models"
	"github.com/qalamdan/porsesh/pkg/repository"
)

// JobType is the job-queue type key for notification deliveries.
const JobType = "notify.deliver"

type payload struct {
	UserID int64           `json:"user_id"`
	Kind   string          `json:"kind"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Enqueuer implements policy.Notifier by pushing a delivery job onto the
// background queue. Delivery failures never affect the originating request.
type Enqueuer struct {
	pool   *jobs.WorkerPool
	logger *slog.Logger
}

func NewEnqueuer(pool *jobs.WorkerPool, logger *slog.Logger) *Enqueuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enqueuer{pool: pool, logger: logger}
}

func (e *Enqueuer) Notify(ctx context.Context, userID int64, kind string, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		e.logger.Error("marshal notification data", "kind", kind, "err", err)
		return
	}
	p := payload{UserID: userID, Kind: kind, Data: b}
	if _, err := e.pool.Enqueue(ctx, JobType, p, 100, 3); err != nil {
		e.logger.Error("enqueue notification", "kind", kind, "err", err)
	}
}

// Handler returns the job handler that writes a notification row.
func Handler(repo repository.NotificationRepo) jobs.Handler {
	return func(ctx context.Context, j *jobs.Job) error {
		var p payload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return fmt.Errorf("decode notification payload: %w", err)
		}
		if p.UserID <= 0 || p.Kind == "" {
			return fmt.Errorf("notification payload missing user or kind")
		}

		n := &models.Notification{UserID: p.UserID, Kind: p.Kind, Payload: string(p.Data)}
		if _, err := repo.CreateNotification(ctx, n); err != nil {
			return fmt.Errorf("store notification: %w", err)
		}
		return nil
	}
}
