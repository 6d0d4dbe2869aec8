// Package applications implements the application status workflow: a small
// finite-state machine over Application.Status plus the best-effort
// candidate notification that follows a successful transition.
package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mekanis/internal/database"
	"mekanis/internal/errcode"
	"mekanis/internal/tasks"
	"mekanis/internal/worker"
)

// Allowed status transitions. Nothing skips reviewing, and pending is never
// re-entered once left.
var transitions = map[string][]string{
	database.ApplicationPending:   {database.ApplicationReviewing},
	database.ApplicationReviewing: {database.ApplicationApproved, database.ApplicationRejected},
	database.ApplicationApproved:  {database.ApplicationReviewing},
	database.ApplicationRejected:  {database.ApplicationReviewing},
}

// CanTransition reports whether the status graph allows from -> to.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when a requested status change is not
// an edge of the graph.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

type enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Workflow persists status transitions and triggers candidate notifications.
// The transition is authoritative once the row is updated; notification and
// the realtime event are best-effort and never roll it back.
type Workflow struct {
	db     *gorm.DB
	queue  enqueuer
	redis  redis.UniversalClient
	logger *slog.Logger
}

// NewWorkflow builds a Workflow. queue and redisClient may be nil in tests;
// both side effects degrade to a log line.
func NewWorkflow(db *gorm.DB, queue enqueuer, redisClient redis.UniversalClient, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{db: db, queue: queue, redis: redisClient, logger: logger}
}

// Transition moves an application to newStatus. The new status is persisted
// first; only then is the email task enqueued and the employer socket event
// published. Either side effect failing is logged and swallowed.
func (w *Workflow) Transition(ctx context.Context, app *database.Application, newStatus, correlationID string) error {
	if !CanTransition(app.Status, newStatus) {
		return &InvalidTransitionError{From: app.Status, To: newStatus}
	}

	if err := w.db.WithContext(ctx).
		Model(&database.Application{}).
		Where("id = ?", app.ID).
		Update("status", newStatus).Error; err != nil {
		return fmt.Errorf("persist status: %w", err)
	}
	app.Status = newStatus

	log := w.logger.With(
		slog.Uint64("application_id", uint64(app.ID)),
		slog.String("status", newStatus),
		slog.String("correlation_id", correlationID),
	)

	if w.queue != nil {
		task, err := tasks.NewApplicationStatusEmailTask(app.ID, correlationID)
		if err != nil {
			log.Error("build status email task failed", slog.Any("error", err))
		} else if _, err := w.queue.Enqueue(task, asynq.MaxRetry(5)); err != nil {
			log.Error("enqueue status email failed", slog.Any("error", err))
		}
	}

	w.publishEvent(ctx, app, log)
	return nil
}

func (w *Workflow) publishEvent(ctx context.Context, app *database.Application, log *slog.Logger) {
	if w.redis == nil {
		return
	}
	event := worker.ApplicationNotifyMessage{
		Type:          "application_status",
		ApplicationID: app.ID,
		JobListingID:  app.JobListingID,
		Status:        app.Status,
		Code:          errcode.OK,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Error("marshal application event failed", slog.Any("error", err))
		return
	}

	var companyUserID uint
	err = w.db.WithContext(ctx).
		Model(&database.Company{}).
		Select("users.id").
		Joins("JOIN users ON users.id = companies.user_id").
		Joins("JOIN job_listings ON job_listings.company_id = companies.id").
		Where("job_listings.id = ?", app.JobListingID).
		Scan(&companyUserID).Error
	if err != nil || companyUserID == 0 {
		log.Warn("resolve company user for event failed", slog.Any("error", err))
		return
	}

	if err := w.redis.Publish(ctx, worker.NotifyChannel(companyUserID), payload).Err(); err != nil {
		log.Error("publish application event failed", slog.Any("error", err))
	}
}
