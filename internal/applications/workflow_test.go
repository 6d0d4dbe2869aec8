package applications

import (
	"context"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mekanis/internal/database"
	"mekanis/internal/tasks"
)

func TestTransitionGraph(t *testing.T) {
	assert.True(t, CanTransition(database.ApplicationPending, database.ApplicationReviewing))
	assert.True(t, CanTransition(database.ApplicationReviewing, database.ApplicationApproved))
	assert.True(t, CanTransition(database.ApplicationReviewing, database.ApplicationRejected))

	// re-review is allowed from both terminal decisions
	assert.True(t, CanTransition(database.ApplicationApproved, database.ApplicationReviewing))
	assert.True(t, CanTransition(database.ApplicationRejected, database.ApplicationReviewing))

	// nothing skips reviewing
	assert.False(t, CanTransition(database.ApplicationPending, database.ApplicationApproved))
	assert.False(t, CanTransition(database.ApplicationPending, database.ApplicationRejected))

	// pending is never re-entered
	assert.False(t, CanTransition(database.ApplicationReviewing, database.ApplicationPending))
	assert.False(t, CanTransition(database.ApplicationApproved, database.ApplicationPending))
	assert.False(t, CanTransition(database.ApplicationRejected, database.ApplicationPending))

	// no self loops
	assert.False(t, CanTransition(database.ApplicationReviewing, database.ApplicationReviewing))
}

type recordingQueue struct {
	enqueued []*asynq.Task
	err      error
}

func (q *recordingQueue) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.enqueued = append(q.enqueued, task)
	return &asynq.TaskInfo{}, nil
}

func newWorkflowDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedApplication(t *testing.T, db *gorm.DB, status string) *database.Application {
	t.Helper()
	app := &database.Application{
		JobListingID: 1,
		GuestName:    "Ali Veli",
		GuestEmail:   "ali@example.com",
		ResumeKey:    "cv/guest/ali.pdf",
		Status:       status,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}

func TestTransitionPersistsThenEnqueues(t *testing.T) {
	db := newWorkflowDB(t)
	queue := &recordingQueue{}
	wf := NewWorkflow(db, queue, nil, slog.Default())

	app := seedApplication(t, db, database.ApplicationPending)
	require.NoError(t, wf.Transition(context.Background(), app, database.ApplicationReviewing, "cid-1"))

	var stored database.Application
	require.NoError(t, db.First(&stored, app.ID).Error)
	assert.Equal(t, database.ApplicationReviewing, stored.Status)
	assert.Equal(t, database.ApplicationReviewing, app.Status)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, tasks.TypeApplicationStatusEmail, queue.enqueued[0].Type())
}

func TestTransitionRejectsInvalidEdge(t *testing.T) {
	db := newWorkflowDB(t)
	queue := &recordingQueue{}
	wf := NewWorkflow(db, queue, nil, slog.Default())

	app := seedApplication(t, db, database.ApplicationPending)
	err := wf.Transition(context.Background(), app, database.ApplicationApproved, "cid-2")

	var terr *InvalidTransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, database.ApplicationPending, terr.From)

	// nothing persisted, nothing enqueued
	var stored database.Application
	require.NoError(t, db.First(&stored, app.ID).Error)
	assert.Equal(t, database.ApplicationPending, stored.Status)
	assert.Empty(t, queue.enqueued)
}

func TestTransitionSurvivesNotificationFailure(t *testing.T) {
	db := newWorkflowDB(t)
	queue := &recordingQueue{err: assert.AnError}
	wf := NewWorkflow(db, queue, nil, slog.Default())

	app := seedApplication(t, db, database.ApplicationReviewing)
	// enqueue failure is logged, the transition still stands
	require.NoError(t, wf.Transition(context.Background(), app, database.ApplicationApproved, "cid-3"))

	var stored database.Application
	require.NoError(t, db.First(&stored, app.ID).Error)
	assert.Equal(t, database.ApplicationApproved, stored.Status)
}
