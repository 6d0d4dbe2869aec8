package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants keep queue producers and consumers in sync.
const (
	TypeApplicationStatusEmail   = "email:application_status"
	TypeApplicationReceivedEmail = "email:application_received"
)

// ApplicationEmailPayload identifies the application a mail task is about.
// The worker loads everything else (candidate, job, company) fresh from the
// database so the mail reflects the state at send time.
type ApplicationEmailPayload struct {
	ApplicationID uint   `json:"application_id"`
	CorrelationID string `json:"correlation_id"`
}

// NewApplicationStatusEmailTask builds the candidate status-change mail task.
func NewApplicationStatusEmailTask(applicationID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ApplicationEmailPayload{
		ApplicationID: applicationID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeApplicationStatusEmail, payload), nil
}

// NewApplicationReceivedEmailTask builds the employer new-application mail task.
func NewApplicationReceivedEmailTask(applicationID uint, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ApplicationEmailPayload{
		ApplicationID: applicationID,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeApplicationReceivedEmail, payload), nil
}
