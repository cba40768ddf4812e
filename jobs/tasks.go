// Package jobs defines the background tasks processed by the worker binary.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for notification email delivery.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Mailer delivers an email. Implemented by SMTPMailer in production.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSendEmailHandler returns the handler processing TaskTypeSendEmail.
func NewSendEmailHandler(mailer Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return mailer.Send(ctx, payload.To, payload.Subject, payload.Body)
	}
}
