package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	to, subject, body string
	err               error
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.to, m.subject, m.body = to, subject, body
	return nil
}

func TestSendEmailTaskRoundTrip(t *testing.T) {
	task, err := NewSendEmailTask(SendEmailPayload{
		To:      "mahasiswa@kampus.ac.id",
		Subject: "Tugas baru",
		Body:    "Tugas 3 sudah tersedia",
	})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSendEmail, task.Type())

	mailer := &recordingMailer{}
	handler := NewSendEmailHandler(mailer)
	require.NoError(t, handler(context.Background(), task))

	assert.Equal(t, "mahasiswa@kampus.ac.id", mailer.to)
	assert.Equal(t, "Tugas baru", mailer.subject)
	assert.Equal(t, "Tugas 3 sudah tersedia", mailer.body)
}

func TestSendEmailHandlerSkipsRetryOnBadPayload(t *testing.T) {
	handler := NewSendEmailHandler(&recordingMailer{})
	err := handler(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestSendEmailHandlerPropagatesMailerError(t *testing.T) {
	mailErr := errors.New("relay refused")
	handler := NewSendEmailHandler(&recordingMailer{err: mailErr})

	payload, err := json.Marshal(SendEmailPayload{To: "x@y.z"})
	require.NoError(t, err)
	err = handler(context.Background(), asynq.NewTask(TaskTypeSendEmail, payload))
	assert.ErrorIs(t, err, mailErr)
}
