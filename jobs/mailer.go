package jobs

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends plain-text mail through a configured SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer constructs an SMTPMailer for host:port.
func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{addr: fmt.Sprintf("%s:%d", host, port), from: from}
}

// Send delivers a single message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("jobs: send mail: %w", err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
