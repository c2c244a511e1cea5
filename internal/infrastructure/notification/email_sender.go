package notification

import (
	"context"
	"fmt"
	"net/smtp"

	"scamwatch/pkg/logger"
)

// SMTPEmailSender delivers alert emails through a plain SMTP relay. No
// mail library ships with the project; the sender is a thin provider
// adapter behind the channel-sender contract.
type SMTPEmailSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPEmailSender(host string, port int, from, username, password string) *SMTPEmailSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPEmailSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTPEmailSender) Send(_ context.Context, destination, title, body string, _ map[string]string) bool {
	if destination == "" {
		return false
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, destination, title, body))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{destination}, msg); err != nil {
		logger.Warn("SMTP send to %s failed: %v", destination, err)
		return false
	}
	return true
}
