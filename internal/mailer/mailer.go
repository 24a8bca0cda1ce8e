package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers outbound mail. Callers send fire-and-forget; delivery
// failures are logged, never surfaced to the request.
type Mailer interface {
	SendPasswordReset(to, name, resetLink string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *SMTPMailer) SendPasswordReset(to, name, resetLink string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Forget Password")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nUse the link below to reset your password. It expires shortly.\n\n%s\n", name, resetLink))
	return gomail.NewDialer(m.host, m.port, m.user, m.pass).DialAndSend(msg)
}
