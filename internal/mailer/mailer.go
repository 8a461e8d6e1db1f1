package mailer

import (
	"errors"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail synchronously over SMTP. A transport failure is
// returned to the caller, never swallowed.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New creates a Mailer for the given SMTP endpoint.
func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendHTML sends a single HTML message to one recipient.
func (m *Mailer) SendHTML(to, subject, htmlBody string) error {
	if to == "" {
		return errors.New("no recipient specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}
