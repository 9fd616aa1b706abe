package notifier

import (
	"gopkg.in/gomail.v2"

	errs "dealsniper/pkg/errors"
)

// MailNotifier delivers deal alerts over SMTP
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewMailNotifier creates a new SMTP notifier
func NewMailNotifier(host string, port int, user, pass, from, to string) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     to,
	}
}

// Notify sends the alert as a plain-text mail
func (n *MailNotifier) Notify(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return errs.NewNotify("mail", "failed to send alert", err)
	}
	return nil
}

// Close is a no-op; the dialer connects per send
func (n *MailNotifier) Close() error {
	return nil
}
