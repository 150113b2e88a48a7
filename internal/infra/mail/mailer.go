// Package mail sends OTP and notification emails over SMTP.
package mail

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Mailer wraps a gomail dialer. With FailSilent set, delivery errors are
// logged and swallowed so a broken SMTP relay never aborts a signup flow.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	failSilent bool
	log        *logrus.Entry
}

func NewMailer(host string, port int, username, password, from string, failSilent bool) *Mailer {
	return &Mailer{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       from,
		failSilent: failSilent,
		log:        logrus.WithField("component", "mailer"),
	}
}

// SendOTP delivers a verification code.
func (m *Mailer) SendOTP(to, code string) error {
	body := fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code)
	return m.send(to, "Your verification code", body)
}

// SendNotification delivers a plain notification message.
func (m *Mailer) SendNotification(to, subject, body string) error {
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.WithError(err).WithField("to", to).Error("Failed to send mail")
		if m.failSilent {
			return nil
		}
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
