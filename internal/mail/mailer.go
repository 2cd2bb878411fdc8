package mail

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer is the out-of-band delivery collaborator. Transport failures are
// returned to the caller, which maps them to a generic 500.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends HTML mail over plain-auth SMTP.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.Host == "" || m.User == "" || m.Pass == "" {
		return fmt.Errorf("mail: smtp is not configured")
	}

	from := m.From
	if from == "" {
		from = m.User
	}

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		htmlBody + "\r\n"

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, from, []string{to}, []byte(msg))
}

// LogMailer stands in when SMTP is unconfigured (local development). It
// logs recipient and subject only; bodies carry secrets like reset links
// and are never written to the log.
type LogMailer struct{}

func (LogMailer) Send(to, subject, htmlBody string) error {
	log.Printf("mail (dev): to=%s subject=%q (%d byte body suppressed)", to, subject, len(htmlBody))
	return nil
}
