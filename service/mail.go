package service

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
)

// Mailer delivers password-reset codes. Delivery internals stay behind
// this seam; tests plug a recording fake.
type Mailer interface {
	SendResetCode(toEmail, code string) error
}

// SMTPMailer sends mail over SMTP with STARTTLS.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendResetCode(toEmail, code string) error {
	subject := "Your password reset code"
	body := "Use this code to reset your password:\n" + code

	msg := []byte("To: " + toEmail + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	client, err := smtp.Dial(m.Host + ":" + m.Port)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
		return fmt.Errorf("smtp starttls: %w", err)
	}

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err = client.Mail(m.User); err != nil {
		return err
	}
	if err = client.Rcpt(toEmail); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
