package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
)

// Mailer wraps SMTP configuration for sending settlement receipts to owners.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Configurado reports whether an SMTP host was provided.
func (m *Mailer) Configurado() bool { return m.host != "" }

// EnviarComprobante mails the receipt with its attachments through the breaker.
func (m *Mailer) EnviarComprobante(to, subject, body string, adjuntos ...string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, path := range adjuntos {
		if path == "" {
			continue
		}
		if _, err := e.AttachFile(path); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", path, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	send := func() error { return e.Send(m.addr, auth) }
	if m.cb == nil {
		return send()
	}
	return m.cb.Execute(send)
}
