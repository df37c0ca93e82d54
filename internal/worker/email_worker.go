package worker

// email_worker.go
// Processes email jobs from QueueEmail: mails the settlement receipt to the
// consignment owner.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail  string   `json:"to_email"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	Adjuntos []string `json:"adjuntos,omitempty"`
}

// Enviador sends one email. *infra.Mailer implements it.
type Enviador interface {
	Configurado() bool
	EnviarComprobante(to, subject, body string, adjuntos ...string) error
}

type EmailWorker struct {
	mailer Enviador
}

func NewEmailWorker(mailer Enviador) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends the email. Jobs without a recipient, or arriving while SMTP
// is not configured, are dropped.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}
	if w.mailer == nil || !w.mailer.Configurado() {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP not configured, skipping")
		return nil
	}

	if err := w.mailer.EnviarComprobante(payload.ToEmail, payload.Subject, payload.Body, payload.Adjuntos...); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: comprobante sent")
	return nil
}
