package deliver

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Options configures the SMTP deliverer.
type Options struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	Timeout   time.Duration
	Signer    *Signer // optional DKIM signer
}

// SMTPDeliverer submits messages to an authenticated mail relay. Each Deliver
// call opens one connection, submits one message, and closes; the engine's
// pacing keeps the connection rate low enough that pooling gains nothing.
type SMTPDeliverer struct {
	opts   Options
	logger *slog.Logger
}

// New creates an SMTP deliverer.
func New(opts Options, logger *slog.Logger) *SMTPDeliverer {
	if opts.Port == 0 {
		opts.Port = 587
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPDeliverer{
		opts:   opts,
		logger: logger.With("component", "deliver"),
	}
}

// Deliver sends one message to one recipient. A non-nil error means the
// provider did not accept the message; the reason is preserved verbatim for
// the activity log.
func (d *SMTPDeliverer) Deliver(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(d.opts.FromName, d.opts.FromEmail, to, subject, body)
	if d.opts.Signer != nil {
		signed, err := d.opts.Signer.Sign(msg)
		if err != nil {
			return fmt.Errorf("dkim signing failed: %w", err)
		}
		msg = signed
	}

	addr := fmt.Sprintf("%s:%d", d.opts.Host, d.opts.Port)
	client, err := smtp.DialStartTLS(addr, &tls.Config{ServerName: d.opts.Host})
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer client.Close()

	client.CommandTimeout = d.opts.Timeout
	client.SubmissionTimeout = d.opts.Timeout

	if d.opts.Username != "" {
		auth := sasl.NewPlainClient("", d.opts.Username, d.opts.Password)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err := client.SendMail(d.opts.FromEmail, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp submission failed: %w", err)
	}

	if err := client.Quit(); err != nil {
		d.logger.Debug("smtp quit failed", "error", err)
	}

	d.logger.Debug("message submitted", "to", to, "subject", subject)
	return nil
}
