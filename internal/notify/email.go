package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Validate checks configuration is usable when enabled.
func (c *EmailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" {
		return fmt.Errorf("email host is required when email notification is enabled")
	}
	if c.From == "" {
		return fmt.Errorf("email from address is required")
	}
	if len(c.To) == 0 {
		return fmt.Errorf("at least one email recipient is required")
	}
	return nil
}

// EmailNotifier sends the HTML signal table over SMTP with STARTTLS.
type EmailNotifier struct {
	config *EmailConfig
	logger *zap.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailNotifier(cfg *EmailConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		config: cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send delivers the report as a single HTML email.
func (e *EmailNotifier) Send(ctx context.Context, report *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := report.HTML()
	if err != nil {
		return err
	}

	msg := buildMessage(e.config.From, e.config.To, report.Subject(), body)
	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)

	var auth smtp.Auth
	if e.config.Username != "" {
		auth = smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
	}

	if err := e.send(addr, auth, e.config.From, e.config.To, msg); err != nil {
		e.logger.Warn("failed to send email", zap.String("host", e.config.Host), zap.Error(err))
		return fmt.Errorf("sending email: %w", err)
	}

	e.logger.Debug("email sent",
		zap.Int("recipients", len(e.config.To)),
		zap.String("subject", report.Subject()),
	)
	return nil
}

func buildMessage(from string, to []string, subject, htmlBody string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)
	return []byte(sb.String())
}
