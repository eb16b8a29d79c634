// Package mail renders notification templates and sends them over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
)

// Message is one notification to render and send.
type Message struct {
	To       []string
	Subject  string
	Template string
	Data     map[string]interface{}
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	Sender    string
	SiteTitle string
}

func LoadSMTPConfig() SMTPConfig {
	cfg := SMTPConfig{
		Host:      env.GetEnv("SMTP_HOST", ""),
		Port:      env.GetEnv("SMTP_PORT", "587"),
		Username:  env.GetEnv("SMTP_USERNAME", ""),
		Password:  env.GetEnv("SMTP_PASSWORD", ""),
		Sender:    env.GetEnv("SMTP_SENDER", ""),
		SiteTitle: env.GetEnv("APP_NAME", "District 5B"),
	}
	if cfg.Sender == "" {
		cfg.Sender = "no-reply@localhost"
		log.Warnf("[Mail] SMTP_SENDER not set, using default sender: %s", cfg.Sender)
	}
	return cfg
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends emails via SMTP
type SMTPMailer struct {
	cfg      SMTPConfig
	renderer *Renderer
	send     sendFunc
}

func NewSMTPMailer(cfg SMTPConfig, renderer *Renderer) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, renderer: renderer, send: smtp.SendMail}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data := map[string]interface{}{"Subject": msg.Subject, "SiteTitle": m.cfg.SiteTitle}
	for k, v := range msg.Data {
		data[k] = v
	}
	body, err := m.renderer.Render(msg.Template, data)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	raw := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", m.cfg.Sender, strings.Join(msg.To, ", "), sanitizeHeader(msg.Subject)) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := m.send(addr, auth, m.cfg.Sender, msg.To, raw); err != nil {
		return fmt.Errorf("smtp send via %s: %w", addr, err)
	}
	log.Infof("[Mail] %s sent to %d recipient(s) via %s", msg.Template, len(msg.To), addr)
	return nil
}

// LogMailer only logs messages; used when SMTP_HOST is empty.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Infof("[Mail] SMTP disabled, not sending %s %q to %s", msg.Template, msg.Subject, strings.Join(msg.To, ", "))
	return nil
}

// NewFromEnv returns an SMTPMailer when SMTP_HOST is configured, LogMailer otherwise.
func NewFromEnv() (Mailer, error) {
	cfg := LoadSMTPConfig()
	if cfg.Host == "" {
		return LogMailer{}, nil
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return NewSMTPMailer(cfg, renderer), nil
}

// Deliver sends msg and logs failures instead of returning them; notification
// mail never fails the write that triggered it.
func Deliver(ctx context.Context, m Mailer, msg Message) {
	if m == nil || len(msg.To) == 0 {
		return
	}
	if err := m.Send(ctx, msg); err != nil {
		log.Errorf("[Mail] %s to %s failed: %v", msg.Template, strings.Join(msg.To, ", "), err)
	}
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
