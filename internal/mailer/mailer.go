// Package mailer sends plaintext notification emails over an authenticated SMTP session.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"techdesk_backend/internal/config"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Message is one plaintext email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Session is an open SMTP connection able to send several messages.
type Session interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// Mailer opens sessions.
type Mailer interface {
	Open(ctx context.Context) (Session, error)
}

// SMTPMailer dials a new authenticated session on every Open.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
	}
}

func (m *SMTPMailer) Open(ctx context.Context) (Session, error) {
	if m.dialer.Host == "" || m.dialer.Username == "" {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc, err := m.dialer.Dial()
	if err != nil {
		return nil, fmt.Errorf("dialing %s:%d: %w", m.dialer.Host, m.dialer.Port, err)
	}
	return &smtpSession{sender: sc, from: m.from}, nil
}

type smtpSession struct {
	sender gomail.SendCloser
	from   string
}

func (s *smtpSession) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if err := gomail.Send(s.sender, m); err != nil {
		return fmt.Errorf("sending to %s: %w", msg.To, err)
	}
	return nil
}

func (s *smtpSession) Close() error {
	return s.sender.Close()
}
