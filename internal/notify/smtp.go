// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notify

import (
	"context"
	"fmt"
	"io"
	"mime/quotedprintable"
	"net/smtp"
	"strings"

	"github.com/msoaresfurtado/uw-astro-arxiv-digest/pkg/types"
)

// Sender delivers a rendered message. The run command uses a writer-backed
// implementation when email credentials are not configured.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers over SMTP with STARTTLS and plain auth.
type SMTPSender struct {
	cfg types.SMTPConfig

	// send is swapped out by tests.
	send func(addr string, a smtp.Auth, from string, to []string, body []byte) error
}

// NewSMTPSender builds a sender. Port defaults to 587.
func NewSMTPSender(cfg types.SMTPConfig) *SMTPSender {
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}
}

// Send delivers the message to all configured recipients as a
// multipart/alternative email carrying both the text and HTML bodies.
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if s.cfg.Sender == "" || len(s.cfg.Recipients) == 0 {
		return fmt.Errorf("smtp sender and recipients must be configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Sender, s.cfg.Password, s.cfg.Server)
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)

	body, err := buildMIME(s.cfg.Sender, s.cfg.Recipients, msg)
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}
	if err := s.send(addr, auth, s.cfg.Sender, s.cfg.Recipients, body); err != nil {
		return fmt.Errorf("sending digest email: %w", err)
	}
	return nil
}

// WriterSender "delivers" by writing the plain-text rendering to w. Used
// for dry runs and local debugging.
type WriterSender struct {
	W io.Writer
}

func (s *WriterSender) Send(_ context.Context, msg Message) error {
	fmt.Fprintf(s.W, "Subject: %s\n\n%s", msg.Subject, msg.Text)
	return nil
}

const mimeBoundary = "=_astro-digest-alt"

func buildMIME(from string, to []string, msg Message) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	for _, part := range []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&b, "Content-Type: %s\r\n", part.contentType)
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
		b.WriteString("\r\n")
		qp := quotedprintable.NewWriter(&b)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return []byte(b.String()), nil
}
