package emailrelay

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/madun-it/portfolio/internal/contact"
)

const defaultSMTPTimeout = 15 * time.Second

type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	// Timeout bounds the whole session, from dial to QUIT.
	Timeout time.Duration
}

// SMTP relays contact messages through a mail server.
type SMTP struct {
	cfg    SMTPConfig
	dialer net.Dialer
}

var _ contact.Relay = (*SMTP)(nil)

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	return &SMTP{cfg: cfg}
}

// Send delivers msg in a single SMTP session. The session is aborted when
// the configured timeout elapses or ctx is done, whichever comes first.
func (s *SMTP) Send(ctx context.Context, msg contact.Message) error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return errors.New("smtp: credentials not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	conn, err := s.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := s.deliver(conn, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp: %w: %w", ctxErr, err)
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return fmt.Errorf("smtp: %w: %w", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

// deliver runs the same conversation as smtp.SendMail over conn.
func (s *SMTP) deliver(conn net.Conn, msg contact.Message) error {
	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.User); err != nil {
		return err
	}
	if err := c.Rcpt(msg.ToEmail); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(composeMail(s.cfg.User, msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func composeMail(from string, msg contact.Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(msg.FromName))
	body := fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
WhatsApp: %s
Address: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.FromName, msg.FromEmail, msg.WhatsAppNumber, msg.FromAddress, msg.Body)

	var b strings.Builder
	b.WriteString("To: " + msg.ToEmail + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(msg.FromEmail) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

// headerSafe strips line breaks so form input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
