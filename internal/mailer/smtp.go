package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

const defaultDialTimeout = 15 * time.Second

// SMTPDialer dials real SMTP servers with go-mail.
type SMTPDialer struct {
	Timeout time.Duration
}

func NewSMTPDialer() *SMTPDialer {
	return &SMTPDialer{Timeout: defaultDialTimeout}
}

// Dial connects, negotiates TLS and authenticates.
func (d *SMTPDialer) Dial(ctx context.Context, ep Endpoint, creds Credentials) (Conn, error) {
	opts := []mail.Option{
		mail.WithPort(ep.Port),
		mail.WithTimeout(d.Timeout),
	}
	if ep.ImplicitTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if creds.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(creds.User),
			mail.WithPassword(creds.Password),
		)
	}

	client, err := mail.NewClient(ep.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", ep, err)
	}
	return &smtpConn{client: client}, nil
}

type smtpConn struct {
	client *mail.Client
}

func (c *smtpConn) Send(ctx context.Context, msg Message) (string, error) {
	m, id, err := buildMsg(msg)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.client.Send(m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}
	return id, nil
}

func (c *smtpConn) Close() error {
	return c.client.Close()
}

// buildMsg assembles the MIME message and returns it with its Message-ID.
func buildMsg(msg Message) (*mail.Msg, string, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, "", fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, att := range msg.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Data), mail.WithFileContentType(mail.ContentType(contentType))); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	id := uuid.NewString() + "@" + messageIDDomain(msg.From)
	m.SetMessageIDWithValue(id)
	return m, "<" + id + ">", nil
}

func messageIDDomain(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		return strings.Trim(from[at+1:], "> ")
	}
	return "resume-tailor.local"
}
