package mailer

import (
	"context"
	"fmt"
	"strings"

	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

const (
	fallbackPort = 587
	defaultHost  = "smtp.gmail.com"
	defaultPort  = 465
)

// Config describes the SMTP account used for outbound mail.
type Config struct {
	Host     string
	Port     int
	Secure   bool
	User     string
	Password string
	From     string
}

// Endpoint is one way of reaching the SMTP server.
type Endpoint struct {
	Host        string
	Port        int
	ImplicitTLS bool
}

func (e Endpoint) String() string {
	mode := "starttls"
	if e.ImplicitTLS {
		mode = "tls"
	}
	return fmt.Sprintf("%s:%d/%s", e.Host, e.Port, mode)
}

type Credentials struct {
	User     string
	Password string
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Conn is an authenticated SMTP session.
type Conn interface {
	Send(ctx context.Context, msg Message) (messageID string, err error)
	Close() error
}

// Dialer connects and authenticates to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, ep Endpoint, creds Credentials) (Conn, error)
}

// Receipt describes a delivered message.
type Receipt struct {
	MessageID string
	Endpoint  Endpoint
	Fallback  bool
}

// Mailer delivers messages, falling back from the configured endpoint to
// port 587 with STARTTLS when the first connection cannot be established.
type Mailer struct {
	cfg    Config
	dialer Dialer
}

// New returns a Mailer that dials with go-mail.
func New(cfg Config) *Mailer {
	return NewWithDialer(cfg, NewSMTPDialer())
}

func NewWithDialer(cfg Config, dialer Dialer) *Mailer {
	if strings.TrimSpace(cfg.Host) == "" {
		cfg.Host = defaultHost
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
		cfg.Secure = true
	}
	cfg.Password = NormalizePassword(cfg.Password)
	if strings.TrimSpace(cfg.From) == "" {
		cfg.From = cfg.User
	}
	return &Mailer{cfg: cfg, dialer: dialer}
}

// From is the sender address used for outbound messages.
func (m *Mailer) From() string {
	return m.cfg.From
}

// Endpoints returns the two endpoints tried, in order.
func (m *Mailer) Endpoints() [2]Endpoint {
	return [2]Endpoint{
		{Host: m.cfg.Host, Port: m.cfg.Port, ImplicitTLS: m.cfg.Secure},
		{Host: m.cfg.Host, Port: fallbackPort, ImplicitTLS: false},
	}
}

// Send connects (at most two attempts) and sends msg. Sending itself is not retried.
func (m *Mailer) Send(ctx context.Context, msg Message) (Receipt, error) {
	if msg.From == "" {
		msg.From = m.cfg.From
	}
	creds := Credentials{User: m.cfg.User, Password: m.cfg.Password}
	endpoints := m.Endpoints()

	var failures []AttemptError
	var conn Conn
	var used Endpoint
	var fallback bool
	for i, ep := range endpoints {
		c, err := m.dialer.Dial(ctx, ep, creds)
		if err == nil {
			conn, used, fallback = c, ep, i > 0
			if fallback {
				metrics.IncSMTPFallback()
			}
			break
		}
		failures = append(failures, AttemptError{Endpoint: ep, Stage: StageConnect, Err: err})
		telemetry.Warn("smtp.connect_failed", map[string]any{
			"endpoint": ep.String(),
			"attempt":  i + 1,
			"error":    err,
		})
	}
	if conn == nil {
		return Receipt{}, &DeliveryError{Attempts: failures}
	}
	defer conn.Close()

	id, err := conn.Send(ctx, msg)
	if err != nil {
		failures = append(failures, AttemptError{Endpoint: used, Stage: StageSend, Err: err})
		return Receipt{}, &DeliveryError{Attempts: failures}
	}
	return Receipt{MessageID: id, Endpoint: used, Fallback: fallback}, nil
}

// NormalizePassword removes all whitespace, which app passwords often carry
// when copied from a provider's settings page.
func NormalizePassword(p string) string {
	return strings.Join(strings.Fields(p), "")
}
