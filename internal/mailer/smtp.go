package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/coachevelyne/coachevelyne-api/config"
	"github.com/google/uuid"
)

const (
	implicitTLSPort  = 465
	defaultIOTimeout = 30 * time.Second
)

var (
	// ErrAuthFailed marks failures of the SMTP AUTH exchange
	ErrAuthFailed = errors.New("smtp authentication failed")
	// ErrConnectFailed marks failures before an SMTP session exists
	ErrConnectFailed = errors.New("smtp connection failed")
)

// SMTPTransport delivers messages over SMTP with PLAIN auth. It holds the
// credentials and dials once per message.
type SMTPTransport struct {
	host        string
	port        int
	auth        smtp.Auth
	dialTimeout time.Duration
	ioTimeout   time.Duration
	now         func() time.Time
}

// NewSMTPTransport builds a transport from process configuration
func NewSMTPTransport(cfg config.SMTPConfig) (*SMTPTransport, error) {
	if strings.TrimSpace(cfg.User) == "" || strings.TrimSpace(cfg.Password) == "" {
		return nil, fmt.Errorf("smtp credentials are not configured")
	}
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, fmt.Errorf("smtp host and port are required")
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}

	return &SMTPTransport{
		host:        cfg.Host,
		port:        cfg.Port,
		auth:        smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
		dialTimeout: dialTimeout,
		ioTimeout:   defaultIOTimeout,
		now:         time.Now,
	}, nil
}

// SMTPFactory adapts NewSMTPTransport to TransportFactory
func SMTPFactory(cfg config.SMTPConfig) TransportFactory {
	return func() (Transport, error) {
		return NewSMTPTransport(cfg)
	}
}

// Send delivers msg and returns the generated Message-ID
func (t *SMTPTransport) Send(ctx context.Context, msg *OutboundMessage) (string, error) {
	messageID := newMessageID(msg.From.Address)
	body, err := msg.Bytes(messageID, t.now())
	if err != nil {
		return "", err
	}

	conn, err := t.dial(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	if err := conn.SetDeadline(t.now().Add(t.ioTimeout)); err != nil {
		conn.Close()
		return "", fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return "", fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}
	defer client.Close()

	if _, isTLS := conn.(*tls.Conn); !isTLS {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12}); err != nil {
				return "", fmt.Errorf("%w: starttls: %w", ErrConnectFailed, err)
			}
		}
	}

	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(t.auth); err != nil {
			return "", fmt.Errorf("%w: %w", ErrAuthFailed, err)
		}
	} else {
		return "", fmt.Errorf("%w: server does not advertise AUTH", ErrAuthFailed)
	}

	if err := client.Mail(msg.From.Address); err != nil {
		return "", fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(msg.To.Address); err != nil {
		return "", fmt.Errorf("smtp RCPT TO: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return "", fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := wc.Write(body); err != nil {
		wc.Close()
		return "", fmt.Errorf("smtp write body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("smtp end of data: %w", err)
	}

	// The message is accepted once DATA completes; QUIT failures are not delivery failures
	_ = client.Quit() //nolint:errcheck

	return messageID, nil
}

func (t *SMTPTransport) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	dialer := &net.Dialer{Timeout: t.dialTimeout}

	if t.port == implicitTLSPort {
		tlsDialer := &tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: t.host, MinVersion: tls.VersionTLS12},
		}
		return tlsDialer.DialContext(ctx, "tcp", addr)
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

// newMessageID returns an RFC 5322 msg-id scoped to the sender's domain
func newMessageID(sender string) string {
	domain := domainOf(sender)
	if domain == "" {
		domain = "localhost"
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}
