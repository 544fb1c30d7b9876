package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/portfolio-api/internal/config"
)

// Message is a single outbound HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
	ReplyTo string
	Headers map[string]string // extra headers, e.g. List-Unsubscribe
}

// Mailer sends emails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	host       string
	port       string
	from       string
	username   string
	password   string
	timeout    time.Duration
	maxRetries uint64
	send       sendFunc
	newBackOff func() backoff.BackOff
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		from:       cfg.SMTPFrom,
		username:   cfg.SMTPUsername,
		password:   cfg.SMTPPassword,
		timeout:    cfg.MailTimeout,
		maxRetries: 2,
		send:       sendMail,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

// Send delivers msg, bounding every attempt by the configured timeout and
// retrying transient failures with exponential backoff.
func (m *mailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("smtp: empty recipient")
	}
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	raw := m.build(msg, time.Now())

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	op := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()
		err := m.send(attemptCtx, addr, auth, m.from, []string{msg.To}, raw)
		if err != nil && attemptCtx.Err() != nil {
			return fmt.Errorf("smtp send to %s: %w", addr, attemptCtx.Err())
		}
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(m.newBackOff(), m.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// sendMail is smtp.SendMail bound to ctx: the dial honours the deadline and
// the connection is closed as soon as ctx is done, unblocking any pending IO.
func sendMail(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func (m *mailer) build(msg Message, now time.Time) []byte {
	var b strings.Builder
	writeHeader := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(sanitizeHeader(v))
		b.WriteString("\r\n")
	}
	writeHeader("From", m.from)
	writeHeader("To", msg.To)
	writeHeader("Subject", msg.Subject)
	writeHeader("Date", now.Format(time.RFC1123Z))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", msg.ReplyTo)
	}
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeHeader(sanitizeHeader(k), msg.Headers[k])
	}
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", `text/html; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// sanitizeHeader strips CR and LF so user-supplied values cannot inject headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}
