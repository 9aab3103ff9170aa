package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"
	"business-notifier/internal/notify/compose"
)

// Role names used in logs and outcome reporting.
const (
	NameDirectSMTP = "smtp-direct"
	NameRelaySMTP  = "smtp-relay"
)

// SMTPProvider delivers through one SMTP endpoint, either the direct server
// or a trusted relay. A fresh authenticated session is opened per call and
// each message is addressed to exactly one recipient.
type SMTPProvider struct {
	name           string
	cfg            config.SMTPConfig
	fromName       string
	fromEmail      string
	connectTimeout time.Duration
	logger         logger.Logger
}

func NewDirectSMTP(cfg config.SMTPConfig, fromName, fromEmail string, connectTimeout time.Duration, log logger.Logger) *SMTPProvider {
	return newSMTP(NameDirectSMTP, cfg, fromName, fromEmail, connectTimeout, log)
}

func NewRelaySMTP(cfg config.SMTPConfig, fromName, fromEmail string, connectTimeout time.Duration, log logger.Logger) *SMTPProvider {
	return newSMTP(NameRelaySMTP, cfg, fromName, fromEmail, connectTimeout, log)
}

func newSMTP(name string, cfg config.SMTPConfig, fromName, fromEmail string, connectTimeout time.Duration, log logger.Logger) *SMTPProvider {
	return &SMTPProvider{
		name:           name,
		cfg:            cfg,
		fromName:       fromName,
		fromEmail:      fromEmail,
		connectTimeout: connectTimeout,
		logger:         log.WithFields(map[string]interface{}{"provider": name}),
	}
}

func (p *SMTPProvider) Name() string {
	return p.name
}

func (p *SMTPProvider) Send(ctx context.Context, rcpt models.Recipient, msg *compose.Message) Outcome {
	if err := ctx.Err(); err != nil {
		return unavailable(fmt.Sprintf("context cancelled before send: %v", err))
	}

	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, p.connectTimeout)
	if err != nil {
		return unavailable(fmt.Sprintf("connect to %s failed: %v", addr, err))
	}

	client, err := smtp.NewClient(conn, p.cfg.Host)
	if err != nil {
		conn.Close()
		return unavailable(fmt.Sprintf("SMTP handshake failed: %v", err))
	}
	defer client.Close()

	if p.cfg.UseTLS {
		tlsConfig := &tls.Config{ServerName: p.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return unavailable(fmt.Sprintf("STARTTLS failed: %v", err))
		}
	}

	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	if err := client.Auth(auth); err != nil {
		// Bad credentials are permanent; anything else on this stage is a
		// broken session.
		if isProtocolError(err) {
			return rejected(fmt.Sprintf("SMTP authentication failed: %v", err))
		}
		return unavailable(fmt.Sprintf("SMTP authentication errored: %v", err))
	}

	if err := client.Mail(p.fromEmail); err != nil {
		return classifyProtocolErr("MAIL FROM", err)
	}
	if err := client.Rcpt(rcpt.Email); err != nil {
		return classifyProtocolErr("RCPT TO", err)
	}

	w, err := client.Data()
	if err != nil {
		return unavailable(fmt.Sprintf("DATA failed: %v", err))
	}
	if _, err := w.Write([]byte(p.buildMessage(rcpt, msg))); err != nil {
		w.Close()
		return unavailable(fmt.Sprintf("write message failed: %v", err))
	}
	if err := w.Close(); err != nil {
		return unavailable(fmt.Sprintf("close message failed: %v", err))
	}

	if err := client.Quit(); err != nil {
		p.logger.Debug("QUIT after accepted message failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return delivered(p.messageID(rcpt))
}

// VerifyConnection checks that the endpoint is reachable and speaks
// STARTTLS. Used once at startup; failures are logged, not fatal.
func (p *SMTPProvider) VerifyConnection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	conn, err := net.DialTimeout("tcp", addr, p.connectTimeout)
	if err != nil {
		return fmt.Errorf("connect to %s failed: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, p.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake failed: %w", err)
	}
	defer client.Close()

	if p.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: p.cfg.Host}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	return client.Quit()
}

// buildMessage renders the full RFC 5322 message for one recipient: headers
// plus a multipart/alternative body carrying the derived text part first
// and the HTML part second.
func (p *SMTPProvider) buildMessage(rcpt models.Recipient, msg *compose.Message) string {
	const boundary = "=-notify-alt-boundary"

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", formatAddress(models.Recipient{Name: p.fromName, Email: p.fromEmail})))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", formatAddress(rcpt)))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	builder.WriteString(fmt.Sprintf("Reply-To: %s\r\n", p.fromEmail))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	builder.WriteString("\r\n")

	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(msg.Text)
	builder.WriteString("\r\n")

	builder.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(msg.HTML)
	builder.WriteString("\r\n")

	builder.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return builder.String()
}

func (p *SMTPProvider) messageID(rcpt models.Recipient) string {
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), sanitizeLocalPart(rcpt.Email), p.cfg.Host)
}

func sanitizeLocalPart(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, local)
	if len(local) > 10 {
		local = local[:10]
	}
	if local == "" {
		return "user"
	}
	return local
}

func isProtocolError(err error) bool {
	_, ok := err.(*textproto.Error)
	return ok
}

// classifyProtocolErr maps SMTP reply codes on the envelope stages: 5xx is
// a permanent refusal, everything else is transient.
func classifyProtocolErr(stage string, err error) Outcome {
	if tpErr, ok := err.(*textproto.Error); ok {
		if tpErr.Code >= 500 {
			return rejected(fmt.Sprintf("%s refused: %v", stage, err))
		}
		return unavailable(fmt.Sprintf("%s deferred: %v", stage, err))
	}
	return unavailable(fmt.Sprintf("%s failed: %v", stage, err))
}
