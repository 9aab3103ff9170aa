// test/e2e/e2e_test.go
package e2e

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"
	"business-notifier/internal/notify"
	"business-notifier/internal/notify/provider"
	"business-notifier/internal/notify/recipients"
)

// ==========================
// In-Process SMTP Server
// ==========================

type capturedMail struct {
	From string
	To   []string
	Data string
}

// smtpServer is a minimal ESMTP endpoint capturing everything it accepts.
// It advertises AUTH PLAIN without TLS, which net/smtp permits on
// localhost only.
type smtpServer struct {
	listener net.Listener

	mu    sync.Mutex
	mails []capturedMail
}

func startSMTPServer(t *testing.T) *smtpServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &smtpServer{listener: ln}
	go s.serve()
	t.Cleanup(func() { ln.Close() })
	return s
}

func (s *smtpServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *smtpServer) captured() []capturedMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]capturedMail, len(s.mails))
	copy(out, s.mails)
	return out
}

func (s *smtpServer) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *smtpServer) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(10 * time.Second))

	r := bufio.NewReader(conn)
	write := func(line string) {
		fmt.Fprintf(conn, "%s\r\n", line)
	}

	write("220 127.0.0.1 ESMTP test")

	var mail capturedMail
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))

		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			write("250-127.0.0.1")
			write("250-AUTH PLAIN LOGIN")
			write("250 8BITMIME")
		case strings.HasPrefix(cmd, "AUTH"):
			write("235 2.7.0 Authentication successful")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			mail = capturedMail{From: strings.TrimSpace(line)}
			write("250 2.1.0 Ok")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			mail.To = append(mail.To, strings.TrimSpace(line))
			write("250 2.1.5 Ok")
		case cmd == "DATA":
			write("354 End data with <CR><LF>.<CR><LF>")
			var body strings.Builder
			for {
				dataLine, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dataLine, "\r\n") == "." {
					break
				}
				body.WriteString(dataLine)
			}
			mail.Data = body.String()
			s.mu.Lock()
			s.mails = append(s.mails, mail)
			s.mu.Unlock()
			write("250 2.0.0 Ok: queued")
		case cmd == "QUIT":
			write("221 2.0.0 Bye")
			return
		case cmd == "RSET":
			mail = capturedMail{}
			write("250 2.0.0 Ok")
		default:
			write("250 2.0.0 Ok")
		}
	}
}

// ==========================
// Fixture
// ==========================

type staticDirectory struct {
	accounts []models.StaffAccount
}

func (d *staticDirectory) StaffAccounts(ctx context.Context) ([]models.StaffAccount, error) {
	return d.accounts, nil
}

func (d *staticDirectory) LookupByID(ctx context.Context, id string) (*models.StaffAccount, error) {
	for i := range d.accounts {
		if d.accounts[i].ID == id {
			return &d.accounts[i], nil
		}
	}
	return nil, nil
}

func e2eConfig(smtpPort int) *config.Config {
	cfg := &config.Config{}
	cfg.Notifications.StaffPrefix = "org."
	cfg.Notifications.BrandName = "BizTrack"
	cfg.Notifications.FromName = "BizTrack Notifications"
	cfg.Notifications.FromEmail = "noreply@biztrack.example.com"
	cfg.Providers.SendTimeout = 10
	cfg.Providers.ConnectTimeout = 5
	cfg.Providers.MaxRetries = 2
	cfg.Providers.BackoffBase = 0
	cfg.Providers.SMTP = config.SMTPConfig{
		Enabled:  true,
		Priority: 1,
		Host:     "127.0.0.1",
		Port:     smtpPort,
		Username: "notify",
		Password: "secret",
		UseTLS:   false,
	}
	return cfg
}

func startNotifier(t *testing.T, cfg *config.Config, dir recipients.Directory) *notify.Notifier {
	t.Helper()
	log := logger.NewTestLogger(t)

	providers := provider.Build(cfg.Providers, cfg.Notifications, nil, log)
	require.NotEmpty(t, providers)

	engine := notify.NewEngine(cfg, dir, providers, nil, log)
	notifier := notify.NewNotifier(engine, 2, 16)
	notifier.Start()
	t.Cleanup(func() { notifier.Stop(5 * time.Second) })
	return notifier
}

// ==========================
// End-to-End Tests
// ==========================

func TestE2E_UpdateEventDeliversToStaffAndClient(t *testing.T) {
	server := startSMTPServer(t)
	dir := &staticDirectory{
		accounts: []models.StaffAccount{
			{ID: "1", Name: "Alice", Email: "org.alice@corp.example.com"},
			{ID: "2", Name: "Bob", Email: "org.bob@corp.example.com"},
		},
	}
	notifier := startNotifier(t, e2eConfig(server.port()), dir)

	notifier.Notify(&models.NotificationEvent{
		ActorName: "Alice",
		Record: models.ClientRecord{
			LegalName:     "Acme Pvt Ltd",
			UserEmail:     "owner@acme.example.com",
			CompanyEmail:  "office@acme.example.com",
			AssignedStaff: []string{"Alice"},
		},
	})

	require.Eventually(t, func() bool {
		return len(server.captured()) == 3
	}, 10*time.Second, 50*time.Millisecond, "one message per staff and client recipient")

	var delivered []string
	for _, mail := range server.captured() {
		require.Len(t, mail.To, 1, "every SMTP message addresses exactly one recipient")
		delivered = append(delivered, mail.To[0])
		assert.Contains(t, mail.From, "noreply@biztrack.example.com")
		assert.Contains(t, mail.Data, "multipart/alternative")
	}

	joined := strings.Join(delivered, " ")
	assert.Contains(t, joined, "org.alice@corp.example.com")
	assert.Contains(t, joined, "owner@acme.example.com")
	assert.Contains(t, joined, "office@acme.example.com")
	assert.NotContains(t, joined, "org.bob@corp.example.com", "unassigned staff must not be notified")
}

func TestE2E_LoanStatusEventUsesClientLoanTemplate(t *testing.T) {
	server := startSMTPServer(t)
	notifier := startNotifier(t, e2eConfig(server.port()), &staticDirectory{})

	notifier.Notify(&models.NotificationEvent{
		ActorName: "Alice",
		Record: models.ClientRecord{
			LegalName: "Acme Pvt Ltd",
			UserEmail: "owner@acme.example.com",
		},
		UpdateKind: models.UpdateKindLoanStatus,
		LoanStatus: models.LoanStatusApproved,
	})

	require.Eventually(t, func() bool {
		return len(server.captured()) == 1
	}, 10*time.Second, 50*time.Millisecond)

	mail := server.captured()[0]
	assert.Contains(t, mail.Data, "Your Loan Status Update - BizTrack")
	assert.Contains(t, mail.Data, "APPROVED")
}

func TestE2E_UnreachableProviderFailsWithoutBlockingCaller(t *testing.T) {
	cfg := e2eConfig(1) // nothing listens on port 1
	cfg.Providers.ConnectTimeout = 1
	cfg.Providers.MaxRetries = 1
	notifier := startNotifier(t, cfg, &staticDirectory{})

	started := time.Now()
	notifier.Notify(&models.NotificationEvent{
		ActorName: "Alice",
		Record: models.ClientRecord{
			LegalName: "Acme Pvt Ltd",
			UserEmail: "owner@acme.example.com",
		},
	})
	elapsed := time.Since(started)

	assert.Less(t, elapsed, 500*time.Millisecond, "Notify must return before delivery finishes or fails")
}
