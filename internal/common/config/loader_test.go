package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalYAML = `
app:
  name: business-notifier
notifications:
  from_email: noreply@biztrack.example.com
database:
  postgres:
    host: localhost
    database: biztrack
    user: notifier
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "org.", cfg.Notifications.StaffPrefix)
	assert.Equal(t, "BizTrack", cfg.Notifications.BrandName)
	assert.Equal(t, "BizTrack", cfg.Notifications.FromName, "from name falls back to the brand")
	assert.Equal(t, 30, cfg.Providers.SendTimeout)
	assert.Equal(t, 3, cfg.Providers.MaxRetries)
	assert.Equal(t, 2, cfg.Providers.BackoffBase)
	assert.Equal(t, 587, cfg.Providers.SMTP.Port)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 64, cfg.Dispatch.QueueSize)
	assert.Equal(t, 30, cfg.Dispatch.DrainTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}

func TestLoadFromFile_ProviderSettings(t *testing.T) {
	yaml := minimalYAML + `
providers:
  send_timeout: 10
  max_retries: 5
  smtp:
    enabled: true
    priority: 2
    host: smtp.corp.example.com
    port: 465
    username: notify
    password: secret
    use_tls: true
  relay:
    enabled: true
    priority: 1
    host: relay.example.com
    username: relay-user
    password: relay-secret
  transactional:
    enabled: true
    priority: 3
    region: us-east-1
`
	cfg, err := LoadFromFile(writeConfigFile(t, yaml))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Providers.SendTimeout)
	assert.Equal(t, 5, cfg.Providers.MaxRetries)
	assert.True(t, cfg.Providers.SMTP.Enabled)
	assert.Equal(t, 465, cfg.Providers.SMTP.Port)
	assert.True(t, cfg.Providers.SMTP.Configured())
	assert.Equal(t, 587, cfg.Providers.Relay.Port, "relay port defaults independently")
	assert.True(t, cfg.Providers.Relay.Configured())
	assert.Equal(t, "us-east-1", cfg.Providers.Transactional.Region)
}

func TestLoadFromFile_ValidatesRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing sender address",
			yaml: `
database:
  postgres:
    host: localhost
    database: biztrack
    user: notifier
`,
			want: "notifications.from_email is required",
		},
		{
			name: "missing database host",
			yaml: `
notifications:
  from_email: noreply@biztrack.example.com
database:
  postgres:
    database: biztrack
    user: notifier
`,
			want: "database.postgres.host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.yaml))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestSMTPConfig_Configured(t *testing.T) {
	full := SMTPConfig{Host: "h", Port: 587, Username: "u", Password: "p"}
	assert.True(t, full.Configured())

	assert.False(t, SMTPConfig{Port: 587, Username: "u", Password: "p"}.Configured())
	assert.False(t, SMTPConfig{Host: "h", Username: "u", Password: "p"}.Configured())
	assert.False(t, SMTPConfig{Host: "h", Port: 587, Password: "p"}.Configured())
	assert.False(t, SMTPConfig{Host: "h", Port: 587, Username: "u"}.Configured())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 30*time.Second, GetDuration(30))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "biztrack",
		User:     "notifier",
		Password: "secret",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=notifier password=secret dbname=biztrack sslmode=disable",
		cfg.GetDSN(),
	)
}
