package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Providers     ProvidersConfig    `mapstructure:"providers"`
	Dispatch      DispatchConfig     `mapstructure:"dispatch"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the health/metrics/ingest HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// NotificationConfig holds settings shared by every outbound message.
type NotificationConfig struct {
	// Local-part prefix marking internal staff addresses, e.g. "org.".
	StaffPrefix string `mapstructure:"staff_prefix"`
	BrandName   string `mapstructure:"brand_name"`
	FromName    string `mapstructure:"from_name"`
	FromEmail   string `mapstructure:"from_email"`
}

// ProvidersConfig holds the delivery transport settings. Priority orders the
// cascade; lower values are attempted first.
type ProvidersConfig struct {
	SendTimeout    int `mapstructure:"send_timeout"`    // seconds, per guarded attempt
	MaxRetries     int `mapstructure:"max_retries"`     // per provider
	BackoffBase    int `mapstructure:"backoff_base"`    // seconds, doubled each attempt
	ConnectTimeout int `mapstructure:"connect_timeout"` // seconds, dial only

	SMTP          SMTPConfig          `mapstructure:"smtp"`
	Relay         SMTPConfig          `mapstructure:"relay"`
	Transactional TransactionalConfig `mapstructure:"transactional"`
}

// SMTPConfig configures one SMTP endpoint (direct or trusted relay).
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Priority int    `mapstructure:"priority"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// Configured reports whether the endpoint has everything needed to attempt
// a send.
func (s SMTPConfig) Configured() bool {
	return s.Host != "" && s.Port != 0 && s.Username != "" && s.Password != ""
}

// TransactionalConfig configures the transactional email API provider.
type TransactionalConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Priority int    `mapstructure:"priority"`
	Region   string `mapstructure:"region"`
}

// DispatchConfig sizes the background delivery pool.
type DispatchConfig struct {
	Workers      int `mapstructure:"workers"`
	QueueSize    int `mapstructure:"queue_size"`
	DrainTimeout int `mapstructure:"drain_timeout"` // seconds, on shutdown
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
