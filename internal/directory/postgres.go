// Package directory provides the read-only staff directory used by
// recipient resolution.
package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"business-notifier/internal/common/config"
	"business-notifier/internal/common/logger"
	"business-notifier/internal/models"

	_ "github.com/lib/pq"
)

// PostgresDirectory implements recipients.Directory on top of the accounts
// table.
type PostgresDirectory struct {
	db          *sql.DB
	staffPrefix string
	logger      logger.Logger
}

// NewPostgres opens the connection pool and returns the directory.
func NewPostgres(cfg config.PostgresConfig, staffPrefix string, log logger.Logger) (*PostgresDirectory, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewWithDB(db, staffPrefix, log), nil
}

// NewWithDB wraps an existing handle; tests inject sqlmock here.
func NewWithDB(db *sql.DB, staffPrefix string, log logger.Logger) *PostgresDirectory {
	return &PostgresDirectory{
		db:          db,
		staffPrefix: staffPrefix,
		logger:      log,
	}
}

// StaffAccounts returns every account whose address carries the
// organizational marker prefix.
func (d *PostgresDirectory) StaffAccounts(ctx context.Context) ([]models.StaffAccount, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, email FROM accounts WHERE email LIKE $1 ORDER BY email`,
		d.staffPrefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query staff accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.StaffAccount
	for rows.Next() {
		var acct models.StaffAccount
		var name sql.NullString
		if err := rows.Scan(&acct.ID, &name, &acct.Email); err != nil {
			return nil, fmt.Errorf("scan staff account: %w", err)
		}
		acct.Name = name.String
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff accounts: %w", err)
	}

	return accounts, nil
}

// LookupByID resolves one account. A miss returns (nil, nil): the caller
// degrades instead of failing.
func (d *PostgresDirectory) LookupByID(ctx context.Context, id string) (*models.StaffAccount, error) {
	var acct models.StaffAccount
	var name sql.NullString

	err := d.db.QueryRowContext(ctx,
		`SELECT id, name, email FROM accounts WHERE id = $1`,
		id,
	).Scan(&acct.ID, &name, &acct.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account %s: %w", id, err)
	}

	acct.Name = name.String
	return &acct, nil
}

// Ping tests the database connection.
func (d *PostgresDirectory) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the connection pool.
func (d *PostgresDirectory) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
