package database

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/config"
)

func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     "/" + cfg.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// NewPostgresDB connects with retries so the desk can start alongside its
// database container.
func NewPostgresDB(cfg config.DatabaseConfig, log logrus.FieldLogger) (*sql.DB, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Infof("Connecting to database (Attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", DSN(cfg))
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Info("Database connected successfully!")
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			return db, nil
		}

		if db != nil {
			db.Close()
		}

		if i < maxRetries {
			log.Warnf("Database not ready yet. Waiting %s...", cfg.RetryDelay)
			time.Sleep(cfg.RetryDelay)
		}
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
