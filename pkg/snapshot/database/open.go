package database

import (
	"context"
	"database/sql"
	"time"
)

type connConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
	pingTimeout     time.Duration
	retryAttempts   int
	retryDelay      time.Duration
}

type ConnOption func(*connConfig)

func WithConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) ConnOption {
	return func(c *connConfig) {
		c.maxOpenConns = maxOpen
		c.maxIdleConns = maxIdle
		c.connMaxLifetime = maxLifetime
	}
}

func WithConnectionIdleTime(idleTime time.Duration) ConnOption {
	return func(c *connConfig) {
		c.connMaxIdleTime = idleTime
	}
}

func WithPingTimeout(timeout time.Duration) ConnOption {
	return func(c *connConfig) {
		c.pingTimeout = timeout
	}
}

func WithRetry(attempts int, delay time.Duration) ConnOption {
	return func(c *connConfig) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// Open connects to driver (mysql, postgres or sqlite3, aliases accepted) and
// pings it, retrying on failure.
func Open(driver, dsn string, opts ...ConnOption) (*sql.DB, error) {
	name, err := normalizeDriver(driver)
	if err != nil {
		return nil, err
	}

	c := connConfig{
		maxOpenConns:    25,
		maxIdleConns:    5,
		connMaxLifetime: time.Hour,
		connMaxIdleTime: 5 * time.Minute,
		pingTimeout:     5 * time.Second,
		retryAttempts:   3,
		retryDelay:      time.Second,
	}
	for _, opt := range opts {
		opt(&c)
	}

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		var db *sql.DB
		db, err = sql.Open(name, dsn)
		if err == nil {
			db.SetMaxOpenConns(c.maxOpenConns)
			db.SetMaxIdleConns(c.maxIdleConns)
			db.SetConnMaxLifetime(c.connMaxLifetime)
			db.SetConnMaxIdleTime(c.connMaxIdleTime)

			ctx, cancel := context.WithTimeout(context.Background(), c.pingTimeout)
			err = db.PingContext(ctx)
			cancel()

			if err == nil {
				return db, nil
			}
			_ = db.Close()
		}

		if attempt < c.retryAttempts {
			time.Sleep(c.retryDelay)
		}
	}

	return nil, ErrOpenFailed.WithDetail("driver", name).WithCause(err)
}
