package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Ping checks that the database is reachable, giving up after 5 seconds.
func (db *DB) Ping(ctx context.Context) error {
	if db.Conn == nil {
		return fmt.Errorf("database is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// HealthCheck pings the database and logs pool usage.
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.Ping(ctx); err != nil {
		return err
	}

	stats, err := db.Stats()
	if err != nil {
		return err
	}
	if stats.OpenConnections == 0 {
		return fmt.Errorf("no open database connections")
	}

	log.Debug().
		Int("open", stats.OpenConnections).
		Int("in_use", stats.InUse).
		Int("idle", stats.Idle).
		Msg("database health check passed")
	return nil
}

// Close closes the pool. Safe to call more than once.
func (db *DB) Close() error {
	if db.Conn == nil {
		return nil
	}

	err := db.Conn.Close()
	db.Conn = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Info().Msg("database connection closed")
	return nil
}

// PoolStats is a snapshot of connection pool statistics
type PoolStats struct {
	MaxOpenConnections int
	OpenConnections    int // in use + idle
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64 // closed due to MaxIdleConns
	MaxIdleTimeClosed  int64 // closed due to MaxConnIdleTime
	MaxLifetimeClosed  int64 // closed due to MaxConnLifetime
}

// AvgWait is the mean time spent waiting for a connection.
func (s *PoolStats) AvgWait() time.Duration {
	if s.WaitCount == 0 {
		return 0
	}
	return s.WaitDuration / time.Duration(s.WaitCount)
}

// Stats returns pool statistics.
func (db *DB) Stats() (*PoolStats, error) {
	if db.Conn == nil {
		return nil, fmt.Errorf("database is not initialized")
	}

	raw := db.Conn.Stats()
	return &PoolStats{
		MaxOpenConnections: raw.MaxOpenConnections,
		OpenConnections:    raw.OpenConnections,
		InUse:              raw.InUse,
		Idle:               raw.Idle,
		WaitCount:          raw.WaitCount,
		WaitDuration:       raw.WaitDuration,
		MaxIdleClosed:      raw.MaxIdleClosed,
		MaxIdleTimeClosed:  raw.MaxIdleTimeClosed,
		MaxLifetimeClosed:  raw.MaxLifetimeClosed,
	}, nil
}
