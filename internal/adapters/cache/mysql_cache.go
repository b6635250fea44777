package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/sms-guard/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the ClassificationCache interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist. text_key is a hex SHA-256 digest of
	// the normalized message text, so a fixed-width column is enough.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS classification_cache (
			text_key CHAR(64) PRIMARY KEY,
			category VARCHAR(64),
			confidence DOUBLE,
			last_seen TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// newMySQLCacheWithDB wires a cache around an existing connection, used in tests
func newMySQLCacheWithDB(db *sql.DB, logger *zap.Logger, cleanupFreq time.Duration) *MySQLCache {
	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}
	go cache.startCleanupTask()
	return cache
}

// Get retrieves a cached classification for a text key
func (c *MySQLCache) Get(key string) (*core.Classification, bool) {
	var category string
	var confidence float64
	var lastSeen time.Time

	err := c.db.QueryRow(`
		SELECT category, confidence, last_seen
		FROM classification_cache
		WHERE text_key = ? AND expires_at > NOW()
	`, key).Scan(&category, &confidence, &lastSeen)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false
		}
		c.logger.Error("Failed to query cache", zap.Error(err), zap.String("key", key))
		return nil, false
	}

	result := &core.Classification{
		Category:     category,
		Confidence:   confidence,
		ModelUsed:    "cache",
		ClassifiedAt: lastSeen,
	}

	return result, true
}

// Set stores a classification under a text key
func (c *MySQLCache) Set(key string, result *core.Classification, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	_, err := c.db.Exec(`
		REPLACE INTO classification_cache (text_key, category, confidence, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, result.Category, result.Confidence, result.ClassifiedAt, expiresAt)

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("key", key))
	}
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM classification_cache
		WHERE text_key = ?
	`, key)

	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM classification_cache
		WHERE expires_at <= NOW()
	`)

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
