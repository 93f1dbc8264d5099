// Package database opens the task store and keeps its schema and pool metrics current
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Aidin1998/taskapi/internal/config"
	"github.com/Aidin1998/taskapi/pkg/metrics"
	"github.com/Aidin1998/taskapi/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Now is the default clock: UTC truncated to the microsecond precision the API exposes
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Option customises the gorm configuration used by Open
type Option func(*gorm.Config)

// WithNowFunc overrides the clock gorm uses for created_at/updated_at
func WithNowFunc(now func() time.Time) Option {
	return func(c *gorm.Config) {
		c.NowFunc = now
	}
}

// Open connects to the configured driver
func Open(cfg config.DatabaseConfig, logger *zap.Logger, opts ...Option) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:  NewGormLogger(logger, 200*time.Millisecond),
		NowFunc: Now,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	switch cfg.Driver {
	case "postgres":
		return NewPostgresDB(cfg.DSN, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime, gormCfg)
	case "sqlite":
		return NewSQLiteDB(cfg.DSN, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Migrate creates or updates the tasks table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CollectPoolMetrics samples the connection pool into Prometheus gauges until ctx is done
func CollectPoolMetrics(ctx context.Context, db *gorm.DB, name string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		RecordPoolStats(db, name)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RecordPoolStats copies the current pool stats into the gauges
func RecordPoolStats(db *gorm.DB, name string) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	metrics.DBOpenConns.WithLabelValues(name).Set(float64(stats.OpenConnections))
	metrics.DBIdleConns.WithLabelValues(name).Set(float64(stats.Idle))
	metrics.DBInUseConns.WithLabelValues(name).Set(float64(stats.InUse))
}
