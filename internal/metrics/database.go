package metrics

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	startKey         = "metrics:start"
	slowQueryWarning = 100 * time.Millisecond
)

// DatabaseCollector publishes connection pool stats and times every gorm
// statement through callbacks.
type DatabaseCollector struct {
	metrics  *Metrics
	logger   *zap.Logger
	sqlDB    *sql.DB
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewDatabaseCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) (*DatabaseCollector, error) {
	sqlDB, err := db.DB()
	if err != nil {
		metrics.RecordDBConnectionError()
		return nil, err
	}

	dc := &DatabaseCollector{
		metrics: metrics,
		logger:  logger,
		sqlDB:   sqlDB,
		stopCh:  make(chan struct{}),
	}

	if err := dc.registerCallbacks(db); err != nil {
		return nil, err
	}

	return dc, nil
}

func (dc *DatabaseCollector) Start(interval time.Duration) {
	go runEvery(interval, dc.stopCh, dc.collect)
	dc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dc *DatabaseCollector) Stop() {
	dc.stopOnce.Do(func() { close(dc.stopCh) })
	dc.logger.Info("Database metrics collector stopped")
}

func (dc *DatabaseCollector) collect() {
	stats := dc.sqlDB.Stats()

	dc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	dc.logger.Debug("Database connection stats",
		zap.Int("open_connections", stats.OpenConnections),
		zap.Int("in_use", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("wait_count", stats.WaitCount),
		zap.Duration("wait_duration", stats.WaitDuration),
	)
}

// HealthCheck pings the database and records the ping as a query.
func (dc *DatabaseCollector) HealthCheck() error {
	start := time.Now()
	err := dc.sqlDB.Ping()
	dc.metrics.RecordDBQuery("ping", "health_check", queryStatus(err), time.Since(start))
	if err != nil {
		dc.metrics.RecordDBConnectionError()
	}
	return err
}

func (dc *DatabaseCollector) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		operation string
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		if err := h.before("metrics:before_"+h.operation, markStart); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+h.operation, dc.observe(h.operation)); err != nil {
			return err
		}
	}

	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func (dc *DatabaseCollector) observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		status := queryStatus(db.Error)
		table := db.Statement.Table

		dc.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQueryWarning {
			dc.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.String("status", status),
				zap.Duration("duration", duration),
			)
		}
	}
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	default:
		return "error"
	}
}
