package gorm

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "query_monitor:start"

// QueryObserver receives the outcome of every statement.
type QueryObserver interface {
	ObserveQuery(operation string, duration time.Duration, err error)
}

// QueryMonitor times statements through gorm callbacks, reports them to an
// observer and logs the slow ones.
type QueryMonitor struct {
	observer      QueryObserver
	logger        *zap.Logger
	slowThreshold time.Duration
}

// NewQueryMonitor creates a new query monitor
func NewQueryMonitor(observer QueryObserver, logger *zap.Logger, slowThreshold time.Duration) *QueryMonitor {
	return &QueryMonitor{
		observer:      observer,
		logger:        logger.Named("query-monitor"),
		slowThreshold: slowThreshold,
	}
}

// Install registers the monitor on every gorm callback chain
func (qm *QueryMonitor) Install(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("monitor:before_query", qm.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("monitor:after_query", qm.after("query")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("monitor:before_create", qm.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("monitor:after_create", qm.after("create")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("monitor:before_update", qm.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("monitor:after_update", qm.after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("monitor:before_delete", qm.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("monitor:after_delete", qm.after("delete")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("monitor:before_row", qm.before); err != nil {
		return err
	}
	return cb.Row().After("gorm:row").Register("monitor:after_row", qm.after("row"))
}

func (qm *QueryMonitor) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (qm *QueryMonitor) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := v.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		err := db.Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = nil
		}

		if qm.observer != nil {
			qm.observer.ObserveQuery(operation, duration, err)
		}

		if qm.slowThreshold > 0 && duration > qm.slowThreshold {
			qm.logger.Warn("Slow query detected",
				zap.String("operation", operation),
				zap.String("table", db.Statement.Table),
				zap.Duration("duration", duration),
				zap.String("sql", truncateSQL(db.Statement.SQL.String())),
			)
		}
	}
}

func truncateSQL(sql string) string {
	sql = strings.TrimSpace(sql)
	if len(sql) > 500 {
		return sql[:500] + "..."
	}
	return sql
}
