// Package database opens the gorm connection for the configured driver.
package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

// Connect opens the database and configures the connection pool.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Silent
	}

	db, err := open(dialector, level)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// SQLite serialises writers; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

// OpenMemory opens a private in-memory SQLite database. Tests use it.
func OpenMemory() (*gorm.DB, error) {
	db, err := open(sqlite.Open("file::memory:?_foreign_keys=on"), gormlogger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	// Every connection to :memory: is a new empty database.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	if err := registerMetrics(db); err != nil {
		return nil, fmt.Errorf("database: register callbacks: %w", err)
	}
	return db, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

const startedKey = "kasir:started_at"

// registerMetrics times every statement into the db query histogram.
func registerMetrics(db *gorm.DB) error {
	start := func(tx *gorm.DB) { tx.InstanceSet(startedKey, time.Now()) }
	finish := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startedKey); ok {
				if t, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, t)
				}
			}
		}
	}

	cb := db.Callback()
	errs := []error{
		cb.Create().Before("gorm:create").Register("kasir:metrics_start", start),
		cb.Create().After("gorm:create").Register("kasir:metrics_end", finish("insert")),
		cb.Query().Before("gorm:query").Register("kasir:metrics_start", start),
		cb.Query().After("gorm:query").Register("kasir:metrics_end", finish("select")),
		cb.Update().Before("gorm:update").Register("kasir:metrics_start", start),
		cb.Update().After("gorm:update").Register("kasir:metrics_end", finish("update")),
		cb.Delete().Before("gorm:delete").Register("kasir:metrics_start", start),
		cb.Delete().After("gorm:delete").Register("kasir:metrics_end", finish("delete")),
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
