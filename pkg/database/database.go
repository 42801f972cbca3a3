package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"apply4me/internal/config"
	"apply4me/internal/domain/submission"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
	pingTimeout     = 5 * time.Second
)

// Connect opens the relational store described by the configuration:
// PostgreSQL for a postgres URL/DSN, SQLite otherwise.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Database.IsPostgres() {
		dialector = postgres.Open(cfg.Database.URL)
	} else {
		path := cfg.Database.SQLitePath()
		sqlDB, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: path, Conn: sqlDB}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Database.IsPostgres() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get generic database object: %w", err)
		}
		sqlDB.SetMaxOpenConns(maxOpenConns)
		sqlDB.SetMaxIdleConns(maxIdleConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}

	return db, nil
}

// Migrate applies the schema for all persisted models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&submission.Submission{})
}

// HealthCheck pings the underlying connection, bounded by a short timeout.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
