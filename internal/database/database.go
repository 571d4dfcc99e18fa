// Package database opens the relational store and prepares its schema.
package database

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"usergroups/internal/config"
	"usergroups/internal/identifier"
	"usergroups/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a gorm connection for driver ("postgres" or "sqlite").
// GORM's own messages are routed through log at warn level.
func Connect(driver, dsn string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(stdlog.New(log, "", 0), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == config.DriverSQLite && strings.Contains(dsn, ":memory:") {
		// Every pooled connection to :memory: would get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the users, groups and userGroups tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Group{}, &models.UserGroup{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedAdmin inserts user when the users table is empty and reports whether it did.
// password must already be in its stored form.
func SeedAdmin(ctx context.Context, db *gorm.DB, login, password string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := models.User{
		ID:       identifier.New(),
		Login:    login,
		Password: password,
		Age:      30,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to seed admin user: %w", err)
	}
	return true, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
