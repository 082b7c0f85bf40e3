// Package gormstore implements the persistence ports on a relational store
// through GORM. SQLite backs development and tests, Postgres production; the
// repositories never leak gorm types past the package boundary.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pkgerrors "imagenet-browser/pkg/errors"
)

// Open connects to the configured database and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite ships with foreign keys off; the schema relies on them.
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(&synsetRow{}, &wordRow{}, &imageRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

// wrapErr translates gorm and context failures into the application error
// taxonomy so callers upstream never inspect driver errors.
func wrapErr(operation, resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.NewNotFoundError(resource)
	case errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.NewTimeoutError(operation)
	case errors.Is(err, context.Canceled):
		return pkgerrors.NewTimeoutError(operation)
	default:
		return pkgerrors.NewDatabaseError(operation, err)
	}
}
