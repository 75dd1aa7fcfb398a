package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrUnsupportedDriver indicates a storage driver outside sqlite3/postgres.
var ErrUnsupportedDriver = errors.New("storage: unsupported driver")

// ErrDSNRequired indicates a missing connection string.
var ErrDSNRequired = errors.New("storage: dsn is required")

// OpenDatabase opens a bun DB for the configured driver. SQLite is the
// default for single-binary corpus checkouts; postgres serves shared
// deployments.
func OpenDatabase(driver, dsn string) (*bun.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	switch driver {
	case "sqlite3", "sqlite":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		if isMemoryDSN(dsn) {
			// Shared-cache memory databases lose tables once the last
			// connection closes; pin a single connection.
			db.SetMaxOpenConns(1)
		}
		return db, nil
	case "postgres", "postgresql", "pg":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
