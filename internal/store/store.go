package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fanlar-test/backend/internal/domain/stats"
)

var ErrUnknownDriver = errors.New("unknown statistics driver")

// StatsStore is a stats.Store that owns resources.
type StatsStore interface {
	stats.Store
	Close() error
}

// Open returns the statistics backend selected by driver: "json" uses the
// file at path, "sqlite" and "postgres" use dsn.
func Open(ctx context.Context, driver, path, dsn string) (StatsStore, error) {
	switch Driver(driver) {
	case DriverJSON, "":
		return NewJSONFile(path), nil
	case DriverSQLite:
		if dsn == "" {
			dsn = path
		}
		return OpenSQL(ctx, DriverSQLite, dsn)
	case DriverPostgres:
		return OpenSQL(ctx, DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
