package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
)

func driverName(d repomanager.Dialect) (string, error) {
	switch d {
	case repomanager.Postgres:
		return "pgx", nil
	case repomanager.SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", string(d))
	}
}

// Open connects to dsn, applies migrations (logging their progress to logger)
// and returns a ready Store along
// with the underlying pool, which the caller must close.
//
// SQLite is limited to a single connection so that ":memory:" databases are
// shared by every query and writers never contend for the file lock.
func Open(ctx context.Context, dialect repomanager.Dialect, dsn string, logger logging.Logger) (*Store, *sql.DB, error) {
	driver, err := driverName(dialect)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == repomanager.SQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect, logger)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return New(db, rm), db, nil
}
