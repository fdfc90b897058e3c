package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/migrations"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/boards"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/cards"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/lists"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

// Dialect selects the migration set and the goose dialect.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func (d Dialect) gooseDialect() (string, error) {
	switch d {
	case Postgres:
		return "postgres", nil
	case SQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", string(d))
	}
}

// SQLRepositoryManager vends the SQL repositories. The queries are shared by
// both dialects, so only migrations depend on Dialect.
type SQLRepositoryManager struct {
	dialect Dialect
	logger  logging.Logger
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Boards(db dbx.DBTX) boards.Repository {
	return boards.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Memberships(db dbx.DBTX) memberships.Repository {
	return memberships.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Lists(db dbx.DBTX) lists.Repository {
	return lists.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Cards(db dbx.DBTX) cards.Repository {
	return cards.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// gooseLogger routes goose progress lines into the service logger instead of
// the standard library log package.
type gooseLogger struct {
	ctx context.Context
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf does not exit; UpContext reports its failures as errors.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations applies the embedded migrations for the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dialect, err := m.dialect.gooseDialect()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{ctx: ctx, log: m.logger})
	defer goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, string(m.dialect)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// NewSQLRepositoryManager returns a manager for dialect. Migration progress
// goes to logger; nil discards it.
func NewSQLRepositoryManager(dialect Dialect, logger logging.Logger) (RepositoryManager, error) {
	if _, err := dialect.gooseDialect(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &SQLRepositoryManager{dialect: dialect, logger: logger.With("module", "migrations")}, nil
}
