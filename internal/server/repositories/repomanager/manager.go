// Package repomanager vends SQL repositories bound to a DB or Tx handle and
// applies the embedded goose migrations for the configured dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/boards"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/cards"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/lists"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/memberships"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Boards(db dbx.DBTX) boards.Repository
	Memberships(db dbx.DBTX) memberships.Repository
	Lists(db dbx.DBTX) lists.Repository
	Cards(db dbx.DBTX) cards.Repository
}
