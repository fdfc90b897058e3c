package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
	"github.com/dmitrijs2005/taskboard/internal/server/storage/storagetest"
)

func openSQLite(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	s, db, err := Open(context.Background(), repomanager.SQLite, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s, db
}

func TestStore_Contract_SQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.AppDatabase {
		s, _ := openSQLite(t)
		return s
	})
}

func TestStore_DanglingBoardMembership(t *testing.T) {
	s, db := openSQLite(t)
	ctx := context.Background()

	uid, err := s.CreateUser(ctx, "t", "n", "e@x.io", "p")
	require.NoError(t, err)
	_, err = s.CreateBoard(ctx, uid, "keep", "")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO userboards (uid, bid) VALUES ($1, 999)`, uid)
	require.NoError(t, err)

	_, err = s.GetBoardsFromUser(ctx, uid, 0, 10)
	assert.ErrorIs(t, err, common.ErrBoardsUserDoesNotExist)

	_, err = s.SearchBoardsFromUser(ctx, uid, 0, 10, "zzz")
	assert.ErrorIs(t, err, common.ErrBoardsUserDoesNotExist)

	boards, err := s.GetBoardsFromUser(ctx, uid, 0, 1)
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestStore_DanglingUserMembership(t *testing.T) {
	s, db := openSQLite(t)
	ctx := context.Background()

	uid, err := s.CreateUser(ctx, "t", "n", "e@x.io", "p")
	require.NoError(t, err)
	bid, err := s.CreateBoard(ctx, uid, "b", "")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO userboards (uid, bid) VALUES (777, $1)`, bid)
	require.NoError(t, err)

	_, err = s.GetUsersFromBoard(ctx, bid, 0, 10)
	assert.ErrorIs(t, err, common.ErrUsersBoardDoesNotExist)
}

func TestStore_CreateBoardRollsBackWhenMembershipFails(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, err := repomanager.NewSQLRepositoryManager(repomanager.Postgres, nil)
	require.NoError(t, err)
	s := New(db, rm)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "token", "password"}).AddRow(1, "a", "a@x.io", "t", "p"))
	mock.ExpectQuery(`FROM\s+boards\s+WHERE\s+name`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectQuery(`INSERT\s+INTO\s+boards`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT\s+INTO\s+userboards`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = s.CreateBoard(context.Background(), 1, "B", "")
	assert.ErrorIs(t, err, common.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CommitFailureIsPersistenceError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, _ := repomanager.NewSQLRepositoryManager(repomanager.Postgres, nil)
	s := New(db, rm)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+email`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	_, err = s.CreateUser(context.Background(), "t", "n", "e@x.io", "p")
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BeginFailureIsPersistenceError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rm, _ := repomanager.NewSQLRepositoryManager(repomanager.Postgres, nil)
	s := New(db, rm)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err = s.DeleteList(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrPersistence)
}

func TestStore_MoveCardZeroRowsIsPersistenceError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	rm, _ := repomanager.NewSQLRepositoryManager(repomanager.Postgres, nil)
	s := New(db, rm)

	cardCols := []string{"id", "bid", "lid", "name", "description", "initdate", "duedate"}
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+cards\s+WHERE\s+id`).
		WillReturnRows(sqlmock.NewRows(cardCols).AddRow(1, 1, 1, "c", "", day(), day()))
	mock.ExpectQuery(`FROM\s+tasklists\s+WHERE\s+id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "bid", "name"}).AddRow(2, 1, "L2"))
	mock.ExpectQuery(`FROM\s+cards\s+WHERE\s+lid`).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	mock.ExpectExec(`UPDATE\s+cards`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = s.MoveCard(context.Background(), 1, 2, 0)
	assert.ErrorIs(t, err, common.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, _, err := Open(context.Background(), "oracle", "", nil)
	assert.Error(t, err)
}
