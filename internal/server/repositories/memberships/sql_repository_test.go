package memberships

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db), mock
}

const addQ = `(?s)^INSERT\s+INTO\s+userboards\s*\(uid,\s*bid\)\s*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+id$`

func TestAdd(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(addQ).WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := repo.Add(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestAdd_NoKey(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(addQ).WillReturnError(sql.ErrNoRows)

	_, err := repo.Add(context.Background(), 1, 2)
	assert.ErrorIs(t, err, common.ErrPersistence)
	assert.EqualError(t, err, "db error: add membership: no generated key")
}

func TestExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)FROM\s+userboards\s+WHERE\s+uid\s*=\s*\$1\s+AND\s+bid\s*=\s*\$2`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenExists(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)JOIN\s+users\s+u\s+ON\s+u\.id\s*=\s*ub\.uid\s+WHERE\s+u\.token\s*=\s*\$1\s+AND\s+ub\.bid\s*=\s*\$2`

	mock.ExpectQuery(q).WithArgs("tok", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"e"}).AddRow(false))
	ok, err := repo.TokenExists(context.Background(), "tok", 2)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectQuery(q).WillReturnError(errors.New("down"))
	_, err = repo.TokenExists(context.Background(), "tok", 2)
	assert.ErrorIs(t, err, common.ErrPersistence)
}
