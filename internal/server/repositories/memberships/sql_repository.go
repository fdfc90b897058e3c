package memberships

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
)

var errNoKey = errors.New("no generated key")

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Add(ctx context.Context, userID, boardID int64) (int64, error) {
	query :=
		`INSERT INTO userboards (uid, bid)
		 VALUES ($1, $2)
		 RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, boardID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.NewPersistenceError("add membership", errNoKey)
		}
		return 0, common.NewPersistenceError("add membership", err)
	}
	return id, nil
}

func (r *SQLRepository) Exists(ctx context.Context, userID, boardID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM userboards WHERE uid = $1 AND bid = $2)`,
		userID, boardID).Scan(&ok)
	if err != nil {
		return false, common.NewPersistenceError("check membership", err)
	}
	return ok, nil
}

func (r *SQLRepository) TokenExists(ctx context.Context, token string, boardID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM userboards ub
		   JOIN users u ON u.id = ub.uid
		   WHERE u.token = $1 AND ub.bid = $2
		 )`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, token, boardID).Scan(&ok); err != nil {
		return false, common.NewPersistenceError("check token membership", err)
	}
	return ok, nil
}
