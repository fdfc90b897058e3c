package lists

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, boardID int64, name string) (int64, error) {
	query :=
		`INSERT INTO tasklists (bid, name)
		 VALUES ($1, $2)
		 RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, boardID, name).Scan(&id); err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, common.ErrListNameAlreadyExistsInBoard
		}
		return 0, common.NewPersistenceError("create list", err)
	}
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.SimpleList, error) {
	l := &models.SimpleList{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, bid, name FROM tasklists WHERE id = $1`, id).
		Scan(&l.ID, &l.BoardID, &l.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrListNotFound
		}
		return nil, common.NewPersistenceError("get list", err)
	}
	return l, nil
}

func (r *SQLRepository) ListByBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.SimpleList, error) {
	query :=
		`SELECT id, bid, name FROM tasklists
		 WHERE bid = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, boardID, dbx.Limit(limit), skip)
	if err != nil {
		return nil, common.NewPersistenceError("list board lists", err)
	}
	defer rows.Close()

	out := []models.SimpleList{}
	for rows.Next() {
		var l models.SimpleList
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name); err != nil {
			return nil, common.NewPersistenceError("list board lists", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list board lists", err)
	}
	return out, nil
}

func (r *SQLRepository) IDsByBoard(ctx context.Context, boardID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM tasklists WHERE bid = $1 ORDER BY id`, boardID)
	if err != nil {
		return nil, common.NewPersistenceError("list ids", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewPersistenceError("list ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list ids", err)
	}
	return ids, nil
}

func (r *SQLRepository) NameExists(ctx context.Context, boardID int64, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasklists WHERE bid = $1 AND name = $2)`,
		boardID, name).Scan(&ok)
	if err != nil {
		return false, common.NewPersistenceError("check list name", err)
	}
	return ok, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasklists WHERE id = $1`, id)
	if err != nil {
		return common.NewPersistenceError("delete list", err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrListNotFound
		}
		return common.NewPersistenceError("delete list", err)
	}
	return nil
}
