package cards

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

const cardColumns = `id, bid, lid, name, description, initdate, duedate`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (models.Card, error) {
	var (
		c             models.Card
		initDate, due time.Time
	)
	if err := s.Scan(&c.ID, &c.BoardID, &c.ListID, &c.Name, &c.Description, &initDate, &due); err != nil {
		return models.Card{}, err
	}
	c.InitDate = models.Date(initDate)
	c.DueDate = models.Date(due)
	return c, nil
}

func (r *SQLRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query :=
		`INSERT INTO cards (bid, lid, name, description, initdate, duedate)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	card.InitDate = models.Date(card.InitDate)
	card.DueDate = models.Date(card.DueDate)

	err := r.db.QueryRowContext(ctx, query,
		card.BoardID, card.ListID, card.Name, card.Description, card.InitDate, card.DueDate).Scan(&card.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrCardNameAlreadyExists
		}
		return nil, common.NewPersistenceError("create card", err)
	}
	return card, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id)

	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCardNotFound
		}
		return nil, common.NewPersistenceError("get card", err)
	}
	return &c, nil
}

func (r *SQLRepository) ListByList(ctx context.Context, listID, boardID int64, skip, limit int) ([]models.Card, error) {
	query :=
		`SELECT ` + cardColumns + ` FROM cards
		 WHERE lid = $1 AND bid = $2
		 ORDER BY id
		 LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, listID, boardID, dbx.Limit(limit), skip)
	if err != nil {
		return nil, common.NewPersistenceError("list cards", err)
	}
	defer rows.Close()

	out := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, common.NewPersistenceError("list cards", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list cards", err)
	}
	return out, nil
}

func (r *SQLRepository) IDsByList(ctx context.Context, listID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM cards WHERE lid = $1 ORDER BY id`, listID)
	if err != nil {
		return nil, common.NewPersistenceError("card ids", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewPersistenceError("card ids", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("card ids", err)
	}
	return ids, nil
}

func (r *SQLRepository) NameExists(ctx context.Context, listID int64, name string, exceptID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE lid = $1 AND name = $2 AND id <> $3)`,
		listID, name, exceptID).Scan(&ok)
	if err != nil {
		return false, common.NewPersistenceError("check card name", err)
	}
	return ok, nil
}

func (r *SQLRepository) Move(ctx context.Context, cardID, listID, boardID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards SET lid = $1, bid = $2 WHERE id = $3`, listID, boardID, cardID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrCardNameAlreadyExists
		}
		return common.NewPersistenceError("move card", err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		return common.NewPersistenceError("move card", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return common.NewPersistenceError("delete card", err)
	}
	if err := dbx.ExpectRows(res, 1); err != nil {
		if errors.Is(err, dbx.ErrNoRowsAffected) {
			return common.ErrCardNotFound
		}
		return common.NewPersistenceError("delete card", err)
	}
	return nil
}

func (r *SQLRepository) DeleteByList(ctx context.Context, listID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE lid = $1`, listID); err != nil {
		return common.NewPersistenceError("delete list cards", err)
	}
	return nil
}
