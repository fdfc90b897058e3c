package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// SQLRepository works against both Postgres and SQLite; queries use $N
// placeholders and RETURNING, which both dialects accept.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const userColumns = `id, name, email, token, password`

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (name, email, token, password)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Token, user.Password).Scan(&user.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrEmailAlreadyExists
		}
		return nil, common.NewPersistenceError("create user", err)
	}

	return user, nil
}

func (r *SQLRepository) getOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Token, &u.Password)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.NewPersistenceError(op, err)
	}

	return u, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "get user", `id = $1`, id)
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", `email = $1`, email)
}

func (r *SQLRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, "get user by token", `token = $1`, token)
}

func (r *SQLRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, common.NewPersistenceError("check email", err)
	}
	return exists, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, common.NewPersistenceError("list users", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Token, &u.Password); err != nil {
			return nil, common.NewPersistenceError("list users", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list users", err)
	}
	return out, nil
}

func (r *SQLRepository) ListByBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.User, error) {
	query :=
		`SELECT DISTINCT ub.uid, u.id, u.name, u.email, u.token, u.password
		 FROM userboards ub
		 LEFT JOIN users u ON u.id = ub.uid
		 WHERE ub.bid = $1
		 ORDER BY ub.uid
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, boardID, dbx.Limit(limit), skip)
	if err != nil {
		return nil, common.NewPersistenceError("list board users", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var (
			uid                          int64
			id                           sql.NullInt64
			name, email, token, password sql.NullString
		)
		if err := rows.Scan(&uid, &id, &name, &email, &token, &password); err != nil {
			return nil, common.NewPersistenceError("list board users", err)
		}
		if !id.Valid {
			return nil, common.ErrUsersBoardDoesNotExist
		}
		out = append(out, models.User{
			ID:       id.Int64,
			Name:     name.String,
			Email:    email.String,
			Token:    token.String,
			Password: password.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list board users", err)
	}
	return out, nil
}
