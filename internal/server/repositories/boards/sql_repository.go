package boards

import (
	"context"
	"database/sql"
	"errors"
	"strings"

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

func (r *SQLRepository) Create(ctx context.Context, name, description string) (int64, error) {
	query :=
		`INSERT INTO boards (name, name_lower, description)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, name, foldName(name), description).Scan(&id); err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, common.ErrBoardNameAlreadyExists
		}
		return 0, common.NewPersistenceError("create board", err)
	}
	return id, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.SimpleBoard, error) {
	b := &models.SimpleBoard{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM boards WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Description)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrBoardNotFound
		}
		return nil, common.NewPersistenceError("get board", err)
	}
	return b, nil
}

func (r *SQLRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, common.NewPersistenceError("check board", err)
	}
	return ok, nil
}

func (r *SQLRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM boards WHERE name = $1)`, name).Scan(&ok)
	if err != nil {
		return false, common.NewPersistenceError("check board name", err)
	}
	return ok, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// foldName is the case folding search runs on. It is applied in Go so that
// every dialect folds non-ASCII letters the same way.
func foldName(name string) string {
	return strings.ToLower(name)
}

// containsPattern builds a LIKE pattern matching query as a literal substring
// of name_lower.
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(foldName(query)) + "%"
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64, query string, skip, limit int) ([]models.SimpleBoard, error) {
	// dangling memberships survive the name filter so they can be reported
	q :=
		`SELECT DISTINCT ub.bid, b.id, b.name, b.description
		 FROM userboards ub
		 LEFT JOIN boards b ON b.id = ub.bid
		 WHERE ub.uid = $1
		   AND (b.id IS NULL OR b.name_lower LIKE $2 ESCAPE '\')
		 ORDER BY ub.bid
		 LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, q, userID, containsPattern(query), dbx.Limit(limit), skip)
	if err != nil {
		return nil, common.NewPersistenceError("list user boards", err)
	}
	defer rows.Close()

	out := []models.SimpleBoard{}
	for rows.Next() {
		var (
			bid               int64
			id                sql.NullInt64
			name, description sql.NullString
		)
		if err := rows.Scan(&bid, &id, &name, &description); err != nil {
			return nil, common.NewPersistenceError("list user boards", err)
		}
		if !id.Valid {
			return nil, common.ErrBoardsUserDoesNotExist
		}
		out = append(out, models.SimpleBoard{ID: id.Int64, Name: name.String, Description: description.String})
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewPersistenceError("list user boards", err)
	}
	return out, nil
}
