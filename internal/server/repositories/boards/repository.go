package boards

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, name, description string) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SimpleBoard, error)
	Exists(ctx context.Context, id int64) (bool, error)
	NameExists(ctx context.Context, name string) (bool, error)
	// ListByUser returns the boards userID is a member of whose name
	// contains query, case-insensitively, ordered by id.
	ListByUser(ctx context.Context, userID int64, query string, skip, limit int) ([]models.SimpleBoard, error)
}
