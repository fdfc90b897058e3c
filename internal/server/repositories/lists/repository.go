package lists

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, boardID int64, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SimpleList, error)
	ListByBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.SimpleList, error)
	IDsByBoard(ctx context.Context, boardID int64) ([]int64, error)
	NameExists(ctx context.Context, boardID int64, name string) (bool, error)
	Delete(ctx context.Context, id int64) error
}
