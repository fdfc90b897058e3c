package cards

import (
	"context"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	ListByList(ctx context.Context, listID, boardID int64, skip, limit int) ([]models.Card, error)
	IDsByList(ctx context.Context, listID int64) ([]int64, error)
	// NameExists reports whether a card other than exceptID is named name
	// in listID.
	NameExists(ctx context.Context, listID int64, name string, exceptID int64) (bool, error)
	Move(ctx context.Context, cardID, listID, boardID int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByList(ctx context.Context, listID int64) error
}
