package memberships

import "context"

// Repository manages the userboards join table.
type Repository interface {
	Add(ctx context.Context, userID, boardID int64) (int64, error)
	Exists(ctx context.Context, userID, boardID int64) (bool, error)
	TokenExists(ctx context.Context, token string, boardID int64) (bool, error)
}
