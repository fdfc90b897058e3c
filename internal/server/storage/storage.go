// Package storage defines AppDatabase, the persistence contract every backend
// implements. Failures are reported with the sentinels from internal/common.
//
// Every sequence is returned in ascending id order; skip and limit are applied
// after filtering. A negative limit is treated as "no limit" by backends; the
// service layer rejects negative paging before it reaches storage.
package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// AppDatabase is the storage contract shared by the in-memory and SQL backends.
type AppDatabase interface {
	UserStore
	BoardStore
	ListStore
	CardStore
}

type UserStore interface {
	// CreateUser fails with common.ErrEmailAlreadyExists when email is taken.
	CreateUser(ctx context.Context, token, name, email, password string) (int64, error)
	// LoginUser looks a user up by email; common.ErrUserNotFound if absent.
	LoginUser(ctx context.Context, email string) (models.User, error)
	GetUserDetails(ctx context.Context, id int64) (models.User, error)
	// GetUsersFromBoard returns the members of a board. A membership whose
	// user does not resolve fails with common.ErrUsersBoardDoesNotExist.
	GetUsersFromBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.User, error)
	CheckEmailAlreadyExists(ctx context.Context, email string) (bool, error)
	GetAllAvailableUsers(ctx context.Context) ([]models.User, error)
	// TokenToID resolves a bearer token; common.ErrUserNotFound if unused.
	TokenToID(ctx context.Context, token string) (int64, error)
}

type BoardStore interface {
	// CreateBoard stores the board and the owner's membership atomically.
	CreateBoard(ctx context.Context, userID int64, name, description string) (int64, error)
	GetBoardDetails(ctx context.Context, id int64) (models.Board, error)
	AddUserToBoard(ctx context.Context, userID, boardID int64) error
	// GetBoardsFromUser fails with common.ErrBoardsUserDoesNotExist when a
	// membership in the requested page points at a missing board.
	GetBoardsFromUser(ctx context.Context, userID int64, skip, limit int) ([]models.Board, error)
	// SearchBoardsFromUser filters the user's boards by a case-insensitive
	// substring of the name. An empty query matches every board.
	SearchBoardsFromUser(ctx context.Context, userID int64, skip, limit int, query string) ([]models.Board, error)
	CheckUserAlreadyExistsInBoard(ctx context.Context, userID, boardID int64) (bool, error)
	CheckUserTokenExistsInBoard(ctx context.Context, token string, boardID int64) (bool, error)
	CheckBoardExists(ctx context.Context, boardID int64) (bool, error)
	CheckBoardNameAlreadyExists(ctx context.Context, name string) (bool, error)
}

type ListStore interface {
	CreateList(ctx context.Context, boardID int64, name string) (int64, error)
	GetListsFromBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.TaskList, error)
	GetListDetails(ctx context.Context, id int64) (models.TaskList, error)
	CheckListAlreadyExistsInBoard(ctx context.Context, boardID int64, name string) (bool, error)
	// DeleteList removes the list together with its cards.
	DeleteList(ctx context.Context, id int64) error
}

type CardStore interface {
	// CreateCard takes the card's board from its list.
	CreateCard(ctx context.Context, listID int64, name, description string, initDate, dueDate time.Time) (int64, error)
	GetCardsFromList(ctx context.Context, listID, boardID int64, skip, limit int) ([]models.Card, error)
	GetCardDetails(ctx context.Context, id int64) (models.Card, error)
	// MoveCard reassigns the card to listID and that list's board. The
	// position is accepted for API compatibility and not persisted.
	MoveCard(ctx context.Context, cardID, listID int64, position int) error
	DeleteCard(ctx context.Context, id int64) error
}

// Page applies skip and limit to an already filtered, ordered slice.
func Page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
