// Package sqlstore implements storage.AppDatabase on top of the per-table
// SQL repositories. Every multi-statement write runs in one transaction.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/dbx"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
)

type Store struct {
	db   *sql.DB
	repo repomanager.RepositoryManager
}

var _ storage.AppDatabase = (*Store)(nil)

func New(db *sql.DB, repo repomanager.RepositoryManager) *Store {
	return &Store{db: db, repo: repo}
}

// inTx runs fn in a transaction. Driver errors from begin and commit are
// reported as persistence failures; fn's own errors pass through unchanged.
func (s *Store) inTx(ctx context.Context, op string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	var fnErr error
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		fnErr = fn(ctx, tx)
		return fnErr
	})
	if err != nil && !errors.Is(err, fnErr) {
		return common.NewPersistenceError(op, err)
	}
	return err
}

func (s *Store) CreateUser(ctx context.Context, token, name, email, password string) (int64, error) {
	var id int64
	err := s.inTx(ctx, "create user", func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repo.Users(tx)

		exists, err := users.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrEmailAlreadyExists
		}

		u, err := users.Create(ctx, &models.User{Name: name, Email: email, Token: token, Password: password})
		if err != nil {
			return err
		}
		id = u.ID
		return nil
	})
	return id, err
}

func (s *Store) LoginUser(ctx context.Context, email string) (models.User, error) {
	u, err := s.repo.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	return *u, nil
}

func (s *Store) GetUserDetails(ctx context.Context, id int64) (models.User, error) {
	u, err := s.repo.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return *u, nil
}

func (s *Store) GetUsersFromBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.User, error) {
	return s.repo.Users(s.db).ListByBoard(ctx, boardID, skip, limit)
}

func (s *Store) CheckEmailAlreadyExists(ctx context.Context, email string) (bool, error) {
	return s.repo.Users(s.db).EmailExists(ctx, email)
}

func (s *Store) GetAllAvailableUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.Users(s.db).List(ctx)
}

func (s *Store) TokenToID(ctx context.Context, token string) (int64, error) {
	u, err := s.repo.Users(s.db).GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (s *Store) CreateBoard(ctx context.Context, userID int64, name, description string) (int64, error) {
	var id int64
	err := s.inTx(ctx, "create board", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repo.Users(tx).GetByID(ctx, userID); err != nil {
			return err
		}

		boards := s.repo.Boards(tx)
		taken, err := boards.NameExists(ctx, name)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrBoardNameAlreadyExists
		}

		if id, err = boards.Create(ctx, name, description); err != nil {
			return err
		}
		_, err = s.repo.Memberships(tx).Add(ctx, userID, id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) boardDetails(ctx context.Context, db dbx.DBTX, b models.SimpleBoard) (models.Board, error) {
	ids, err := s.repo.Lists(db).IDsByBoard(ctx, b.ID)
	if err != nil {
		return models.Board{}, err
	}
	return models.Board{ID: b.ID, Name: b.Name, Description: b.Description, Lists: ids}, nil
}

func (s *Store) GetBoardDetails(ctx context.Context, id int64) (models.Board, error) {
	b, err := s.repo.Boards(s.db).GetByID(ctx, id)
	if err != nil {
		return models.Board{}, err
	}
	return s.boardDetails(ctx, s.db, *b)
}

func (s *Store) AddUserToBoard(ctx context.Context, userID, boardID int64) error {
	return s.inTx(ctx, "add user to board", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repo.Users(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		if _, err := s.repo.Boards(tx).GetByID(ctx, boardID); err != nil {
			return err
		}
		_, err := s.repo.Memberships(tx).Add(ctx, userID, boardID)
		return err
	})
}

func (s *Store) GetBoardsFromUser(ctx context.Context, userID int64, skip, limit int) ([]models.Board, error) {
	return s.SearchBoardsFromUser(ctx, userID, skip, limit, "")
}

func (s *Store) SearchBoardsFromUser(ctx context.Context, userID int64, skip, limit int, query string) ([]models.Board, error) {
	simple, err := s.repo.Boards(s.db).ListByUser(ctx, userID, query, skip, limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.Board, 0, len(simple))
	for _, b := range simple {
		full, err := s.boardDetails(ctx, s.db, b)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

func (s *Store) CheckUserAlreadyExistsInBoard(ctx context.Context, userID, boardID int64) (bool, error) {
	return s.repo.Memberships(s.db).Exists(ctx, userID, boardID)
}

func (s *Store) CheckUserTokenExistsInBoard(ctx context.Context, token string, boardID int64) (bool, error) {
	return s.repo.Memberships(s.db).TokenExists(ctx, token, boardID)
}

func (s *Store) CheckBoardExists(ctx context.Context, boardID int64) (bool, error) {
	return s.repo.Boards(s.db).Exists(ctx, boardID)
}

func (s *Store) CheckBoardNameAlreadyExists(ctx context.Context, name string) (bool, error) {
	return s.repo.Boards(s.db).NameExists(ctx, name)
}

func (s *Store) CreateList(ctx context.Context, boardID int64, name string) (int64, error) {
	var id int64
	err := s.inTx(ctx, "create list", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repo.Boards(tx).GetByID(ctx, boardID); err != nil {
			return err
		}

		lists := s.repo.Lists(tx)
		taken, err := lists.NameExists(ctx, boardID, name)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrListNameAlreadyExistsInBoard
		}

		id, err = lists.Create(ctx, boardID, name)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) listDetails(ctx context.Context, l models.SimpleList) (models.TaskList, error) {
	ids, err := s.repo.Cards(s.db).IDsByList(ctx, l.ID)
	if err != nil {
		return models.TaskList{}, err
	}
	return models.TaskList{ID: l.ID, BoardID: l.BoardID, Name: l.Name, Cards: ids}, nil
}

func (s *Store) GetListsFromBoard(ctx context.Context, boardID int64, skip, limit int) ([]models.TaskList, error) {
	simple, err := s.repo.Lists(s.db).ListByBoard(ctx, boardID, skip, limit)
	if err != nil {
		return nil, err
	}

	out := make([]models.TaskList, 0, len(simple))
	for _, l := range simple {
		full, err := s.listDetails(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, full)
	}
	return out, nil
}

func (s *Store) GetListDetails(ctx context.Context, id int64) (models.TaskList, error) {
	l, err := s.repo.Lists(s.db).GetByID(ctx, id)
	if err != nil {
		return models.TaskList{}, err
	}
	return s.listDetails(ctx, *l)
}

func (s *Store) CheckListAlreadyExistsInBoard(ctx context.Context, boardID int64, name string) (bool, error) {
	return s.repo.Lists(s.db).NameExists(ctx, boardID, name)
}

func (s *Store) DeleteList(ctx context.Context, id int64) error {
	return s.inTx(ctx, "delete list", func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repo.Lists(tx).GetByID(ctx, id); err != nil {
			return err
		}
		if err := s.repo.Cards(tx).DeleteByList(ctx, id); err != nil {
			return err
		}
		return s.repo.Lists(tx).Delete(ctx, id)
	})
}

func (s *Store) CreateCard(ctx context.Context, listID int64, name, description string, initDate, dueDate time.Time) (int64, error) {
	var id int64
	err := s.inTx(ctx, "create card", func(ctx context.Context, tx dbx.DBTX) error {
		l, err := s.repo.Lists(tx).GetByID(ctx, listID)
		if err != nil {
			return err
		}

		cards := s.repo.Cards(tx)
		taken, err := cards.NameExists(ctx, listID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrCardNameAlreadyExists
		}

		c, err := cards.Create(ctx, &models.Card{
			BoardID:     l.BoardID,
			ListID:      l.ID,
			Name:        name,
			Description: description,
			InitDate:    initDate,
			DueDate:     dueDate,
		})
		if err != nil {
			return err
		}
		id = c.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetCardsFromList(ctx context.Context, listID, boardID int64, skip, limit int) ([]models.Card, error) {
	return s.repo.Cards(s.db).ListByList(ctx, listID, boardID, skip, limit)
}

func (s *Store) GetCardDetails(ctx context.Context, id int64) (models.Card, error) {
	c, err := s.repo.Cards(s.db).GetByID(ctx, id)
	if err != nil {
		return models.Card{}, err
	}
	return *c, nil
}

func (s *Store) MoveCard(ctx context.Context, cardID, listID int64, _ int) error {
	return s.inTx(ctx, "move card", func(ctx context.Context, tx dbx.DBTX) error {
		cards := s.repo.Cards(tx)

		c, err := cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		l, err := s.repo.Lists(tx).GetByID(ctx, listID)
		if err != nil {
			return err
		}

		taken, err := cards.NameExists(ctx, l.ID, c.Name, c.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrCardNameAlreadyExists
		}

		return cards.Move(ctx, c.ID, l.ID, l.BoardID)
	})
}

func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	return s.repo.Cards(s.db).Delete(ctx, id)
}
