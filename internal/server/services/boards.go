package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type BoardService struct {
	*base
}

func (s *BoardService) Create(ctx context.Context, token, name, description string) (int64, error) {
	uid, err := s.authenticate(ctx, token)
	if err != nil {
		return 0, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ErrInvalidField
	}

	taken, err := s.db.CheckBoardNameAlreadyExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, common.ErrBoardNameAlreadyExists
	}

	id, err := s.db.CreateBoard(ctx, uid, name, description)
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "board created", "board_id", id, "user_id", uid)
	return id, nil
}

// access authenticates token and checks membership of boardID.
func (s *BoardService) access(ctx context.Context, token string, boardID int64) error {
	if _, err := s.authenticate(ctx, token); err != nil {
		return err
	}
	return s.requireMember(ctx, token, boardID)
}

func (s *BoardService) Details(ctx context.Context, token string, boardID int64) (models.Board, error) {
	if err := s.access(ctx, token, boardID); err != nil {
		return models.Board{}, err
	}
	return s.db.GetBoardDetails(ctx, boardID)
}

// AddUser grants userID access to boardID. Adding an existing member is a
// no-op.
func (s *BoardService) AddUser(ctx context.Context, token string, boardID, userID int64) error {
	if err := s.access(ctx, token, boardID); err != nil {
		return err
	}
	if _, err := s.db.GetUserDetails(ctx, userID); err != nil {
		return err
	}

	member, err := s.db.CheckUserAlreadyExistsInBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}
	return s.db.AddUserToBoard(ctx, userID, boardID)
}

func (s *BoardService) Users(ctx context.Context, token string, boardID int64, skip, limit int) ([]models.User, error) {
	if err := s.access(ctx, token, boardID); err != nil {
		return nil, err
	}
	if err := checkPaging(skip, limit); err != nil {
		return nil, err
	}
	users, err := s.db.GetUsersFromBoard(ctx, boardID, skip, limit)
	return users, s.observe(ctx, "users of board", err)
}
