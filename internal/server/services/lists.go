package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type ListService struct {
	*base
}

func (s *ListService) Create(ctx context.Context, token string, boardID int64, name string) (int64, error) {
	if _, err := s.authenticate(ctx, token); err != nil {
		return 0, err
	}
	if err := s.requireMember(ctx, token, boardID); err != nil {
		return 0, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ErrInvalidField
	}

	taken, err := s.db.CheckListAlreadyExistsInBoard(ctx, boardID, name)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, common.ErrListNameAlreadyExistsInBoard
	}
	return s.db.CreateList(ctx, boardID, name)
}

func (s *ListService) OfBoard(ctx context.Context, token string, boardID int64, skip, limit int) ([]models.TaskList, error) {
	if _, err := s.authenticate(ctx, token); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, token, boardID); err != nil {
		return nil, err
	}
	if err := checkPaging(skip, limit); err != nil {
		return nil, err
	}
	return s.db.GetListsFromBoard(ctx, boardID, skip, limit)
}

// load authenticates token and returns listID if the caller may see it.
func (s *ListService) load(ctx context.Context, token string, listID int64) (models.TaskList, error) {
	if _, err := s.authenticate(ctx, token); err != nil {
		return models.TaskList{}, err
	}
	l, err := s.db.GetListDetails(ctx, listID)
	if err != nil {
		return models.TaskList{}, err
	}
	if err := s.requireMember(ctx, token, l.BoardID); err != nil {
		return models.TaskList{}, err
	}
	return l, nil
}

func (s *ListService) Details(ctx context.Context, token string, listID int64) (models.TaskList, error) {
	return s.load(ctx, token, listID)
}

// Delete removes the list and every card in it.
func (s *ListService) Delete(ctx context.Context, token string, listID int64) error {
	if _, err := s.load(ctx, token, listID); err != nil {
		return err
	}
	if err := s.db.DeleteList(ctx, listID); err != nil {
		return err
	}
	s.log.Info(ctx, "list deleted", "list_id", listID)
	return nil
}
