package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type CardService struct {
	*base
}

func (s *CardService) list(ctx context.Context, token string, listID int64) (models.TaskList, error) {
	if _, err := s.authenticate(ctx, token); err != nil {
		return models.TaskList{}, err
	}
	l, err := s.db.GetListDetails(ctx, listID)
	if err != nil {
		return models.TaskList{}, err
	}
	return l, s.requireMember(ctx, token, l.BoardID)
}

func (s *CardService) card(ctx context.Context, token string, cardID int64) (models.Card, error) {
	if _, err := s.authenticate(ctx, token); err != nil {
		return models.Card{}, err
	}
	c, err := s.db.GetCardDetails(ctx, cardID)
	if err != nil {
		return models.Card{}, err
	}
	return c, s.requireMember(ctx, token, c.BoardID)
}

// Create adds a card to listID. The creation date is today (UTC) and the
// due date may not precede it.
func (s *CardService) Create(ctx context.Context, token string, listID int64, name, description string, due time.Time) (int64, error) {
	l, err := s.list(ctx, token, listID)
	if err != nil {
		return 0, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, common.ErrInvalidField
	}

	initDate := models.Date(s.now())
	due = models.Date(due)
	if due.Before(initDate) {
		return 0, common.ErrInvalidDate
	}

	return s.db.CreateCard(ctx, l.ID, name, description, initDate, due)
}

func (s *CardService) OfList(ctx context.Context, token string, listID int64, skip, limit int) ([]models.Card, error) {
	l, err := s.list(ctx, token, listID)
	if err != nil {
		return nil, err
	}
	if err := checkPaging(skip, limit); err != nil {
		return nil, err
	}
	return s.db.GetCardsFromList(ctx, l.ID, l.BoardID, skip, limit)
}

func (s *CardService) Details(ctx context.Context, token string, cardID int64) (models.Card, error) {
	return s.card(ctx, token, cardID)
}

// Move puts cardID into listID. The caller must belong to both boards
// involved.
func (s *CardService) Move(ctx context.Context, token string, cardID, listID int64, position int) error {
	if _, err := s.card(ctx, token, cardID); err != nil {
		return err
	}
	if position < 0 {
		return common.ErrInvalidPosition
	}
	dst, err := s.db.GetListDetails(ctx, listID)
	if err != nil {
		return err
	}
	if err := s.requireMember(ctx, token, dst.BoardID); err != nil {
		return err
	}
	return s.db.MoveCard(ctx, cardID, listID, position)
}

func (s *CardService) Delete(ctx context.Context, token string, cardID int64) error {
	if _, err := s.card(ctx, token, cardID); err != nil {
		return err
	}
	return s.db.DeleteCard(ctx, cardID)
}
