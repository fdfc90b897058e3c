package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

type UserService struct {
	*base
}

// Credentials is what signup and login hand back to the client.
type Credentials struct {
	ID    int64
	Token string
}

// Signup registers a user and issues a fresh bearer token.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (Credentials, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return Credentials{}, common.ErrInvalidField
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return Credentials{}, common.ErrInvalidField
	}

	taken, err := s.db.CheckEmailAlreadyExists(ctx, email)
	if err != nil {
		return Credentials{}, err
	}
	if taken {
		return Credentials{}, common.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Credentials{}, err
	}

	token := auth.NewToken()
	id, err := s.db.CreateUser(ctx, token, name, email, hash)
	if err != nil {
		return Credentials{}, err
	}

	s.log.Info(ctx, "user signed up", "user_id", id)
	return Credentials{ID: id, Token: token}, nil
}

// Login checks the password and returns the user's existing token.
func (s *UserService) Login(ctx context.Context, email, password string) (Credentials, error) {
	u, err := s.db.LoginUser(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return Credentials{}, common.ErrInvalidCredentials
		}
		return Credentials{}, err
	}

	ok, err := auth.VerifyPassword(password, u.Password)
	if err != nil {
		s.log.Warn(ctx, "stored credential unreadable", "user_id", u.ID, "error", err)
		return Credentials{}, common.ErrInvalidCredentials
	}
	if !ok {
		return Credentials{}, common.ErrInvalidCredentials
	}
	return Credentials{ID: u.ID, Token: u.Token}, nil
}

func (s *UserService) Details(ctx context.Context, id int64) (models.User, error) {
	return s.db.GetUserDetails(ctx, id)
}

func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	return s.db.GetAllAvailableUsers(ctx)
}

// owner authenticates token and requires it to belong to userID.
func (s *UserService) owner(ctx context.Context, token string, userID int64) error {
	caller, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}
	if caller != userID {
		return common.ErrIllegalUserAccess
	}
	return nil
}

// Boards lists the boards of userID. Only userID may ask.
func (s *UserService) Boards(ctx context.Context, token string, userID int64, skip, limit int) ([]models.Board, error) {
	if err := s.owner(ctx, token, userID); err != nil {
		return nil, err
	}
	if err := checkPaging(skip, limit); err != nil {
		return nil, err
	}
	boards, err := s.db.GetBoardsFromUser(ctx, userID, skip, limit)
	return boards, s.observe(ctx, "boards of user", err)
}

func (s *UserService) SearchBoards(ctx context.Context, token string, userID int64, skip, limit int, query string) ([]models.Board, error) {
	if err := s.owner(ctx, token, userID); err != nil {
		return nil, err
	}
	if err := checkPaging(skip, limit); err != nil {
		return nil, err
	}
	boards, err := s.db.SearchBoardsFromUser(ctx, userID, skip, limit, query)
	return boards, s.observe(ctx, "search boards", err)
}
