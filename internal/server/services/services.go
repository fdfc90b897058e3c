// Package services composes storage calls into the use-cases exposed over
// HTTP and enforces authentication and board membership on top of them.
//
// Every method that acts on behalf of a caller takes the raw bearer token.
// Resolution happens per call, so the store stays authoritative.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
	"github.com/dmitrijs2005/taskboard/internal/server/tokencache"
)

// Deps are the collaborators shared by all services. Only Store is required.
type Deps struct {
	Store  storage.AppDatabase
	Cache  tokencache.Cache
	Logger logging.Logger
	Now    func() time.Time
}

type Services struct {
	Users  *UserService
	Boards *BoardService
	Lists  *ListService
	Cards  *CardService
}

func New(d Deps) *Services {
	if d.Logger == nil {
		d.Logger = logging.NopLogger{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	b := &base{
		db:     d.Store,
		tokens: tokencache.NewResolver(d.Store, d.Cache),
		log:    d.Logger.With("module", "services"),
		now:    d.Now,
	}
	return &Services{
		Users:  &UserService{base: b},
		Boards: &BoardService{base: b},
		Lists:  &ListService{base: b},
		Cards:  &CardService{base: b},
	}
}

type base struct {
	db     storage.AppDatabase
	tokens *tokencache.Resolver
	log    logging.Logger
	now    func() time.Time
}

// authenticate resolves token to the caller's user id.
func (b *base) authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrNoAuthentication
	}
	id, err := b.tokens.TokenToID(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return 0, common.ErrInvalidToken
		}
		return 0, err
	}
	return id, nil
}

// requireMember fails with common.ErrIllegalUserAccess unless the holder of
// token is a member of boardID. The board must exist.
func (b *base) requireMember(ctx context.Context, token string, boardID int64) error {
	exists, err := b.db.CheckBoardExists(ctx, boardID)
	if err != nil {
		return err
	}
	if !exists {
		return common.ErrBoardNotFound
	}

	member, err := b.db.CheckUserTokenExistsInBoard(ctx, token, boardID)
	if err != nil {
		return err
	}
	if !member {
		return common.ErrIllegalUserAccess
	}
	return nil
}

func checkPaging(skip, limit int) error {
	if skip < 0 || limit < 0 {
		return common.ErrInvalidPaging
	}
	return nil
}

// observe logs store corruption before handing err back to the caller.
func (b *base) observe(ctx context.Context, op string, err error) error {
	if err != nil && common.KindOf(err) == common.KindConsistency {
		b.log.Error(ctx, "inconsistent membership", "op", op, "error", err)
	}
	return err
}
