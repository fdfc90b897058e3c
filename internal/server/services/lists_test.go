package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

func TestListCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	bid := f.board(t, alice.Token, "B")

	lid := f.list(t, alice.Token, bid, "Todo")

	_, err := f.svc.Lists.Create(ctx, alice.Token, bid, "Todo")
	assert.ErrorIs(t, err, common.ErrListNameAlreadyExistsInBoard)

	_, err = f.svc.Lists.Create(ctx, alice.Token, bid, "")
	assert.ErrorIs(t, err, common.ErrInvalidField)

	_, err = f.svc.Lists.Create(ctx, bob.Token, bid, "Mine")
	assert.ErrorIs(t, err, common.ErrIllegalUserAccess)

	_, err = f.svc.Lists.Create(ctx, alice.Token, bid+10, "Todo")
	assert.ErrorIs(t, err, common.ErrBoardNotFound)

	l, err := f.svc.Lists.Details(ctx, alice.Token, lid)
	require.NoError(t, err)
	assert.Equal(t, "Todo", l.Name)
	assert.Equal(t, bid, l.BoardID)

	_, err = f.svc.Lists.Details(ctx, bob.Token, lid)
	assert.ErrorIs(t, err, common.ErrIllegalUserAccess)

	_, err = f.svc.Lists.Details(ctx, alice.Token, lid+10)
	assert.ErrorIs(t, err, common.ErrListNotFound)
}

func TestListOfBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bid := f.board(t, alice.Token, "B")
	f.list(t, alice.Token, bid, "One")
	f.list(t, alice.Token, bid, "Two")
	f.list(t, alice.Token, bid, "Three")

	lists, err := f.svc.Lists.OfBoard(ctx, alice.Token, bid, 1, 5)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Two", lists[0].Name)

	_, err = f.svc.Lists.OfBoard(ctx, alice.Token, bid, -1, 5)
	assert.ErrorIs(t, err, common.ErrInvalidPaging)
}

func TestListDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signup(t, "alice")
	bob := f.signup(t, "bob")
	bid := f.board(t, alice.Token, "B")
	lid := f.list(t, alice.Token, bid, "Doomed")
	cid := f.card(t, alice.Token, lid, "c")

	assert.ErrorIs(t, f.svc.Lists.Delete(ctx, bob.Token, lid), common.ErrIllegalUserAccess)

	require.NoError(t, f.svc.Lists.Delete(ctx, alice.Token, lid))

	_, err := f.svc.Lists.Details(ctx, alice.Token, lid)
	assert.ErrorIs(t, err, common.ErrListNotFound)
	_, err = f.svc.Cards.Details(ctx, alice.Token, cid)
	assert.ErrorIs(t, err, common.ErrCardNotFound)
	assert.True(t, f.log.has("info", "list deleted"))
}
