// Package storagetest is a behavioural suite every storage.AppDatabase
// backend must pass. Backends call Run from their own tests with a factory
// that returns a fresh, empty store.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.AppDatabase

var (
	day1 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, db storage.AppDatabase)
	}{
		{"CreateUserRoundTrip", testCreateUserRoundTrip},
		{"DuplicateEmail", testDuplicateEmail},
		{"DuplicateToken", testDuplicateToken},
		{"LoginUser", testLoginUser},
		{"TokenToID", testTokenToID},
		{"CreateBoard", testCreateBoard},
		{"CreateBoardErrors", testCreateBoardErrors},
		{"AddUserToBoard", testAddUserToBoard},
		{"BoardsPagination", testBoardsPagination},
		{"SearchBoards", testSearchBoards},
		{"ListNameScope", testListNameScope},
		{"ListsFromBoard", testListsFromBoard},
		{"CreateCard", testCreateCard},
		{"CardsFromList", testCardsFromList},
		{"MoveCard", testMoveCard},
		{"DeleteListRemovesRecords", testDeleteList},
		{"DeleteCardRemovesRecord", testDeleteCard},
		{"EndToEnd", testEndToEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func mustUser(t *testing.T, db storage.AppDatabase, name string) (int64, string) {
	t.Helper()
	token := "token-" + name
	id, err := db.CreateUser(context.Background(), token, name, name+"@example.com", "secret-"+name)
	require.NoError(t, err)
	return id, token
}

func mustBoard(t *testing.T, db storage.AppDatabase, uid int64, name string) int64 {
	t.Helper()
	id, err := db.CreateBoard(context.Background(), uid, name, "about "+name)
	require.NoError(t, err)
	return id
}

func mustList(t *testing.T, db storage.AppDatabase, bid int64, name string) int64 {
	t.Helper()
	id, err := db.CreateList(context.Background(), bid, name)
	require.NoError(t, err)
	return id
}

func mustCard(t *testing.T, db storage.AppDatabase, lid int64, name string) int64 {
	t.Helper()
	id, err := db.CreateCard(context.Background(), lid, name, "do "+name, day1, day2)
	require.NoError(t, err)
	return id
}

func boardNames(boards []models.Board) []string {
	out := make([]string, 0, len(boards))
	for _, b := range boards {
		out = append(out, b.Name)
	}
	return out
}

func testCreateUserRoundTrip(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()

	id1, err := db.CreateUser(ctx, "t1", "Alice", "alice@example.com", "pw1")
	require.NoError(t, err)
	id2, err := db.CreateUser(ctx, "t2", "Bob", "bob@example.com", "pw2")
	require.NoError(t, err)
	assert.Greater(t, id2, id1, "ids must be fresh and increasing")

	got, err := db.GetUserDetails(ctx, id1)
	require.NoError(t, err)
	want := models.User{ID: id1, Name: "Alice", Email: "alice@example.com", Token: "t1", Password: "pw1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetUserDetails mismatch (-want +got):\n%s", diff)
	}

	_, err = db.GetUserDetails(ctx, id2+100)
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	all, err := db.GetAllAvailableUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].ID)
	assert.Equal(t, id2, all[1].ID)
}

func testDuplicateEmail(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()

	_, err := db.CreateUser(ctx, "t1", "Alice", "same@example.com", "pw")
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "t2", "Alice Two", "same@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrEmailAlreadyExists)

	all, err := db.GetAllAvailableUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "no partial user must be left behind")

	_, err = db.TokenToID(ctx, "t2")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	ok, err := db.CheckEmailAlreadyExists(ctx, "same@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.CheckEmailAlreadyExists(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDuplicateToken(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()

	first, err := db.CreateUser(ctx, "same", "Alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = db.CreateUser(ctx, "same", "Bob", "bob@example.com", "pw")
	assert.ErrorIs(t, err, common.ErrEmailAlreadyExists)

	all, err := db.GetAllAvailableUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	for i := 0; i < 20; i++ {
		id, err := db.TokenToID(ctx, "same")
		require.NoError(t, err)
		require.Equal(t, first, id, "a token resolves to exactly one user")
	}
}

func testLoginUser(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	id, token := mustUser(t, db, "carol")

	u, err := db.LoginUser(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, token, u.Token)
	assert.Equal(t, "secret-carol", u.Password)

	_, err = db.LoginUser(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func testTokenToID(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		id, token := mustUser(t, db, name)
		got, err := db.TokenToID(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	_, err := db.TokenToID(ctx, "never-issued")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func testCreateBoard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, token := mustUser(t, db, "owner")
	other, otherToken := mustUser(t, db, "other")

	bid := mustBoard(t, db, uid, "Roadmap")

	b, err := db.GetBoardDetails(ctx, bid)
	require.NoError(t, err)
	assert.Equal(t, models.Board{ID: bid, Name: "Roadmap", Description: "about Roadmap", Lists: []int64{}}, b)

	member, err := db.CheckUserAlreadyExistsInBoard(ctx, uid, bid)
	require.NoError(t, err)
	assert.True(t, member, "owner is added as a member")

	member, err = db.CheckUserAlreadyExistsInBoard(ctx, other, bid)
	require.NoError(t, err)
	assert.False(t, member)

	member, err = db.CheckUserTokenExistsInBoard(ctx, token, bid)
	require.NoError(t, err)
	assert.True(t, member)

	member, err = db.CheckUserTokenExistsInBoard(ctx, otherToken, bid)
	require.NoError(t, err)
	assert.False(t, member)

	member, err = db.CheckUserTokenExistsInBoard(ctx, "unknown", bid)
	require.NoError(t, err)
	assert.False(t, member)

	exists, err := db.CheckBoardExists(ctx, bid)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.CheckBoardExists(ctx, bid+1)
	require.NoError(t, err)
	assert.False(t, exists)

	taken, err := db.CheckBoardNameAlreadyExists(ctx, "Roadmap")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = db.CheckBoardNameAlreadyExists(ctx, "roadmap")
	require.NoError(t, err)
	assert.False(t, taken, "board names compare exactly")

	_, err = db.GetBoardDetails(ctx, bid+1)
	assert.ErrorIs(t, err, common.ErrBoardNotFound)
}

func testCreateBoardErrors(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "owner")
	other, _ := mustUser(t, db, "other")
	mustBoard(t, db, uid, "Taken")

	_, err := db.CreateBoard(ctx, other, "Taken", "dup")
	assert.ErrorIs(t, err, common.ErrBoardNameAlreadyExists)

	boards, err := db.GetBoardsFromUser(ctx, other, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, boards, "a failed create leaves no membership behind")

	_, err = db.CreateBoard(ctx, other+100, "Orphan", "")
	assert.ErrorIs(t, err, common.ErrUserNotFound)

	exists, err := db.CheckBoardNameAlreadyExists(ctx, "Orphan")
	require.NoError(t, err)
	assert.False(t, exists)
}

func testAddUserToBoard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	owner, _ := mustUser(t, db, "owner")
	guest, _ := mustUser(t, db, "guest")
	bid := mustBoard(t, db, owner, "Shared")

	assert.ErrorIs(t, db.AddUserToBoard(ctx, guest+100, bid), common.ErrUserNotFound)
	assert.ErrorIs(t, db.AddUserToBoard(ctx, guest, bid+100), common.ErrBoardNotFound)

	require.NoError(t, db.AddUserToBoard(ctx, guest, bid))
	// duplicate memberships are inert
	require.NoError(t, db.AddUserToBoard(ctx, guest, bid))

	users, err := db.GetUsersFromBoard(ctx, bid, 0, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, owner, users[0].ID)
	assert.Equal(t, guest, users[1].ID)

	users, err = db.GetUsersFromBoard(ctx, bid, 1, 10)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "guest", users[0].Name)

	boards, err := db.GetBoardsFromUser(ctx, guest, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shared"}, boardNames(boards))

	users, err = db.GetUsersFromBoard(ctx, bid+100, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func testBoardsPagination(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "pager")
	other, _ := mustUser(t, db, "noise")

	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, mustBoard(t, db, uid, fmt.Sprintf("Board %d", i)))
		mustBoard(t, db, other, fmt.Sprintf("Noise %d", i))
	}

	page, err := db.GetBoardsFromUser(ctx, uid, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[1], page[0].ID)
	assert.Equal(t, ids[2], page[1].ID)

	all, err := db.GetBoardsFromUser(ctx, uid, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"Board 0", "Board 1", "Board 2", "Board 3", "Board 4"}, boardNames(all))

	empty, err := db.GetBoardsFromUser(ctx, uid, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	none, err := db.GetBoardsFromUser(ctx, uid, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testSearchBoards(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "searcher")
	other, _ := mustUser(t, db, "stranger")

	mustBoard(t, db, uid, "Sprint Backlog")
	mustBoard(t, db, uid, "Retro")
	mustBoard(t, db, uid, "100%_done")
	mustBoard(t, db, other, "Sprint Planning")

	for _, q := range []string{"sprint", "BACK", "t bAc"} {
		got, err := db.SearchBoardsFromUser(ctx, uid, 0, 10, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sprint Backlog"}, boardNames(got), "query %q", q)
	}

	got, err := db.SearchBoardsFromUser(ctx, uid, 0, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sprint Backlog", "Retro", "100%_done"}, boardNames(got))

	got, err = db.SearchBoardsFromUser(ctx, uid, 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Retro"}, boardNames(got))

	got, err = db.SearchBoardsFromUser(ctx, uid, 0, 10, "planning")
	require.NoError(t, err)
	assert.Empty(t, got, "boards the user is not a member of are never matched")

	got, err = db.SearchBoardsFromUser(ctx, uid, 0, 10, "%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_done"}, boardNames(got), "wildcards match literally")

	got, err = db.SearchBoardsFromUser(ctx, uid, 0, 10, "_")
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_done"}, boardNames(got))

	mustBoard(t, db, uid, "Über Plan")
	for _, q := range []string{"über", "ÜBER", "r pl"} {
		got, err := db.SearchBoardsFromUser(ctx, uid, 0, 10, q)
		require.NoError(t, err)
		assert.Equal(t, []string{"Über Plan"}, boardNames(got), "query %q", q)
	}
}

func testListNameScope(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "lister")
	b1 := mustBoard(t, db, uid, "One")
	b2 := mustBoard(t, db, uid, "Two")

	mustList(t, db, b1, "Todo")
	mustList(t, db, b2, "Todo")

	_, err := db.CreateList(ctx, b1, "Todo")
	assert.ErrorIs(t, err, common.ErrListNameAlreadyExistsInBoard)

	_, err = db.CreateList(ctx, b2+100, "Todo")
	assert.ErrorIs(t, err, common.ErrBoardNotFound)

	exists, err := db.CheckListAlreadyExistsInBoard(ctx, b1, "Todo")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.CheckListAlreadyExistsInBoard(ctx, b1, "Done")
	require.NoError(t, err)
	assert.False(t, exists)

	lists, err := db.GetListsFromBoard(ctx, b1, 0, 10)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
}

func testListsFromBoard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "lister")
	bid := mustBoard(t, db, uid, "Kanban")

	todo := mustList(t, db, bid, "Todo")
	doing := mustList(t, db, bid, "Doing")
	done := mustList(t, db, bid, "Done")
	c1 := mustCard(t, db, doing, "write tests")
	c2 := mustCard(t, db, doing, "fix bug")

	lists, err := db.GetListsFromBoard(ctx, bid, 1, 2)
	require.NoError(t, err)
	want := []models.TaskList{
		{ID: doing, BoardID: bid, Name: "Doing", Cards: []int64{c1, c2}},
		{ID: done, BoardID: bid, Name: "Done", Cards: []int64{}},
	}
	if diff := cmp.Diff(want, lists); diff != "" {
		t.Fatalf("GetListsFromBoard mismatch (-want +got):\n%s", diff)
	}

	l, err := db.GetListDetails(ctx, todo)
	require.NoError(t, err)
	assert.Equal(t, models.TaskList{ID: todo, BoardID: bid, Name: "Todo", Cards: []int64{}}, l)

	_, err = db.GetListDetails(ctx, done+100)
	assert.ErrorIs(t, err, common.ErrListNotFound)

	b, err := db.GetBoardDetails(ctx, bid)
	require.NoError(t, err)
	assert.Equal(t, []int64{todo, doing, done}, b.Lists)
}

func testCreateCard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "carder")
	bid := mustBoard(t, db, uid, "Cards")
	l1 := mustList(t, db, bid, "L1")
	l2 := mustList(t, db, bid, "L2")

	loc := time.FixedZone("UTC+2", 2*3600)
	cid, err := db.CreateCard(ctx, l1, "C1", "first", time.Date(2024, 3, 1, 10, 30, 0, 0, loc), time.Date(2024, 3, 15, 23, 0, 0, 0, loc))
	require.NoError(t, err)

	c, err := db.GetCardDetails(ctx, cid)
	require.NoError(t, err)
	want := models.Card{ID: cid, BoardID: bid, ListID: l1, Name: "C1", Description: "first", InitDate: day1, DueDate: day2}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("GetCardDetails mismatch (-want +got):\n%s", diff)
	}

	_, err = db.CreateCard(ctx, l1, "C1", "again", day1, day2)
	assert.ErrorIs(t, err, common.ErrCardNameAlreadyExists)

	_, err = db.CreateCard(ctx, l2, "C1", "other list", day1, day2)
	assert.NoError(t, err, "card names are scoped to their list")

	_, err = db.CreateCard(ctx, l2+100, "C9", "", day1, day2)
	assert.ErrorIs(t, err, common.ErrListNotFound)

	_, err = db.GetCardDetails(ctx, cid+100)
	assert.ErrorIs(t, err, common.ErrCardNotFound)
}

func testCardsFromList(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "reader")
	b1 := mustBoard(t, db, uid, "B1")
	b2 := mustBoard(t, db, uid, "B2")
	l1 := mustList(t, db, b1, "L")
	l2 := mustList(t, db, b2, "L")

	var ids []int64
	for i := 0; i < 4; i++ {
		ids = append(ids, mustCard(t, db, l1, fmt.Sprintf("card %d", i)))
	}
	mustCard(t, db, l2, "elsewhere")

	cards, err := db.GetCardsFromList(ctx, l1, b1, 1, 2)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, ids[1], cards[0].ID)
	assert.Equal(t, ids[2], cards[1].ID)

	cards, err = db.GetCardsFromList(ctx, l1, b2, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, cards, "list and board must both match")

	cards, err = db.GetCardsFromList(ctx, l2, b2, 0, 10)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "elsewhere", cards[0].Name)
}

func testMoveCard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "mover")
	b1 := mustBoard(t, db, uid, "From")
	b2 := mustBoard(t, db, uid, "To")
	src := mustList(t, db, b1, "Src")
	dst := mustList(t, db, b2, "Dst")
	cid := mustCard(t, db, src, "traveller")
	mustCard(t, db, dst, "resident")
	twin := mustCard(t, db, src, "resident")

	err := db.MoveCard(ctx, cid, dst+100, 0)
	assert.ErrorIs(t, err, common.ErrListNotFound)
	c, err := db.GetCardDetails(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, src, c.ListID, "failed move leaves the card in place")
	assert.Equal(t, b1, c.BoardID)

	assert.ErrorIs(t, db.MoveCard(ctx, cid+100, dst, 0), common.ErrCardNotFound)

	assert.ErrorIs(t, db.MoveCard(ctx, twin, dst, 0), common.ErrCardNameAlreadyExists)

	require.NoError(t, db.MoveCard(ctx, cid, src, 3), "moving within the same list is allowed")

	require.NoError(t, db.MoveCard(ctx, cid, dst, 1))
	c, err = db.GetCardDetails(ctx, cid)
	require.NoError(t, err)
	assert.Equal(t, dst, c.ListID)
	assert.Equal(t, b2, c.BoardID, "board follows the destination list")

	cards, err := db.GetCardsFromList(ctx, dst, b2, 0, 10)
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	cards, err = db.GetCardsFromList(ctx, src, b1, 0, 10)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, twin, cards[0].ID)
}

// Deleting is a real removal: the record is gone from every later lookup,
// not merely hidden from one filtered read.
func testDeleteList(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "deleter")
	bid := mustBoard(t, db, uid, "Board")
	keep := mustList(t, db, bid, "Keep")
	drop := mustList(t, db, bid, "Drop")
	kept := mustCard(t, db, keep, "kept")
	gone := mustCard(t, db, drop, "gone")

	require.NoError(t, db.DeleteList(ctx, drop))

	_, err := db.GetListDetails(ctx, drop)
	assert.ErrorIs(t, err, common.ErrListNotFound)
	_, err = db.GetCardDetails(ctx, gone)
	assert.ErrorIs(t, err, common.ErrCardNotFound, "cards go with their list")
	_, err = db.GetCardDetails(ctx, kept)
	assert.NoError(t, err)

	b, err := db.GetBoardDetails(ctx, bid)
	require.NoError(t, err)
	assert.Equal(t, []int64{keep}, b.Lists)

	assert.ErrorIs(t, db.DeleteList(ctx, drop), common.ErrListNotFound)

	// the name is free again
	_, err = db.CreateList(ctx, bid, "Drop")
	assert.NoError(t, err)
}

// Same removal semantics as testDeleteList.
func testDeleteCard(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()
	uid, _ := mustUser(t, db, "deleter")
	bid := mustBoard(t, db, uid, "Board")
	lid := mustList(t, db, bid, "L")
	cid := mustCard(t, db, lid, "bye")

	require.NoError(t, db.DeleteCard(ctx, cid))

	_, err := db.GetCardDetails(ctx, cid)
	assert.ErrorIs(t, err, common.ErrCardNotFound)
	cards, err := db.GetCardsFromList(ctx, lid, bid, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, cards)

	assert.ErrorIs(t, db.DeleteCard(ctx, cid), common.ErrCardNotFound)

	again := mustCard(t, db, lid, "bye")
	assert.Greater(t, again, cid, "ids are never reused")
}

func testEndToEnd(t *testing.T, db storage.AppDatabase) {
	ctx := context.Background()

	uid, err := db.CreateUser(ctx, "T1", "A", "a@example.com", "pw")
	require.NoError(t, err)
	resolved, err := db.TokenToID(ctx, "T1")
	require.NoError(t, err)
	require.Equal(t, uid, resolved)

	bid, err := db.CreateBoard(ctx, resolved, "B1", "board one")
	require.NoError(t, err)
	lid, err := db.CreateList(ctx, bid, "L1")
	require.NoError(t, err)
	_, err = db.CreateCard(ctx, lid, "C1", "card one", day1, day2)
	require.NoError(t, err)

	cards, err := db.GetCardsFromList(ctx, lid, bid, 0, 10)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "C1", cards[0].Name)
	assert.True(t, cards[0].DueDate.Equal(day2))
}
