package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
	"github.com/dmitrijs2005/taskboard/internal/server/storage/storagetest"
)

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.AppDatabase { return New() })
}

func TestStore_IDsStartAtOne(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid, err := s.CreateUser(ctx, "t", "n", "e@x.io", "p")
	require.NoError(t, err)
	bid, err := s.CreateBoard(ctx, uid, "b", "")
	require.NoError(t, err)
	lid, err := s.CreateList(ctx, bid, "l")
	require.NoError(t, err)

	assert.Equal(t, int64(1), uid)
	assert.Equal(t, int64(1), bid)
	assert.Equal(t, int64(1), lid)
}

func TestStore_DanglingBoardMembership(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid, _ := s.CreateUser(ctx, "t", "n", "e@x.io", "p")
	keep, _ := s.CreateBoard(ctx, uid, "keep", "")
	lost, _ := s.CreateBoard(ctx, uid, "lost", "")

	s.mu.Lock()
	delete(s.boards, lost)
	s.mu.Unlock()

	_, err := s.GetBoardsFromUser(ctx, uid, 0, 10)
	assert.ErrorIs(t, err, common.ErrBoardsUserDoesNotExist)

	_, err = s.SearchBoardsFromUser(ctx, uid, 0, 10, "zzz")
	assert.ErrorIs(t, err, common.ErrBoardsUserDoesNotExist, "dangling entries are not hidden by the name filter")

	// a page that does not reach the dangling membership still resolves
	boards, err := s.GetBoardsFromUser(ctx, uid, 0, 1)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, keep, boards[0].ID)
}

func TestStore_DanglingUserMembership(t *testing.T) {
	s := New()
	ctx := context.Background()

	uid, _ := s.CreateUser(ctx, "t", "n", "e@x.io", "p")
	bid, _ := s.CreateBoard(ctx, uid, "b", "")

	s.mu.Lock()
	delete(s.users, uid)
	s.mu.Unlock()

	_, err := s.GetUsersFromBoard(ctx, bid, 0, 10)
	assert.ErrorIs(t, err, common.ErrUsersBoardDoesNotExist)
}

func TestStore_ConcurrentSignupsKeepEmailsUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.CreateUser(ctx, fmt.Sprintf("tok-%d", i), "u", fmt.Sprintf("u%d@x.io", i), "p"); err != nil {
				errs <- err
			}
			// everybody races for the same address too
			if _, err := s.CreateUser(ctx, fmt.Sprintf("dup-%d", i), "d", "shared@x.io", "p"); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	var dup int
	for err := range errs {
		require.ErrorIs(t, err, common.ErrEmailAlreadyExists)
		dup++
	}
	assert.Equal(t, workers-1, dup)

	users, err := s.GetAllAvailableUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, workers+1)

	seen := map[int64]bool{}
	for _, u := range users {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}
