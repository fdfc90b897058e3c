// Package memory is the in-process AppDatabase backend. All state lives in a
// single Store guarded by one RWMutex; ids start at 1 and are never reused.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
	"github.com/dmitrijs2005/taskboard/internal/server/storage"
)

type Store struct {
	mu sync.RWMutex

	users       map[int64]models.User
	boards      map[int64]models.SimpleBoard
	memberships map[int64]models.UserBoard
	lists       map[int64]models.SimpleList
	cards       map[int64]models.Card

	nextUser, nextBoard, nextMembership, nextList, nextCard int64
}

var _ storage.AppDatabase = (*Store)(nil)

func New() *Store {
	return &Store{
		users:          make(map[int64]models.User),
		boards:         make(map[int64]models.SimpleBoard),
		memberships:    make(map[int64]models.UserBoard),
		lists:          make(map[int64]models.SimpleList),
		cards:          make(map[int64]models.Card),
		nextUser:       1,
		nextBoard:      1,
		nextMembership: 1,
		nextList:       1,
		nextCard:       1,
	}
}

// sortedValues returns the map values ordered by key.
func sortedValues[V any](m map[int64]V) []V {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (s *Store) CreateUser(_ context.Context, token, name, email, password string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// tokens are unique like emails; a clash reports the same error the SQL
	// schema does
	for _, u := range s.users {
		if u.Email == email || u.Token == token {
			return 0, common.ErrEmailAlreadyExists
		}
	}

	id := s.nextUser
	s.nextUser++
	s.users[id] = models.User{ID: id, Name: name, Email: email, Token: token, Password: password}
	return id, nil
}

func (s *Store) LoginUser(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, common.ErrUserNotFound
}

func (s *Store) GetUserDetails(_ context.Context, id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, common.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) GetUsersFromBoard(_ context.Context, boardID int64, skip, limit int) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.memberIDs(boardID)
	ids = storage.Page(ids, skip, limit)

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, ok := s.users[id]
		if !ok {
			return nil, common.ErrUsersBoardDoesNotExist
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) CheckEmailAlreadyExists(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) GetAllAvailableUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.users), nil
}

func (s *Store) TokenToID(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, ok := s.tokenOwner(token); ok {
		return id, nil
	}
	return 0, common.ErrUserNotFound
}

func (s *Store) tokenOwner(token string) (int64, bool) {
	for _, u := range s.users {
		if u.Token == token {
			return u.ID, true
		}
	}
	return 0, false
}

// memberIDs returns the distinct user ids with a membership in boardID.
func (s *Store) memberIDs(boardID int64) []int64 {
	var ids []int64
	for _, m := range s.memberships {
		if m.BoardID == boardID && !slices.Contains(ids, m.UserID) {
			ids = append(ids, m.UserID)
		}
	}
	slices.Sort(ids)
	return ids
}

// boardIDs returns the distinct board ids userID is a member of.
func (s *Store) boardIDs(userID int64) []int64 {
	var ids []int64
	for _, m := range s.memberships {
		if m.UserID == userID && !slices.Contains(ids, m.BoardID) {
			ids = append(ids, m.BoardID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (s *Store) isMember(userID, boardID int64) bool {
	for _, m := range s.memberships {
		if m.UserID == userID && m.BoardID == boardID {
			return true
		}
	}
	return false
}

func (s *Store) CreateBoard(_ context.Context, userID int64, name, description string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return 0, common.ErrUserNotFound
	}
	for _, b := range s.boards {
		if b.Name == name {
			return 0, common.ErrBoardNameAlreadyExists
		}
	}

	id := s.nextBoard
	s.nextBoard++
	s.boards[id] = models.SimpleBoard{ID: id, Name: name, Description: description}
	s.addMembership(userID, id)
	return id, nil
}

func (s *Store) addMembership(userID, boardID int64) {
	id := s.nextMembership
	s.nextMembership++
	s.memberships[id] = models.UserBoard{ID: id, UserID: userID, BoardID: boardID}
}

func (s *Store) GetBoardDetails(_ context.Context, id int64) (models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[id]
	if !ok {
		return models.Board{}, common.ErrBoardNotFound
	}
	return s.boardWithLists(b), nil
}

func (s *Store) boardWithLists(b models.SimpleBoard) models.Board {
	lists := []int64{}
	for _, l := range s.lists {
		if l.BoardID == b.ID {
			lists = append(lists, l.ID)
		}
	}
	slices.Sort(lists)
	return models.Board{ID: b.ID, Name: b.Name, Description: b.Description, Lists: lists}
}

func (s *Store) AddUserToBoard(_ context.Context, userID, boardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return common.ErrUserNotFound
	}
	if _, ok := s.boards[boardID]; !ok {
		return common.ErrBoardNotFound
	}
	s.addMembership(userID, boardID)
	return nil
}

func (s *Store) GetBoardsFromUser(ctx context.Context, userID int64, skip, limit int) ([]models.Board, error) {
	return s.SearchBoardsFromUser(ctx, userID, skip, limit, "")
}

func (s *Store) SearchBoardsFromUser(_ context.Context, userID int64, skip, limit int, query string) ([]models.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)

	// membership first, then name; dangling ids stay in so they surface below
	var matched []int64
	for _, id := range s.boardIDs(userID) {
		b, ok := s.boards[id]
		if !ok || strings.Contains(strings.ToLower(b.Name), q) {
			matched = append(matched, id)
		}
	}
	matched = storage.Page(matched, skip, limit)

	out := make([]models.Board, 0, len(matched))
	for _, id := range matched {
		b, ok := s.boards[id]
		if !ok {
			return nil, common.ErrBoardsUserDoesNotExist
		}
		out = append(out, s.boardWithLists(b))
	}
	return out, nil
}

func (s *Store) CheckUserAlreadyExistsInBoard(_ context.Context, userID, boardID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.isMember(userID, boardID), nil
}

func (s *Store) CheckUserTokenExistsInBoard(_ context.Context, token string, boardID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokenOwner(token)
	if !ok {
		return false, nil
	}
	return s.isMember(id, boardID), nil
}

func (s *Store) CheckBoardExists(_ context.Context, boardID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.boards[boardID]
	return ok, nil
}

func (s *Store) CheckBoardNameAlreadyExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.boards {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateList(_ context.Context, boardID int64, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[boardID]; !ok {
		return 0, common.ErrBoardNotFound
	}
	if s.listNameTaken(boardID, name) {
		return 0, common.ErrListNameAlreadyExistsInBoard
	}

	id := s.nextList
	s.nextList++
	s.lists[id] = models.SimpleList{ID: id, BoardID: boardID, Name: name}
	return id, nil
}

func (s *Store) listNameTaken(boardID int64, name string) bool {
	for _, l := range s.lists {
		if l.BoardID == boardID && l.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) GetListsFromBoard(_ context.Context, boardID int64, skip, limit int) ([]models.TaskList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var lists []models.SimpleList
	for _, l := range sortedValues(s.lists) {
		if l.BoardID == boardID {
			lists = append(lists, l)
		}
	}
	lists = storage.Page(lists, skip, limit)

	out := make([]models.TaskList, 0, len(lists))
	for _, l := range lists {
		out = append(out, s.listWithCards(l))
	}
	return out, nil
}

func (s *Store) listWithCards(l models.SimpleList) models.TaskList {
	cards := []int64{}
	for _, c := range s.cards {
		if c.ListID == l.ID {
			cards = append(cards, c.ID)
		}
	}
	slices.Sort(cards)
	return models.TaskList{ID: l.ID, BoardID: l.BoardID, Name: l.Name, Cards: cards}
}

func (s *Store) GetListDetails(_ context.Context, id int64) (models.TaskList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[id]
	if !ok {
		return models.TaskList{}, common.ErrListNotFound
	}
	return s.listWithCards(l), nil
}

func (s *Store) CheckListAlreadyExistsInBoard(_ context.Context, boardID int64, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listNameTaken(boardID, name), nil
}

func (s *Store) DeleteList(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lists[id]; !ok {
		return common.ErrListNotFound
	}
	for cid, c := range s.cards {
		if c.ListID == id {
			delete(s.cards, cid)
		}
	}
	delete(s.lists, id)
	return nil
}

func (s *Store) cardNameTaken(listID int64, name string, except int64) bool {
	for _, c := range s.cards {
		if c.ListID == listID && c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}

func (s *Store) CreateCard(_ context.Context, listID int64, name, description string, initDate, dueDate time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[listID]
	if !ok {
		return 0, common.ErrListNotFound
	}
	if s.cardNameTaken(listID, name, 0) {
		return 0, common.ErrCardNameAlreadyExists
	}

	id := s.nextCard
	s.nextCard++
	s.cards[id] = models.Card{
		ID:          id,
		BoardID:     l.BoardID,
		ListID:      listID,
		Name:        name,
		Description: description,
		InitDate:    models.Date(initDate),
		DueDate:     models.Date(dueDate),
	}
	return id, nil
}

func (s *Store) GetCardsFromList(_ context.Context, listID, boardID int64, skip, limit int) ([]models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Card{}
	for _, c := range sortedValues(s.cards) {
		if c.ListID == listID && c.BoardID == boardID {
			out = append(out, c)
		}
	}
	return storage.Page(out, skip, limit), nil
}

func (s *Store) GetCardDetails(_ context.Context, id int64) (models.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return models.Card{}, common.ErrCardNotFound
	}
	return c, nil
}

func (s *Store) MoveCard(_ context.Context, cardID, listID int64, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardID]
	if !ok {
		return common.ErrCardNotFound
	}
	l, ok := s.lists[listID]
	if !ok {
		return common.ErrListNotFound
	}
	if s.cardNameTaken(listID, c.Name, c.ID) {
		return common.ErrCardNameAlreadyExists
	}

	c.ListID = l.ID
	c.BoardID = l.BoardID
	s.cards[cardID] = c
	return nil
}

func (s *Store) DeleteCard(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return common.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}
