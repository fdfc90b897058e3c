package httpapi

import (
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

const dateLayout = "2006-01-02"

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsResponse struct {
	ID    int64  `json:"id"`
	Token string `json:"token"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type usersResponse struct {
	Users []userDTO `json:"users"`
}

type createBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addUserRequest struct {
	ID *int64 `json:"id"`
}

type simpleBoardDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type boardDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lists       []int64 `json:"lists"`
}

type boardsResponse struct {
	Boards []simpleBoardDTO `json:"boards"`
}

type createListRequest struct {
	Name string `json:"name"`
}

type simpleListDTO struct {
	ID      int64  `json:"id"`
	BoardID int64  `json:"bid"`
	Name    string `json:"name"`
}

type listDTO struct {
	ID      int64   `json:"id"`
	BoardID int64   `json:"bid"`
	Name    string  `json:"name"`
	Cards   []int64 `json:"cards"`
}

type listsResponse struct {
	Lists []simpleListDTO `json:"lists"`
}

type createCardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

type moveCardRequest struct {
	ListID   *int64 `json:"lid"`
	Position *int   `json:"cix"`
}

type cardDTO struct {
	ID          int64  `json:"id"`
	BoardID     int64  `json:"bid"`
	ListID      int64  `json:"lid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InitDate    string `json:"initDate"`
	DueDate     string `json:"dueDate"`
}

type cardsResponse struct {
	Cards []cardDTO `json:"cards"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toUserDTO(u models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toUsersResponse(us []models.User) usersResponse {
	out := usersResponse{Users: make([]userDTO, 0, len(us))}
	for _, u := range us {
		out.Users = append(out.Users, toUserDTO(u))
	}
	return out
}

func toBoardDTO(b models.Board) boardDTO {
	lists := b.Lists
	if lists == nil {
		lists = []int64{}
	}
	return boardDTO{ID: b.ID, Name: b.Name, Description: b.Description, Lists: lists}
}

func toBoardsResponse(bs []models.Board) boardsResponse {
	out := boardsResponse{Boards: make([]simpleBoardDTO, 0, len(bs))}
	for _, b := range bs {
		s := b.Simple()
		out.Boards = append(out.Boards, simpleBoardDTO{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	return out
}

func toListDTO(l models.TaskList) listDTO {
	cards := l.Cards
	if cards == nil {
		cards = []int64{}
	}
	return listDTO{ID: l.ID, BoardID: l.BoardID, Name: l.Name, Cards: cards}
}

func toListsResponse(ls []models.TaskList) listsResponse {
	out := listsResponse{Lists: make([]simpleListDTO, 0, len(ls))}
	for _, l := range ls {
		s := l.Simple()
		out.Lists = append(out.Lists, simpleListDTO{ID: s.ID, BoardID: s.BoardID, Name: s.Name})
	}
	return out
}

func toCardDTO(c models.Card) cardDTO {
	return cardDTO{
		ID:          c.ID,
		BoardID:     c.BoardID,
		ListID:      c.ListID,
		Name:        c.Name,
		Description: c.Description,
		InitDate:    c.InitDate.Format(dateLayout),
		DueDate:     c.DueDate.Format(dateLayout),
	}
}

func toCardsResponse(cs []models.Card) cardsResponse {
	out := cardsResponse{Cards: make([]cardDTO, 0, len(cs))}
	for _, c := range cs {
		out.Cards = append(out.Cards, toCardDTO(c))
	}
	return out
}
