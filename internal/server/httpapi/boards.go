package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

func (a *api) createBoard(w http.ResponseWriter, r *http.Request) {
	tok, err := token(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req createBoardRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	id, err := a.svc.Boards.Create(r.Context(), tok, req.Name, req.Description)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/boards/%d", id), idResponse{ID: id})
}

// boardArgs parses the board id and the bearer token.
func boardArgs(r *http.Request) (string, int64, error) {
	bid, err := pathID(r, "bid", common.ErrInvalidBoardID)
	if err != nil {
		return "", 0, err
	}
	tok, err := token(r)
	if err != nil {
		return "", 0, err
	}
	return tok, bid, nil
}

func (a *api) boardDetails(w http.ResponseWriter, r *http.Request) {
	tok, bid, err := boardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	b, err := a.svc.Boards.Details(r.Context(), tok, bid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardDTO(b))
}

func (a *api) addUserToBoard(w http.ResponseWriter, r *http.Request) {
	tok, bid, err := boardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req addUserRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.ID == nil {
		a.writeError(w, r, common.ErrInvalidBody)
		return
	}
	if *req.ID < 0 {
		a.writeError(w, r, common.ErrInvalidUserID)
		return
	}
	if err := a.svc.Boards.AddUser(r.Context(), tok, bid, *req.ID); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

func (a *api) boardUsers(w http.ResponseWriter, r *http.Request) {
	tok, bid, err := boardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	skip, limit, err := a.paging(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	users, err := a.svc.Boards.Users(r.Context(), tok, bid, skip, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsersResponse(users))
}

func (a *api) createList(w http.ResponseWriter, r *http.Request) {
	tok, bid, err := boardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req createListRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	id, err := a.svc.Lists.Create(r.Context(), tok, bid, req.Name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/lists/%d", id), idResponse{ID: id})
}

func (a *api) boardLists(w http.ResponseWriter, r *http.Request) {
	tok, bid, err := boardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	skip, limit, err := a.paging(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	lists, err := a.svc.Lists.OfBoard(r.Context(), tok, bid, skip, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListsResponse(lists))
}
