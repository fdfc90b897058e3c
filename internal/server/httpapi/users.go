package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

func (a *api) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	creds, err := a.svc.Users.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/users/%d", creds.ID), credentialsResponse{ID: creds.ID, Token: creds.Token})
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	creds, err := a.svc.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, credentialsResponse{ID: creds.ID, Token: creds.Token})
}

func (a *api) allUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.svc.Users.All(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUsersResponse(users))
}

func (a *api) userDetails(w http.ResponseWriter, r *http.Request) {
	uid, err := pathID(r, "uid", common.ErrInvalidUserID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	u, err := a.svc.Users.Details(r.Context(), uid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

func (a *api) userBoards(w http.ResponseWriter, r *http.Request) {
	tok, uid, skip, limit, err := a.userPageArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	boards, err := a.svc.Users.Boards(r.Context(), tok, uid, skip, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardsResponse(boards))
}

func (a *api) searchBoards(w http.ResponseWriter, r *http.Request) {
	tok, uid, skip, limit, err := a.userPageArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	boards, err := a.svc.Users.SearchBoards(r.Context(), tok, uid, skip, limit, r.URL.Query().Get("q"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardsResponse(boards))
}

// userPageArgs parses the user id, the bearer token and the paging window,
// in that order.
func (a *api) userPageArgs(r *http.Request) (tok string, uid int64, skip, limit int, err error) {
	if uid, err = pathID(r, "uid", common.ErrInvalidUserID); err != nil {
		return
	}
	if tok, err = token(r); err != nil {
		return
	}
	skip, limit, err = a.paging(r)
	return
}
