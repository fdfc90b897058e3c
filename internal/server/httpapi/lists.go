package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

// listArgs parses the list id and the bearer token.
func listArgs(r *http.Request) (string, int64, error) {
	lid, err := pathID(r, "lid", common.ErrInvalidListID)
	if err != nil {
		return "", 0, err
	}
	tok, err := token(r)
	if err != nil {
		return "", 0, err
	}
	return tok, lid, nil
}

func (a *api) listDetails(w http.ResponseWriter, r *http.Request) {
	tok, lid, err := listArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	l, err := a.svc.Lists.Details(r.Context(), tok, lid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(l))
}

func (a *api) deleteList(w http.ResponseWriter, r *http.Request) {
	tok, lid, err := listArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.svc.Lists.Delete(r.Context(), tok, lid); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}
