package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskboard/internal/common"
)

func cardArgs(r *http.Request) (string, int64, error) {
	cid, err := pathID(r, "cid", common.ErrInvalidCardID)
	if err != nil {
		return "", 0, err
	}
	tok, err := token(r)
	if err != nil {
		return "", 0, err
	}
	return tok, cid, nil
}

func (a *api) createCard(w http.ResponseWriter, r *http.Request) {
	tok, lid, err := listArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req createCardRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	due, err := time.ParseInLocation(dateLayout, req.DueDate, time.UTC)
	if err != nil {
		a.writeError(w, r, common.ErrInvalidDate)
		return
	}
	id, err := a.svc.Cards.Create(r.Context(), tok, lid, req.Name, req.Description, due)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeCreated(w, fmt.Sprintf("/cards/%d", id), idResponse{ID: id})
}

func (a *api) listCards(w http.ResponseWriter, r *http.Request) {
	tok, lid, err := listArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	skip, limit, err := a.paging(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	cards, err := a.svc.Cards.OfList(r.Context(), tok, lid, skip, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardsResponse(cards))
}

func (a *api) cardDetails(w http.ResponseWriter, r *http.Request) {
	tok, cid, err := cardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	c, err := a.svc.Cards.Details(r.Context(), tok, cid)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardDTO(c))
}

func (a *api) deleteCard(w http.ResponseWriter, r *http.Request) {
	tok, cid, err := cardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.svc.Cards.Delete(r.Context(), tok, cid); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}

func (a *api) moveCard(w http.ResponseWriter, r *http.Request) {
	tok, cid, err := cardArgs(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	var req moveCardRequest
	if err := readJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.ListID == nil || req.Position == nil {
		a.writeError(w, r, common.ErrInvalidBody)
		return
	}
	if *req.ListID < 0 {
		a.writeError(w, r, common.ErrInvalidListID)
		return
	}
	if err := a.svc.Cards.Move(r.Context(), tok, cid, *req.ListID, *req.Position); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
}
