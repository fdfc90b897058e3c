package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/server/auth"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeCreated(w http.ResponseWriter, location string, v any) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusCreated, v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(k common.Kind) int {
	switch k {
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindAlreadyExists:
		return http.StatusConflict
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindUnauthenticated:
		return http.StatusUnauthorized
	case common.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {code,name,description}. Errors outside the
// common catalogue are reported as a persistence failure without leaking the
// cause; the cause goes to the log instead.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := common.AsError(err)
	if !ok {
		e = common.ErrPersistence
	}
	status := http.StatusInternalServerError
	if ok {
		status = statusFor(e.Kind)
	}
	a.metrics.failure(e.Name)
	if status >= http.StatusInternalServerError {
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Code: e.Code, Name: e.Name, Description: e.Description})
}

// readJSON decodes the request body into v. An empty or malformed body is
// common.ErrInvalidBody.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", common.ErrInvalidBody)
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidBody, err)
	}
	return nil
}

// pathID parses the named chi URL parameter as a non-negative id.
func pathID(r *http.Request, name string, invalid error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 0 {
		return 0, invalid
	}
	return id, nil
}

// paging reads skip and limit from the query string. Absent values default
// to 0 and the configured limit. Negative values pass through so the
// service layer can reject them.
func (a *api) paging(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	skip, limit = 0, a.defaultLimit
	if v := q.Get("skip"); v != "" {
		if skip, err = strconv.Atoi(v); err != nil {
			return 0, 0, common.ErrInvalidPaging
		}
	}
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, common.ErrInvalidPaging
		}
	}
	return skip, limit, nil
}

// token extracts the bearer token. A missing header yields an empty token so
// the service layer reports common.ErrNoAuthentication.
func token(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}
	return auth.ParseBearer(h)
}
