// Package httpapi exposes the task board services over HTTP/JSON.
//
// Failures are rendered as {code, name, description} with a status derived
// from the error kind: not found 404, duplicates 409, malformed input 400,
// missing authentication 401, access violations 403, anything else 500.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultLimit is the page size used when a request has no limit parameter
// and none is configured.
const DefaultLimit = 25

type api struct {
	svc          *services.Services
	log          logging.Logger
	metrics      *Metrics
	defaultLimit int
}

// NewRouter builds the chi router serving every route of the API plus
// /health and /metrics.
func NewRouter(svc *services.Services, log logging.Logger, m *Metrics, defaultLimit int) http.Handler {
	if log == nil {
		log = logging.NopLogger{}
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	a := &api{svc: svc, log: log.With("module", "http"), metrics: m, defaultLimit: defaultLimit}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(a.log))
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "OK"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Post("/", a.createUser)
		r.Get("/", a.allUsers)
		r.Post("/login", a.login)
		r.Route("/{uid}", func(r chi.Router) {
			r.Get("/", a.userDetails)
			r.Get("/boards", a.userBoards)
			r.Get("/boards/search", a.searchBoards)
		})
	})

	r.Route("/boards", func(r chi.Router) {
		r.Post("/", a.createBoard)
		r.Route("/{bid}", func(r chi.Router) {
			r.Get("/", a.boardDetails)
			r.Post("/users", a.addUserToBoard)
			r.Get("/users", a.boardUsers)
			r.Post("/lists", a.createList)
			r.Get("/lists", a.boardLists)
		})
	})

	r.Route("/lists/{lid}", func(r chi.Router) {
		r.Get("/", a.listDetails)
		r.Delete("/", a.deleteList)
		r.Post("/cards", a.createCard)
		r.Get("/cards", a.listCards)
	})

	r.Route("/cards/{cid}", func(r chi.Router) {
		r.Get("/", a.cardDetails)
		r.Delete("/", a.deleteCard)
		r.Put("/move", a.moveCard)
	})

	return r
}
