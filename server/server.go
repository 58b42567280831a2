// Package server implements an HTTP API over the expression engine and its
// exprstore persistence layer: named macro libraries, named variable
// environments, and an endpoint to compile-and-evaluate one expression
// against a persisted environment.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lucaspiller/exprscript/internal/exprstore"
	"golang.org/x/crypto/bcrypt"
)

// Server holds the dependencies needed to run the expression service.
type Server struct {
	db     exprstore.Store
	cfg    Config
	router chi.Router
}

// New builds a Server backed by db and configured per cfg. cfg should
// already have had FillDefaults and Validate called on it.
func New(cfg Config, db exprstore.Store) Server {
	srv := Server{db: db, cfg: cfg}
	srv.router = srv.routes()
	return srv
}

func (srv Server) Router() http.Handler {
	return srv.router
}

// ListenAndServe starts the HTTP server on cfg.Addr.
func (srv Server) ListenAndServe() error {
	return http.ListenAndServe(srv.cfg.Addr, srv.router)
}

func (srv Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/tokens", Endpoint(srv.httpPostToken))

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return RequireAuth([]byte(srv.cfg.TokenSecret), srv.cfg.UnauthDelay(), next)
		})

		r.Post("/libraries", Endpoint(srv.httpPostLibrary))
		r.Get("/libraries", Endpoint(srv.httpGetLibraries))
		r.Get("/libraries/{id}", Endpoint(srv.httpGetLibrary))

		r.Post("/environments", Endpoint(srv.httpPostEnvironment))
		r.Get("/environments/{id}", Endpoint(srv.httpGetEnvironment))
		r.Post("/environments/{id}/eval", Endpoint(srv.httpPostEval))
	})

	return r
}

func (srv Server) checkAPIKey(key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(srv.cfg.APIKeyHash), []byte(key))
	return err == nil
}
