package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

type Server struct {
	router         *chi.Mux
	commandHandler *CommandHandler
	signingSecret  string
}

type Options func(*Server)

// WithSlackCommand mounts the slash-command endpoint behind signature
// verification
func WithSlackCommand(handler *CommandHandler, signingSecret string) Options {
	return func(s *Server) {
		s.commandHandler = handler
		s.signingSecret = signingSecret
	}
}

func New(opts ...Options) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.commandHandler != nil {
		if s.signingSecret == "" {
			return nil, goerr.New("signing secret is required for the Slack command endpoint")
		}
		s.router.Route("/hooks/slack", func(r chi.Router) {
			r.Use(SlackSignatureMiddleware(s.signingSecret))
			r.Post("/command", s.commandHandler.ServeHTTP)
		})
	}

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
