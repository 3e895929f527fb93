// Package httpserver exposes the question and answer services over HTTP.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/service"
)

// TokenVerifier validates a session token and returns its session.
type TokenVerifier interface {
	Verify(raw string) (model.Session, error)
}

// Pinger reports store health; nil means always healthy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the services into a router.
type Server struct {
	questions service.QuestionService
	answers   service.AnswerService
	auth      service.AuthService
	tokens    TokenVerifier
	health    Pinger
	log       *zap.Logger
	timeout   time.Duration
}

// Options carries optional server settings.
type Options struct {
	// RequestTimeout bounds every request; zero disables the deadline.
	RequestTimeout time.Duration
	// Health is pinged by GET /health.
	Health Pinger
}

// New constructs a Server. A nil logger is replaced with a no-op one.
func New(
	questions service.QuestionService,
	answers service.AnswerService,
	auth service.AuthService,
	tokens TokenVerifier,
	log *zap.Logger,
	opts Options,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		questions: questions,
		answers:   answers,
		auth:      auth,
		tokens:    tokens,
		health:    opts.Health,
		log:       log,
		timeout:   opts.RequestTimeout,
	}
}

// Router registers every route without the middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/questions", s.handleGetQuestions).Methods(http.MethodGet)
	r.Handle("/questions", s.requireAuth(s.handleAddQuestion)).Methods(http.MethodPost)
	r.HandleFunc("/questions/{id:[0-9]+}", s.handleGetQuestion).Methods(http.MethodGet)
	r.Handle("/questions/{id:[0-9]+}", s.requireAuth(s.handleUpdateQuestion)).Methods(http.MethodPut)
	r.Handle("/questions/{id:[0-9]+}", s.requireAuth(s.handleDeleteQuestion)).Methods(http.MethodDelete)

	r.HandleFunc("/questions/{id:[0-9]+}/answers", s.handleGetAnswers).Methods(http.MethodGet)
	r.Handle("/questions/{id:[0-9]+}/answers", s.requireAuth(s.handleAddAnswer)).Methods(http.MethodPost)
	r.Handle("/answers/{id:[0-9]+}", s.requireAuth(s.handleUpdateAnswer)).Methods(http.MethodPut)
	r.Handle("/answers/{id:[0-9]+}", s.requireAuth(s.handleDeleteAnswer)).Methods(http.MethodDelete)

	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	return r
}

// Handler returns the router wrapped in CORS, access logging, panic recovery
// and the per-request deadline.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router()
	h = s.deadline(h)
	h = s.recoverer(h)
	h = s.logging(h)
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		}),
		handlers.ExposedHeaders([]string{"X-Request-Id"}),
	)(h)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.log.Warn("health check failed", zap.Error(err))
			respondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID[K any](r *http.Request) (model.ID[K], error) {
	return model.ParseID[K](mux.Vars(r)["id"])
}
