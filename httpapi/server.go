package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/tasknest/tasknest/auth"
	"github.com/tasknest/tasknest/core"
	"github.com/tasknest/tasknest/planner"
	"github.com/tasknest/tasknest/search"
	"github.com/tasknest/tasknest/storage"
	"github.com/tasknest/tasknest/tasks"
)

// errBadRequest marks client errors raised inside handlers, such as
// unparseable bodies or path parameters.
var errBadRequest = errors.New("bad request")

// errOwnerMismatch is raised when a request body names an owner other than
// the token identity.
var errOwnerMismatch = errors.New("owner does not match authenticated user")

// Server holds the HTTP layer's dependencies.
type Server struct {
	tasks    *tasks.Service
	searcher *search.Searcher
	planner  *planner.Planner
	users    storage.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithTokenTTL sets the lifetime of issued tokens.
// Default is auth.DefaultTokenTTL.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) error {
		s.tokenTTL = ttl
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP layer.
func NewServer(
	taskService *tasks.Service,
	searcher *search.Searcher,
	taskPlanner *planner.Planner,
	users storage.UserRepository,
	secret []byte,
	opts ...Option,
) (*Server, error) {
	if len(secret) == 0 {
		return nil, auth.ErrSecretRequired
	}

	s := &Server{
		tasks:    taskService,
		searcher: searcher,
		planner:  taskPlanner,
		users:    users,
		secret:   secret,
		tokenTTL: auth.DefaultTokenTTL,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.logger = s.logger.With("component", "httpapi")

	return s, nil
}

// Handler builds the routing table. Everything under the authenticated
// subrouter reads its owner from the token; nothing else identifies the user.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := router.NewRoute().Subrouter()
	authed.Use(auth.NewMiddleware(s.secret).Wrap)

	authed.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}/status", s.handleUpdateStatus).Methods(http.MethodPatch)
	authed.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	authed.HandleFunc("/tasks/{id}/embedding", s.handleEmbedTask).Methods(http.MethodPost)

	authed.HandleFunc("/search", s.handleSearch).Methods(http.MethodPost)
	authed.HandleFunc("/embeddings", s.handleGenerateEmbedding).Methods(http.MethodPost)

	authed.HandleFunc("/tasks/{id}/subtasks/suggest", s.handleSuggestSubtasks).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id}/subtasks", s.handleSaveSubtasks).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id}/subtasks", s.handleListSubtasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}/subtasks/{subtaskId}", s.handleDeleteSubtask).Methods(http.MethodDelete)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (core.ID, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errBadRequest
	}
	return core.ID(id), nil
}

// owner reads the authenticated user from the request context.
func owner(r *http.Request) (core.ID, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0, auth.ErrInvalidToken
	}
	return userID, nil
}
