package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	sessionx "github.com/calendon/schedpilot/agent/session"
)

type Config struct {
	Host           string        `envconfig:"HOST" split_words:"true" default:"0.0.0.0"`
	Port           int           `envconfig:"PORT" split_words:"true" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"120s"`
}

// Authenticator is the OAuth surface the auth routes operate on.
type Authenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) error
	IsAuthenticated() bool
	Logout() error
}

// ModelCatalog fetches the model ids available upstream.
type ModelCatalog func(ctx context.Context) ([]string, error)

// Server exposes the assistant over HTTP: a chat endpoint backed by the
// session store, and the Google OAuth flow endpoints.
type Server struct {
	cfg        Config
	logger     zerolog.Logger
	store      *sessionx.Store
	auth       Authenticator
	onLogout   func()
	models     ModelCatalog
	router     chi.Router
	httpServer *http.Server
}

type Option func(*Server)

// WithLogoutHook runs after a successful logout, e.g. to drop cached
// Google API clients.
func WithLogoutHook(fn func()) Option {
	return func(s *Server) {
		s.onLogout = fn
	}
}

// WithModelCatalog enables GET /api/models, serving the upstream model ids
// as a connectivity check.
func WithModelCatalog(fn ModelCatalog) Option {
	return func(s *Server) {
		s.models = fn
	}
}

func New(cfg Config, store *sessionx.Store, auth Authenticator, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		auth:   auth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	s.router = router
	s.configureRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/status", s.handleAuthStatus)
		r.Get("/login", s.handleAuthLogin)
		r.Get("/callback", s.handleAuthCallback)
		r.Post("/logout", s.handleAuthLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/chat/reset", s.handleChatReset)
		r.Get("/sessions", s.handleSessions)
		if s.models != nil {
			r.Get("/models", s.handleModels)
		}
	})
}
