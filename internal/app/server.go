package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/markdave123-py/Appcraft/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/Appcraft/internal/api/middlewares"
	"github.com/markdave123-py/Appcraft/internal/config"
	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/services"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	Users     *services.UserService
	Chat      *services.ChatService
	Projects  *services.ProjectService
	Exports   *services.ExportService
	Responder *preview.Responder
	Generator handlers.GeneratorInfo
}

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, d Deps, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, d, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

func NewRouter(cfg *config.Config, d Deps, log *logger.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Users, log)
	chatHandler := handlers.NewChatHandler(d.Chat, log)
	previewHandler := handlers.NewPreviewHandler(d.Projects, d.Responder, log)
	projectHandler := handlers.NewProjectHandler(d.Exports, log)
	statusHandler := handlers.NewStatusHandler(d.Generator, d.Projects.Count, d.Chat.ActiveSessions)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appMiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", handlers.Healthz)

	// Preview pages are loaded in an iframe, so they stay outside /api.
	r.Get("/preview/{projectId}", previewHandler.ServePage)
	r.Get("/preview/{projectId}/*", previewHandler.ServeFile)

	requestTimeout := cfg.GenerationTimeout + 30*time.Second

	r.Route("/api", func(api chi.Router) {
		// SSE responses run without the request timeout; the generation
		// timeout bounds them instead.
		api.With(appMiddleware.OptionalJWT(cfg.JWTSecret)).Post("/chat/stream", chatHandler.ChatStream)

		api.Group(func(timed chi.Router) {
			timed.Use(middleware.Timeout(requestTimeout))

			// public endpoints
			timed.Post("/signup", authHandler.Signup)
			timed.Post("/login", authHandler.Login)
			timed.Get("/status", statusHandler.Status)

			timed.Post("/preview", previewHandler.Create)
			timed.Post("/preview/update", previewHandler.Create)
			timed.Post("/preview/stop", previewHandler.Stop)
			timed.Post("/preview/delete", previewHandler.Stop)
			timed.Get("/preview/debug", previewHandler.Debug)
			timed.Get("/project-files/{projectId}", previewHandler.ProjectFiles)
			timed.Get("/code-status/{projectId}", previewHandler.CodeStatus)

			timed.With(appMiddleware.OptionalJWT(cfg.JWTSecret)).Post("/chat", chatHandler.Chat)

			// protected endpoints
			timed.Group(func(protected chi.Router) {
				protected.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))
				protected.Get("/me", authHandler.Me)
				protected.Post("/projects/{projectId}/export", projectHandler.Export)
			})
		})
	})

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
