package app

import (
	"context"
	"fmt"
	"time"

	"github.com/markdave123-py/Appcraft/internal/config"
	"github.com/markdave123-py/Appcraft/internal/core"
	db "github.com/markdave123-py/Appcraft/internal/core/database"
	"github.com/markdave123-py/Appcraft/internal/core/generation"
	"github.com/markdave123-py/Appcraft/internal/core/llm"
	objectclient "github.com/markdave123-py/Appcraft/internal/core/object-client"
	"github.com/markdave123-py/Appcraft/internal/core/preview"
	"github.com/markdave123-py/Appcraft/internal/core/projectstore"
	"github.com/markdave123-py/Appcraft/internal/core/sessions"
	"github.com/markdave123-py/Appcraft/internal/core/workspace"
	"github.com/markdave123-py/Appcraft/internal/logger"
	"github.com/markdave123-py/Appcraft/internal/services"
)

const shutdownGrace = 15 * time.Second

type App struct {
	cfg      *config.Config
	log      *logger.Logger
	users    core.UserStore
	gemini   *llm.GeminiLLM
	sessions *sessions.Tracker
	Server   *Server
}

// NewApp wires every collaborator. Missing optional collaborators (Gemini
// key, database, object storage, workspace) degrade instead of failing.
func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	users, err := db.NewUserStore(appCtx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("user store: %w", err)
	}
	a := &App{cfg: cfg, log: log, users: users}

	var provider core.LLMProvider
	if cfg.AIAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, serving fallback templates only")
	} else {
		gemini, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			log.Warn("gemini client unavailable, serving fallback templates only", "error", err)
		} else {
			a.gemini = gemini
			provider = gemini
		}
	}

	var mirror services.Mirror
	if cfg.WorkspaceRoot != "" {
		ws, err := workspace.New(cfg.WorkspaceRoot, log)
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Info("mirroring projects to workspace", "root", ws.Root())
		mirror = ws
	}

	var objects core.ObjectClient
	if cfg.HasObjectStorage() {
		s3Client, err := objectclient.NewS3Client(appCtx, cfg, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		objects = s3Client
	} else {
		log.Warn("object storage not configured, project export disabled")
	}

	store := projectstore.New(log)
	a.sessions = sessions.NewTracker(cfg.SessionMaxIdle, log)
	orchestrator := generation.NewOrchestrator(provider, store, log,
		generation.WithTimeout(cfg.GenerationTimeout),
		generation.WithMaxHistory(cfg.MaxHistoryTurns),
	)

	a.Server = NewServer(cfg, Deps{
		Users:     services.NewUserService(users, cfg.JWTSecret),
		Chat:      services.NewChatService(a.sessions, orchestrator, mirror, log),
		Projects:  services.NewProjectService(store),
		Exports:   services.NewExportService(store, objects, cfg.BucketName, log),
		Responder: preview.NewResponder(store, log),
		Generator: orchestrator,
	}, log)

	return a, nil
}

// Run serves HTTP and sweeps idle sessions until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sessions.Run(sweepCtx, a.cfg.SessionSweepInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a.users != nil {
		_ = a.users.Close()
	}
	if a.gemini != nil {
		_ = a.gemini.Close()
	}
}
