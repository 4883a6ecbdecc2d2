package main

import (
	"context"
	stdlog "log"
	"os/signal"
	"syscall"

	"github.com/markdave123-py/Appcraft/internal/app"
	"github.com/markdave123-py/Appcraft/internal/config"
	"github.com/markdave123-py/Appcraft/internal/logger"
)

func main() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	application, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer application.Close()

	log.Info("appcraft is running", "port", cfg.Port, "env", cfg.Environment)
	if err := application.Run(ctx); err != nil {
		log.Error("server stopped", "error", err)
	}
	log.Info("shut down complete")
}
