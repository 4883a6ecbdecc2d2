// Package db holds the user persistence backends.
package db

import (
	"context"

	"github.com/markdave123-py/Appcraft/internal/config"
	"github.com/markdave123-py/Appcraft/internal/core"
	"github.com/markdave123-py/Appcraft/internal/logger"
)

// NewUserStore picks the single persistence strategy for users: Postgres when
// DATABASE_URL is set, process memory otherwise.
func NewUserStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (core.UserStore, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, users are kept in memory")
		return NewMemoryClient(), nil
	}
	client, err := NewDatabaseClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to postgres")
	return client, nil
}
