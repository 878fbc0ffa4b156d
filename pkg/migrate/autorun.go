package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// MaybeRun applies pending migrations on boot when BAZAAR_AUTO_MIGRATE is set and
// the relational store is in use. Mongo deployments create indexes instead.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate || cfg.Store.Driver != config.StoreDriverPostgres {
		return nil
	}
	if client == nil {
		return fmt.Errorf("db client required for auto-migrate")
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "migrate.auto.start")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.auto.done")
	return nil
}
