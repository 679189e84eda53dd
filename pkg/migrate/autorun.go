package migrate

import (
	"context"
	"fmt"

	"github.com/luxurystrandhaven/storefront-backend/pkg/config"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db"
	"github.com/luxurystrandhaven/storefront-backend/pkg/db/models"
	"github.com/luxurystrandhaven/storefront-backend/pkg/logger"
)

// MaybeRunDev applies the schema automatically in dev when the feature flag
// is set. SQLite databases are built from the models since the SQL files
// target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir, "driver": cfg.DB.Driver}
	ctx = logg.WithFields(ctx, meta)

	if cfg.DB.Driver == config.DriverSQLite {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := AutoMigrateModels(ctx, client); err != nil {
			return fmt.Errorf("auto-migrating models: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	current, pending, err := Pending(sqlDB, DefaultDir)
	if err != nil {
		return fmt.Errorf("checking pending migrations: %w", err)
	}
	ctx = logg.WithFields(ctx, map[string]any{"db_version": current, "pending": pending})
	if pending == 0 {
		logg.Info(ctx, "schema up to date")
		return nil
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates the catalog tables through GORM.
func AutoMigrateModels(ctx context.Context, client *db.Client) error {
	return client.DB().WithContext(ctx).AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.ProductImage{},
		&models.SiteSetting{},
	)
}
