package postgres

import (
	"context"
	"log/slog"

	"personjson/config"
	"personjson/internal/errors"
	"personjson/internal/infra/persistence/fixture"
	"personjson/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// PrepareSchema makes sure the persons table exists, the way the configured mode asks for.
func PrepareSchema(ctx context.Context, db *gorm.DB, logger *slog.Logger, mode string) error {
	switch mode {
	case config.SchemaNone:
		return nil
	case config.SchemaFixture, "":
		return fixture.NewRunner(db, logger).ApplySchema(ctx)
	case config.SchemaAutoMigrate:
		if err := db.WithContext(ctx).AutoMigrate(&model.PersonModel{}); err != nil {
			return errors.Wrap(err, "failed to migrate persons")
		}

		return nil
	default:
		return errors.Errorf("unknown schema mode %q", mode)
	}
}
