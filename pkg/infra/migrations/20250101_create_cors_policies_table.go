package migrations

import (
	"github.com/NeuralTrust/CorsGate/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250101_create_cors_policies_table",
		Name: "Create cors_policies table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS cors_policies (
					id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name              TEXT NOT NULL,
					slug              TEXT NOT NULL UNIQUE,
					path_pattern      TEXT NOT NULL UNIQUE,
					allowed_origins   TEXT[],
					allowed_methods   TEXT[],
					allowed_headers   TEXT[],
					exposed_headers   TEXT[],
					allow_credentials BOOLEAN,
					max_age_seconds   INTEGER CHECK (max_age_seconds IS NULL OR max_age_seconds >= 0),
					enabled           BOOLEAN NOT NULL DEFAULT TRUE,
					created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			// reloads only read enabled rows
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_cors_policies_enabled
				ON cors_policies (enabled) WHERE enabled;
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS cors_policies;`).Error
		},
	})
}
