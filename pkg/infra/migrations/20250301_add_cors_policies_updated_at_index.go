package migrations

import (
	"github.com/NeuralTrust/CorsGate/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250301_add_cors_policies_updated_at_index",
		Name: "Index cors_policies by updated_at for admin listing",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_cors_policies_updated_at
				ON cors_policies (updated_at DESC);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_cors_policies_updated_at;`).Error
		},
	})
}
