package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Directory + ledgers (owned by collaborators, migrated for dev/test)
		// =========================
		&types.User{},
		&types.Order{},
		&types.Payment{},
		&types.Rating{},

		// =========================
		// Trust score
		// =========================
		&types.TrustScore{},
		&types.TrustScoreHistory{},
	); err != nil {
		return err
	}
	return EnsureTrustIndexes(db)
}

func EnsureTrustIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_trust_score_ranking ON trust_score(current_score DESC, user_id);`).Error; err != nil {
		return fmt.Errorf("create idx_trust_score_ranking: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_supplier_rating_supplier_created ON supplier_rating(supplier_id, created_at);`).Error; err != nil {
		return fmt.Errorf("create idx_supplier_rating_supplier_created: %w", err)
	}
	return nil
}
