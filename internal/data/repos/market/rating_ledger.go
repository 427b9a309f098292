package market

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type RatingLedger interface {
	ListForSupplier(dbc dbctx.Context, supplierID uuid.UUID) ([]*types.Rating, error)
}

type ratingLedger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingLedger(db *gorm.DB, baseLog *logger.Logger) RatingLedger {
	return &ratingLedger{db: db, log: baseLog.With("repo", "RatingLedger")}
}

func (l *ratingLedger) ListForSupplier(dbc dbctx.Context, supplierID uuid.UUID) ([]*types.Rating, error) {
	var out []*types.Rating
	if supplierID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Conn(l.db).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
