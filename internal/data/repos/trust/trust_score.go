package trust

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

type TrustScoreRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error)
	// LockForWrite makes sure userID has a row and locks it until the
	// surrounding transaction ends. created reports that the row was inserted
	// by this call; its values are placeholders the caller must overwrite.
	LockForWrite(dbc dbctx.Context, userID uuid.UUID) (row *types.TrustScore, created bool, err error)
	// Save overwrites every column of an existing row.
	Save(dbc dbctx.Context, row *types.TrustScore) error
	// List returns scores ordered current_score DESC, user_id ASC. An empty role
	// lists everyone; limit <= 0 means no limit.
	List(dbc dbctx.Context, role types.Role, limit int) ([]*types.TrustScore, error)
}

type trustScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrustScoreRepo(db *gorm.DB, baseLog *logger.Logger) TrustScoreRepo {
	return &trustScoreRepo{db: db, log: baseLog.With("repo", "TrustScoreRepo")}
}

// GetByUserID returns nil, nil when the user has no score yet.
func (r *trustScoreRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.TrustScore
	if err := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *trustScoreRepo) LockForWrite(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, bool, error) {
	if userID == uuid.Nil {
		return nil, false, fmt.Errorf("user id required")
	}
	res := dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&types.TrustScore{UserID: userID})
	if res.Error != nil {
		return nil, false, res.Error
	}
	var row types.TrustScore
	if err := dbc.Conn(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&row).Error; err != nil {
		return nil, false, err
	}
	return &row, res.RowsAffected == 1, nil
}

func (r *trustScoreRepo) Save(dbc dbctx.Context, row *types.TrustScore) error {
	if row == nil || row.UserID == uuid.Nil {
		return nil
	}
	res := dbc.Conn(r.db).
		Model(&types.TrustScore{}).
		Where("user_id = ?", row.UserID).
		Select("*").
		Updates(row)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("trust score for user %s: %w", row.UserID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *trustScoreRepo) List(dbc dbctx.Context, role types.Role, limit int) ([]*types.TrustScore, error) {
	var out []*types.TrustScore
	q := dbc.Conn(r.db).
		Model(&types.TrustScore{}).
		Select("trust_score.*").
		Joins("JOIN app_user ON app_user.id = trust_score.user_id AND app_user.deleted_at IS NULL")
	if role != "" {
		q = q.Where("app_user.role = ?", role)
	}
	q = q.Order("trust_score.current_score DESC").Order("trust_score.user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
