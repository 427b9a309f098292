package trust

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

// TrustScoreHistoryRepo is append-only; there is deliberately no update or delete.
type TrustScoreHistoryRepo interface {
	Append(dbc dbctx.Context, row *types.TrustScoreHistory) error
	ListByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TrustScoreHistory, error)
}

type trustScoreHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrustScoreHistoryRepo(db *gorm.DB, baseLog *logger.Logger) TrustScoreHistoryRepo {
	return &trustScoreHistoryRepo{db: db, log: baseLog.With("repo", "TrustScoreHistoryRepo")}
}

func (r *trustScoreHistoryRepo) Append(dbc dbctx.Context, row *types.TrustScoreHistory) error {
	if row == nil {
		return nil
	}
	return dbc.Conn(r.db).Create(row).Error
}

// ListByUserID returns newest first. limit <= 0 returns everything.
func (r *trustScoreHistoryRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TrustScoreHistory, error) {
	var out []*types.TrustScoreHistory
	if userID == uuid.Nil {
		return out, nil
	}
	q := dbc.Conn(r.db).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
