package services

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vendorconnect/vendorconnect-backend/internal/data/cache"
	"github.com/vendorconnect/vendorconnect-backend/internal/data/repos"
	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/trust"
	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/ctxutil"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/realtime"
	"github.com/vendorconnect/vendorconnect-backend/internal/realtime/bus"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 500

	ReasonInitialized    = "initialized"
	ReasonRecalculated   = "recalculated"
	ReasonBatch          = "batch recalculation"
	ReasonManualOverride = "manual override"
	ReasonFactorsUpdated = "factors updated"
)

// FactorUpdate is the input of UpdateFactors. Nil pointers leave the stored
// value alone.
type FactorUpdate struct {
	Recalculate  bool
	CurrentScore *float64
	Reason       string

	OnTimeDelivery         *float64
	CustomerRating         *float64
	PricingCompetitiveness *float64
	OrderFulfillment       *float64
	PaymentTimeliness      *float64
	OrderConsistency       *float64
	PlatformEngagement     *float64
}

func (u FactorUpdate) factorFields() map[string]*float64 {
	return map[string]*float64{
		"onTimeDelivery":         u.OnTimeDelivery,
		"customerRating":         u.CustomerRating,
		"pricingCompetitiveness": u.PricingCompetitiveness,
		"orderFulfillment":       u.OrderFulfillment,
		"paymentTimeliness":      u.PaymentTimeliness,
		"orderConsistency":       u.OrderConsistency,
		"platformEngagement":     u.PlatformEngagement,
	}
}

func (u FactorUpdate) validate() error {
	for name, v := range u.factorFields() {
		if v == nil {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", ErrValidation, name)
		}
	}
	if u.CurrentScore != nil && (math.IsNaN(*u.CurrentScore) || math.IsInf(*u.CurrentScore, 0)) {
		return fmt.Errorf("%w: currentScore must be a finite number", ErrValidation)
	}
	return nil
}

func (u FactorUpdate) applyTo(f *types.TrustFactors) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.OnTimeDelivery, u.OnTimeDelivery)
	set(&f.CustomerRating, u.CustomerRating)
	set(&f.PricingCompetitiveness, u.PricingCompetitiveness)
	set(&f.OrderFulfillment, u.OrderFulfillment)
	set(&f.PaymentTimeliness, u.PaymentTimeliness)
	set(&f.OrderConsistency, u.OrderConsistency)
	set(&f.PlatformEngagement, u.PlatformEngagement)
}

type RankingQuery struct {
	Role  types.Role
	Limit int
}

type BatchResult struct {
	Total         int         `json:"total"`
	Succeeded     int         `json:"succeeded"`
	Failed        int         `json:"failed"`
	FailedUserIDs []uuid.UUID `json:"failedUserIds"`
}

type TrustScoreOptions struct {
	// AllowScoreOverride lets UpdateFactors take a caller-supplied score.
	AllowScoreOverride bool
	BatchConcurrency   int
	Now                func() time.Time
}

type TrustScoreService interface {
	GetScore(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error)
	GetHistory(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TrustScoreHistory, error)
	Recalculate(dbc dbctx.Context, userID uuid.UUID) (float64, error)
	UpdateFactors(dbc dbctx.Context, userID uuid.UUID, update FactorUpdate) (*types.TrustScore, error)
	RecalculateUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (*types.TrustScore, error)
	GetRankings(dbc dbctx.Context, q RankingQuery) ([]types.RankingEntry, error)
	Initialize(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error)
	TriggerRecalculationForAll(dbc dbctx.Context) (BatchResult, error)
	RecalculateUsers(dbc dbctx.Context, userIDs []uuid.UUID) BatchResult
}

type trustScoreService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	orders   repos.OrderLedger
	payments repos.PaymentLedger
	ratings  repos.RatingLedger
	scores   repos.TrustScoreRepo
	history  repos.TrustScoreHistoryRepo
	rankings cache.RankingsCache
	events   bus.Bus
	metrics  *observability.Metrics

	allowOverride bool
	concurrency   int
	now           func() time.Time
}

func NewTrustScoreService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	orders repos.OrderLedger,
	payments repos.PaymentLedger,
	ratings repos.RatingLedger,
	scores repos.TrustScoreRepo,
	history repos.TrustScoreHistoryRepo,
	rankings cache.RankingsCache,
	events bus.Bus,
	metrics *observability.Metrics,
	opts TrustScoreOptions,
) TrustScoreService {
	if rankings == nil {
		rankings = cache.NewNoopRankingsCache()
	}
	if events == nil {
		events = bus.NewNoopBus()
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &trustScoreService{
		db:            db,
		log:           baseLog.With("service", "TrustScoreService"),
		users:         users,
		orders:        orders,
		payments:      payments,
		ratings:       ratings,
		scores:        scores,
		history:       history,
		rankings:      rankings,
		events:        events,
		metrics:       metrics,
		allowOverride: opts.AllowScoreOverride,
		concurrency:   opts.BatchConcurrency,
		now:           opts.Now,
	}
}

func (s *trustScoreService) GetScore(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error) {
	row, err := s.scores.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load trust score: %w", ErrStorage, err)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: no trust score for user %s", ErrNotFound, userID)
	}
	return row, nil
}

func (s *trustScoreService) GetHistory(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.TrustScoreHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	rows, err := s.history.ListByUserID(dbc, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: load trust score history: %w", ErrStorage, err)
	}
	return rows, nil
}

func (s *trustScoreService) lookupUser(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %w", ErrStorage, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return u, nil
}

func (s *trustScoreService) compute(dbc dbctx.Context, u *types.User) (TrustComputation, error) {
	orders, err := s.orders.StatsForUser(dbc, u.ID, u.Role)
	if err != nil {
		return TrustComputation{}, fmt.Errorf("%w: order ledger: %w", ErrStorage, err)
	}
	payments, err := s.payments.StatsForUser(dbc, u.ID, u.Role)
	if err != nil {
		return TrustComputation{}, fmt.Errorf("%w: payment ledger: %w", ErrStorage, err)
	}
	in := TrustInputs{Role: u.Role, Orders: orders, Payments: payments}
	if u.Role == types.RoleSupplier {
		rows, err := s.ratings.ListForSupplier(dbc, u.ID)
		if err != nil {
			return TrustComputation{}, fmt.Errorf("%w: rating ledger: %w", ErrStorage, err)
		}
		in.Ratings = make([]float64, 0, len(rows))
		for _, r := range rows {
			in.Ratings = append(in.Ratings, r.Stars)
		}
	}
	return ComputeTrustScore(in), nil
}

func (s *trustScoreService) Recalculate(dbc dbctx.Context, userID uuid.UUID) (float64, error) {
	u, err := s.lookupUser(dbc, userID)
	if err != nil {
		return 0, err
	}
	comp, err := s.compute(dbc, u)
	if err != nil {
		return 0, err
	}
	return comp.Score, nil
}

func (s *trustScoreService) UpdateFactors(dbc dbctx.Context, userID uuid.UUID, update FactorUpdate) (*types.TrustScore, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}
	return s.update(dbc, userID, update, "update_factors")
}

func (s *trustScoreService) update(dbc dbctx.Context, userID uuid.UUID, update FactorUpdate, source string) (*types.TrustScore, error) {
	u, err := s.lookupUser(dbc, userID)
	if err != nil {
		return nil, err
	}
	if !update.Recalculate && update.CurrentScore != nil && !s.allowOverride {
		return nil, fmt.Errorf("%w: currentScore can only be set through recalculation", ErrValidation)
	}

	return s.persist(dbc, userID, source, func(inner dbctx.Context, existing *types.TrustScore) (scoreChange, error) {
		var ch scoreChange
		if existing != nil {
			ch.factors = existing.Factors
		}
		update.applyTo(&ch.factors)

		ch.reason = strings.TrimSpace(update.Reason)
		switch {
		case update.Recalculate:
			comp, err := s.compute(inner, u)
			if err != nil {
				return scoreChange{}, err
			}
			comp.ApplyTo(&ch.factors)
			ch.score = comp.Score
			if ch.reason == "" {
				ch.reason = ReasonRecalculated
			}
		case update.CurrentScore != nil:
			ch.score = ClampScore(*update.CurrentScore)
			s.log.Warn("trust score set by caller",
				"user_id", userID,
				"requested", *update.CurrentScore,
				"stored", ch.score,
			)
			if ch.reason == "" {
				ch.reason = ReasonManualOverride
			}
		case existing != nil:
			ch.score = existing.CurrentScore
		default:
			ch.score = trust.SeedScore
		}
		if ch.reason == "" {
			ch.reason = ReasonFactorsUpdated
		}
		return ch, nil
	})
}

type scoreChange struct {
	score   float64
	factors types.TrustFactors
	reason  string
}

// persist locks the user's score row, lets decide derive the new state from
// the locked row (nil when the row is new), then writes the row and its
// history entry in the same transaction. Cache, bus and metrics follow the
// commit.
//
// The write timestamp is taken under the lock and kept strictly after the
// previous one, so last_updated always equals the newest history timestamp.
func (s *trustScoreService) persist(
	dbc dbctx.Context,
	userID uuid.UUID,
	source string,
	decide func(inner dbctx.Context, existing *types.TrustScore) (scoreChange, error),
) (*types.TrustScore, error) {
	ctx, span := observability.Tracer().Start(ctxutil.Default(dbc.Ctx), "TrustScoreService.persist")
	defer span.End()
	span.SetAttributes(attribute.String("trust.source", source))

	var (
		saved     *types.TrustScore
		ch        scoreChange
		now       time.Time
		decideErr error
	)
	err := dbc.Conn(s.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		locked, created, err := s.scores.LockForWrite(inner, userID)
		if err != nil {
			return fmt.Errorf("lock trust score: %w", err)
		}
		var existing *types.TrustScore
		if !created {
			existing = locked
		}
		ch, decideErr = decide(inner, existing)
		if decideErr != nil {
			return decideErr
		}
		ch.score = ClampScore(ch.score)
		snap, err := trust.SnapshotFactors(ch.factors)
		if err != nil {
			return fmt.Errorf("snapshot factors: %w", err)
		}

		now = s.now().UTC().Truncate(time.Microsecond)
		createdAt := now
		if existing != nil {
			createdAt = existing.CreatedAt
			if !now.After(existing.LastUpdated) {
				now = existing.LastUpdated.Add(time.Microsecond)
			}
		}

		if err := s.scores.Save(inner, &types.TrustScore{
			UserID:       userID,
			CurrentScore: ch.score,
			Factors:      ch.factors,
			LastUpdated:  now,
			CreatedAt:    createdAt,
		}); err != nil {
			return fmt.Errorf("save trust score: %w", err)
		}
		if err := s.history.Append(inner, &types.TrustScoreHistory{
			UserID:    userID,
			Score:     ch.score,
			Factors:   snap,
			Reason:    ch.reason,
			Timestamp: now,
		}); err != nil {
			return fmt.Errorf("append trust score history: %w", err)
		}
		row, err := s.scores.GetByUserID(inner, userID)
		if err != nil {
			return fmt.Errorf("reload trust score: %w", err)
		}
		saved = row
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveTrustWrite(source, false, 0)
		if decideErr != nil {
			return nil, decideErr
		}
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	s.metrics.ObserveTrustWrite(source, true, ch.score)
	if err := s.rankings.Invalidate(ctx); err != nil {
		s.log.Warn("rankings cache invalidate failed", "error", err)
	}
	msg := realtime.NewTrustScoreUpdated(userID, ch.score, ch.reason, now)
	if err := s.events.Publish(ctx, msg); err != nil {
		s.metrics.IncEventPublish(string(msg.Event), false)
		s.log.Warn("publish trust score event failed", "user_id", userID, "error", err)
	} else {
		s.metrics.IncEventPublish(string(msg.Event), true)
	}
	return saved, nil
}

func (s *trustScoreService) RecalculateUser(dbc dbctx.Context, userID uuid.UUID, role types.Role) (*types.TrustScore, error) {
	if role != "" {
		u, err := s.lookupUser(dbc, userID)
		if err != nil {
			return nil, err
		}
		if u.Role != role {
			return nil, fmt.Errorf("%w: user %s is a %s, not a %s", ErrValidation, userID, u.Role, role)
		}
	}
	return s.update(dbc, userID, FactorUpdate{Recalculate: true}, "recalculate")
}

func (s *trustScoreService) GetRankings(dbc dbctx.Context, q RankingQuery) ([]types.RankingEntry, error) {
	if q.Role != "" && q.Role != types.RoleVendor && q.Role != types.RoleSupplier {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, q.Role)
	}
	if q.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	ctx := ctxutil.Default(dbc.Ctx)

	// The version is read before the rows so a write that lands in between
	// leaves this page under a version that is already retired.
	useCache := true
	version, err := s.rankings.Version(ctx)
	if err != nil {
		useCache = false
		s.log.Warn("rankings cache version read failed", "error", err)
	}
	if useCache {
		cached, ok, err := s.rankings.Get(ctx, version, q.Role, q.Limit)
		if err != nil {
			s.log.Warn("rankings cache read failed", "error", err)
		}
		if ok {
			s.metrics.IncRankingsCache(true)
			return cached, nil
		}
	}
	s.metrics.IncRankingsCache(false)

	rows, err := s.scores.List(dbc, q.Role, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list trust scores: %w", ErrStorage, err)
	}
	out := make([]types.RankingEntry, 0, len(rows))
	for i, row := range rows {
		out = append(out, types.RankingEntry{
			Rank:       i + 1,
			Tier:       trust.TierFor(row.CurrentScore),
			TrustScore: *row,
		})
	}
	if useCache {
		if err := s.rankings.Set(ctx, version, q.Role, q.Limit, out); err != nil {
			s.log.Warn("rankings cache write failed", "error", err)
		}
	}
	return out, nil
}

// Initialize resets the user to the seed score. Repeated calls overwrite.
func (s *trustScoreService) Initialize(dbc dbctx.Context, userID uuid.UUID) (*types.TrustScore, error) {
	if _, err := s.lookupUser(dbc, userID); err != nil {
		return nil, err
	}
	return s.persist(dbc, userID, "initialize", func(dbctx.Context, *types.TrustScore) (scoreChange, error) {
		return scoreChange{score: trust.SeedScore, reason: ReasonInitialized}, nil
	})
}

func (s *trustScoreService) TriggerRecalculationForAll(dbc dbctx.Context) (BatchResult, error) {
	ids, err := s.users.ListIDs(dbc, "")
	if err != nil {
		s.metrics.ObserveTrustBatch(0, 0, 0, err)
		return BatchResult{}, fmt.Errorf("%w: list users: %w", ErrStorage, err)
	}
	return s.RecalculateUsers(dbc, ids), nil
}

// RecalculateUsers recomputes and persists each user in its own transaction.
// A failing user is logged and counted; it never stops the others.
func (s *trustScoreService) RecalculateUsers(dbc dbctx.Context, userIDs []uuid.UUID) BatchResult {
	start := time.Now()
	ctx, span := observability.Tracer().Start(ctxutil.Default(dbc.Ctx), "TrustScoreService.RecalculateUsers")
	defer span.End()
	span.SetAttributes(attribute.Int("trust.batch.size", len(userIDs)))

	res := BatchResult{Total: len(userIDs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range userIDs {
		g.Go(func() error {
			// Each user gets a fresh transaction; a caller's Tx is not shared across goroutines.
			_, err := s.update(dbctx.Context{Ctx: gctx}, id, FactorUpdate{Recalculate: true, Reason: ReasonBatch}, "batch")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				res.FailedUserIDs = append(res.FailedUserIDs, id)
				s.log.Error("batch recalculation failed for user", "user_id", id, "error", err)
				return nil
			}
			res.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.ObserveTrustBatch(res.Succeeded, res.Failed, time.Since(start), nil)
	s.log.Info("batch recalculation finished",
		"total", res.Total,
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res
}
