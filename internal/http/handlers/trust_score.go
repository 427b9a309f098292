package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/domain/user"
	"github.com/vendorconnect/vendorconnect-backend/internal/http/response"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/apierr"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/dbctx"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/services"
)

type TrustScoreHandlerDeps struct {
	Log        *logger.Logger
	TrustScore services.TrustScoreService
}

type TrustScoreHandler struct {
	log        *logger.Logger
	trustScore services.TrustScoreService
}

func NewTrustScoreHandlerWithDeps(deps TrustScoreHandlerDeps) *TrustScoreHandler {
	h := &TrustScoreHandler{trustScore: deps.TrustScore}
	if deps.Log != nil {
		h.log = deps.Log.With("handler", "TrustScoreHandler")
	}
	return h
}

type updateFactorsRequest struct {
	Recalculate  bool     `json:"recalculate"`
	CurrentScore *float64 `json:"currentScore" binding:"omitempty,gte=0,lte=100"`
	Reason       string   `json:"reason" binding:"max=200"`

	OnTimeDelivery         *float64 `json:"onTimeDelivery" binding:"omitempty,gte=0"`
	CustomerRating         *float64 `json:"customerRating" binding:"omitempty,gte=0"`
	PricingCompetitiveness *float64 `json:"pricingCompetitiveness" binding:"omitempty,gte=0"`
	OrderFulfillment       *float64 `json:"orderFulfillment" binding:"omitempty,gte=0"`
	PaymentTimeliness      *float64 `json:"paymentTimeliness" binding:"omitempty,gte=0"`
	OrderConsistency       *float64 `json:"orderConsistency" binding:"omitempty,gte=0"`
	PlatformEngagement     *float64 `json:"platformEngagement" binding:"omitempty,gte=0"`
}

func (r updateFactorsRequest) toUpdate() services.FactorUpdate {
	return services.FactorUpdate{
		Recalculate:            r.Recalculate,
		CurrentScore:           r.CurrentScore,
		Reason:                 r.Reason,
		OnTimeDelivery:         r.OnTimeDelivery,
		CustomerRating:         r.CustomerRating,
		PricingCompetitiveness: r.PricingCompetitiveness,
		OrderFulfillment:       r.OrderFulfillment,
		PaymentTimeliness:      r.PaymentTimeliness,
		OrderConsistency:       r.OrderConsistency,
		PlatformEngagement:     r.PlatformEngagement,
	}
}

type recalculateRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,oneof=vendor supplier"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func bindingError(err error) *apierr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return apierr.Validation(errors.New("invalid request body"), details)
	}
	return apierr.Validation(fmt.Errorf("invalid request body: %w", err), nil)
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("userId")))
	if err != nil || id == uuid.Nil {
		response.RespondErr(c, apierr.Validation(errors.New("invalid user id"), nil))
		return uuid.Nil, false
	}
	return id, true
}

func limitQuery(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondErr(c, apierr.Validation(errors.New("limit must be a non-negative integer"), nil))
		return 0, false
	}
	return n, true
}

// GET /api/trust-score/score/:userId
func (h *TrustScoreHandler) GetScore(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	score, err := h.trustScore.GetScore(dbctx.Context{Ctx: c.Request.Context()}, userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, score)
}

// GET /api/trust-score/history/:userId?limit=
func (h *TrustScoreHandler) GetHistory(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	rows, err := h.trustScore.GetHistory(dbctx.Context{Ctx: c.Request.Context()}, userID, limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if rows == nil {
		rows = []*types.TrustScoreHistory{}
	}
	response.RespondOK(c, rows)
}

// POST /api/trust-score/update-factors/:userId
func (h *TrustScoreHandler) UpdateFactors(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	var req updateFactorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, io.EOF) {
			response.RespondErr(c, bindingError(err))
			return
		}
		// An empty body rewrites the current state with a fresh history row.
		req = updateFactorsRequest{}
	}
	score, err := h.trustScore.UpdateFactors(dbctx.Context{Ctx: c.Request.Context()}, userID, req.toUpdate())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, score)
}

// GET /api/trust-score/rankings?role=&limit=
func (h *TrustScoreHandler) GetRankings(c *gin.Context) {
	var q services.RankingQuery
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role, ok := user.ParseRole(raw)
		if !ok {
			response.RespondErr(c, apierr.Validation(fmt.Errorf("unknown role %q", raw), nil))
			return
		}
		q.Role = role
	}
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	q.Limit = limit
	entries, err := h.trustScore.GetRankings(dbctx.Context{Ctx: c.Request.Context()}, q)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if entries == nil {
		entries = []types.RankingEntry{}
	}
	response.RespondOK(c, entries)
}

// POST /api/trust-score/recalculate
func (h *TrustScoreHandler) Recalculate(c *gin.Context) {
	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, bindingError(err))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.RespondErr(c, apierr.Validation(errors.New("invalid user id"), nil))
		return
	}
	role, _ := user.ParseRole(req.Role)
	score, err := h.trustScore.RecalculateUser(dbctx.Context{Ctx: c.Request.Context()}, userID, role)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, score)
}

// POST /api/trust-score/initialize/:userId
func (h *TrustScoreHandler) Initialize(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	score, err := h.trustScore.Initialize(dbctx.Context{Ctx: c.Request.Context()}, userID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, score)
}

// POST /api/trust-score/recalculate-all
func (h *TrustScoreHandler) RecalculateAll(c *gin.Context) {
	res, err := h.trustScore.TriggerRecalculationForAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if h.log != nil && res.Failed > 0 {
		h.log.Warn("recalculate-all finished with failures", "failed", res.Failed, "total", res.Total)
	}
	response.RespondOK(c, res)
}
