package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/metrics"
	"github.com/rustyeddy/evalsim/risk"
	"github.com/rustyeddy/evalsim/sim"
	"github.com/rustyeddy/evalsim/store"
)

// Handler exposes a Store over HTTP.
type Handler struct {
	Store  *store.Store
	Logger *zap.Logger
}

// NewRouter returns a gin engine with every route registered.
func NewRouter(h *Handler) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.Logger))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	h.Register(r)
	return r
}

func (h *Handler) Register(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/state", h.getState)
	g.POST("/accounts", h.createAccount)
	g.DELETE("/accounts/:id", h.deleteAccount)
	g.GET("/accounts/:id/progress", h.getProgress)
	g.PUT("/selection", h.selectAccount)
	g.DELETE("/selection", h.clearSelection)
	g.POST("/trades", h.executeTrade)
	g.POST("/positions", h.openPosition)
	g.POST("/positions/:id/close", h.closePosition)
	g.GET("/prices/:symbol", h.getPrice)
	g.GET("/plans", h.listPlans)
	g.POST("/reset", h.reset)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Duration("latency", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			log.Warn("request", fields...)
			return
		}
		log.Debug("request", fields...)
	}
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// failFor maps domain errors to status codes.
func failFor(c *gin.Context, err error) {
	var cfgErr *account.ConfigurationError
	switch {
	case errors.As(err, &cfgErr), errors.Is(err, sim.ErrInvalidTrade):
		fail(c, http.StatusBadRequest, err)
	case errors.Is(err, store.ErrAccountNotFound), errors.Is(err, sim.ErrTradeNotFound):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, sim.ErrTradeClosed):
		fail(c, http.StatusConflict, err)
	default:
		fail(c, http.StatusInternalServerError, err)
	}
}

func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.State(c.Request.Context()))
}

type createAccountRequest struct {
	AccountSize   float64               `json:"accountSize" binding:"required"`
	ChallengeType account.ChallengeType `json:"challengeType" binding:"required"`
	Name          string                `json:"name"`
}

func (h *Handler) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	a, err := h.Store.CreateAccount(c.Request.Context(), market.RupeesFloat(req.AccountSize), req.ChallengeType, req.Name)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) deleteAccount(c *gin.Context) {
	if err := h.Store.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		failFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type progressResponse struct {
	risk.Progress
	Headroom risk.Headroom  `json:"headroom"`
	Status   account.Status `json:"status"`
	Phase    int            `json:"phase"`
	WinRate  float64        `json:"winRate"`
}

func (h *Handler) getProgress(c *gin.Context) {
	a, err := h.Store.Account(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, progressResponse{
		Progress: risk.ComputeProgress(a),
		Headroom: risk.RemainingHeadroom(a),
		Status:   a.Status,
		Phase:    a.Phase,
		WinRate:  a.WinRate(),
	})
}

type selectionRequest struct {
	AccountID string `json:"accountId"`
}

func (h *Handler) selectAccount(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := h.Store.SelectAccount(c.Request.Context(), req.AccountID); err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedAccountId": h.Store.State(c.Request.Context()).SelectedAccountID})
}

func (h *Handler) clearSelection(c *gin.Context) {
	if err := h.Store.SelectAccount(c.Request.Context(), ""); err != nil {
		failFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) executeTrade(c *gin.Context) {
	var req sim.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	req.Symbol = strings.ToUpper(req.Symbol)
	res, err := h.Store.ExecuteTrade(c.Request.Context(), req)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) openPosition(c *gin.Context) {
	var req sim.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	req.Symbol = strings.ToUpper(req.Symbol)
	res, err := h.Store.OpenTrade(c.Request.Context(), req)
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) closePosition(c *gin.Context) {
	res, err := h.Store.CloseTrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) getPrice(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if !market.Known(symbol) {
		fail(c, http.StatusNotFound, errors.New("unknown symbol "+symbol))
		return
	}
	c.JSON(http.StatusOK, h.Store.Quote(symbol))
}

type planResponse struct {
	AccountSize   market.Cash           `json:"accountSize"`
	ChallengeType account.ChallengeType `json:"challengeType"`
	Fee           market.Cash           `json:"fee"`
	TargetPct     float64               `json:"profitTargetPercent"`
	DailyLossPct  float64               `json:"maxDailyLossPercent"`
	MaxLossPct    float64               `json:"maxTotalLossPercent"`
}

// listPlans returns every purchasable size and challenge type, smallest first.
func (h *Handler) listPlans(c *gin.Context) {
	var plans []planResponse
	for _, size := range account.Sizes() {
		for _, ct := range []account.ChallengeType{account.OneStep, account.TwoStep} {
			terms, err := account.LookupTerms(size, ct)
			if err != nil {
				failFor(c, err)
				return
			}
			plans = append(plans, planResponse{
				AccountSize:   size,
				ChallengeType: ct,
				Fee:           terms.Fee,
				TargetPct:     terms.TargetPct,
				DailyLossPct:  terms.DailyLossPct,
				MaxLossPct:    terms.MaxLossPct,
			})
		}
	}
	c.JSON(http.StatusOK, plans)
}

func (h *Handler) reset(c *gin.Context) {
	h.Store.Reset(c.Request.Context())
	c.JSON(http.StatusOK, h.Store.State(c.Request.Context()))
}
