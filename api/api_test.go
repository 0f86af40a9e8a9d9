package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/sim"
	"github.com/rustyeddy/evalsim/store"
)

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := sim.New(constSource(0.5))
	s.Clock = func() time.Time { return time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC) }
	st := store.New(store.Options{Storage: store.NewMemory(), Simulator: s})
	return NewRouter(&Handler{Store: st})
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func createAccount(t *testing.T, r http.Handler) account.TradingAccount {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/accounts", gin.H{"accountSize": 100000, "challengeType": "one-step"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[account.TradingAccount](t, w)
}

func TestHealthAndMetrics(t *testing.T) {
	r := setupTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAccount(t *testing.T) {
	r := setupTestRouter(t)

	a := createAccount(t, r)
	assert.Equal(t, market.Rupees(100000), a.AccountSize)
	assert.Equal(t, market.Rupees(8000), a.ProfitTarget)

	st := decode[store.State](t, do(t, r, http.MethodGet, "/api/state", nil))
	require.Len(t, st.Accounts, 1)
	require.NotNil(t, st.SelectedAccountID)
	assert.Equal(t, a.ID, *st.SelectedAccountID)
}

func TestCreateAccountErrors(t *testing.T) {
	r := setupTestRouter(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown size", gin.H{"accountSize": 75000, "challengeType": "one-step"}},
		{"unknown type", gin.H{"accountSize": 100000, "challengeType": "three-step"}},
		{"missing size", gin.H{"challengeType": "one-step"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/accounts", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestTradeFlow(t *testing.T) {
	r := setupTestRouter(t)

	// no selection yet: skipped, not an error
	w := do(t, r, http.MethodPost, "/api/trades", gin.H{"symbol": "NIFTY", "type": "buy", "lots": 1, "outcome": "win"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[sim.Result](t, w)
	assert.True(t, res.Skipped)
	assert.Equal(t, "no account selected", res.Reason)

	a := createAccount(t, r)

	w = do(t, r, http.MethodPost, "/api/trades", gin.H{"symbol": "nifty", "type": "buy", "lots": 1, "outcome": "win"})
	require.Equal(t, http.StatusOK, w.Code)
	res = decode[sim.Result](t, w)
	require.NotNil(t, res.Trade)
	assert.Equal(t, "NIFTY", res.Trade.Symbol)
	assert.Equal(t, market.Rupees(493), res.Trade.PnL)

	w = do(t, r, http.MethodPost, "/api/trades", gin.H{"symbol": "NIFTY", "type": "hold", "lots": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/accounts/"+a.ID+"/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prog := decode[map[string]any](t, w)
	assert.InDelta(t, 100*493.0/8000.0, prog["profitProgress"], 1e-9)
	assert.InDelta(t, 100/3.0, prog["tradingDaysProgress"], 1e-9)
	assert.Equal(t, "evaluation", prog["status"])
}

func TestPositions(t *testing.T) {
	r := setupTestRouter(t)
	createAccount(t, r)

	w := do(t, r, http.MethodPost, "/api/positions", gin.H{"symbol": "EURUSD", "type": "sell", "lots": 2})
	require.Equal(t, http.StatusOK, w.Code)
	opened := decode[sim.Result](t, w)
	require.NotNil(t, opened.Trade)
	assert.Equal(t, account.TradeOpen, opened.Trade.Status)

	w = do(t, r, http.MethodPost, "/api/positions/"+opened.Trade.ID+"/close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	closed := decode[sim.Result](t, w)
	assert.Equal(t, account.TradeClosed, closed.Trade.Status)

	w = do(t, r, http.MethodPost, "/api/positions/"+opened.Trade.ID+"/close", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/positions/nope/close", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelection(t *testing.T) {
	r := setupTestRouter(t)
	a := createAccount(t, r)

	w := do(t, r, http.MethodDelete, "/api/selection", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodPut, "/api/selection", gin.H{"accountId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/api/selection", gin.H{"accountId": a.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, a.ID, decode[map[string]string](t, w)["selectedAccountId"])

	w = do(t, r, http.MethodDelete, "/api/accounts/"+a.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, "/api/accounts/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/accounts/"+a.ID+"/progress", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrices(t *testing.T) {
	r := setupTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/prices/nifty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[market.Quote](t, w)
	assert.Equal(t, "NIFTY", q.Symbol)
	assert.InDelta(t, 22150.0, q.Bid, 1e-9)
	assert.InDelta(t, 22150.1, q.Ask, 1e-9)

	w = do(t, r, http.MethodGet, "/api/prices/DOGE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReset(t *testing.T) {
	r := setupTestRouter(t)
	createAccount(t, r)

	w := do(t, r, http.MethodPost, "/api/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[store.State](t, w)
	assert.Empty(t, st.Accounts)
	assert.Nil(t, st.SelectedAccountID)
}

func TestListPlans(t *testing.T) {
	r := setupTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	plans := decode[[]planResponse](t, w)

	sizes := account.Sizes()
	require.Len(t, plans, 2*len(sizes))
	assert.Equal(t, sizes[0], plans[0].AccountSize)
	assert.Equal(t, account.OneStep, plans[0].ChallengeType)
	assert.Equal(t, account.TwoStep, plans[1].ChallengeType)

	terms, err := account.LookupTerms(market.Rupees(100000), account.TwoStep)
	require.NoError(t, err)
	var found bool
	for _, p := range plans {
		if p.AccountSize == market.Rupees(100000) && p.ChallengeType == account.TwoStep {
			found = true
			assert.Equal(t, terms.Fee, p.Fee)
			assert.Equal(t, terms.TargetPct, p.TargetPct)
		}
	}
	assert.True(t, found)
}
