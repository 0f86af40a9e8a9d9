package risk

import (
	"testing"
	"time"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

func newAccount(t *testing.T, rupees int64, ct account.ChallengeType) account.TradingAccount {
	t.Helper()
	a, err := account.New(market.Rupees(rupees), ct, "", now)
	require.NoError(t, err)
	return a
}

// withPnL sets the aggregates the rules read, keeping the ledger consistent.
func withPnL(a account.TradingAccount, pnl, daily market.Cash, days int) account.TradingAccount {
	a.PnL = pnl
	a.DailyPnL = daily
	a.Balance = a.AccountSize + pnl
	a.Equity = a.Balance
	a.TradingDays = map[string]account.DayStat{}
	for i := 0; i < days; i++ {
		a.TradingDays[now.AddDate(0, 0, i).Format(account.DateLayout)] = account.DayStat{Trades: 1}
	}
	a.TradingDaysCompleted = days
	return a
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		pnl    market.Cash
		daily  market.Cash
		days   int
		status account.Status
		codes  []string
	}{
		{"flat", 0, 0, 0, account.StatusEvaluation, nil},
		{"target without days", market.Rupees(9000), market.Rupees(9000), 2, account.StatusEvaluation, nil},
		{"target with days", market.Rupees(8000), market.Rupees(100), 3, account.StatusPassed, nil},
		{"daily limit exactly", market.Rupees(-4000), market.Rupees(-4000), 1, account.StatusBreached, []string{CodeDailyLoss}},
		{"just inside daily", market.Rupees(-4000) + 1, market.Rupees(-4000) + 1, 1, account.StatusEvaluation, nil},
		{"total limit only", market.Rupees(-6000), market.Rupees(-1000), 4, account.StatusBreached, []string{CodeMaxLoss}},
		{"both limits", market.Rupees(-6500), market.Rupees(-6500), 1, account.StatusBreached, []string{CodeDailyLoss, CodeMaxLoss}},
		{"breach beats pass", market.Rupees(9000), market.Rupees(-4500), 3, account.StatusBreached, []string{CodeDailyLoss}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := withPnL(newAccount(t, 100000, account.OneStep), tt.pnl, tt.daily, tt.days)
			d := Evaluate(DefaultPolicy(), a)
			assert.Equal(t, tt.status, d.Status)

			var codes []string
			for _, v := range d.Violations {
				codes = append(codes, v.Code)
			}
			assert.Equal(t, tt.codes, codes)
			assert.False(t, d.AdvancePhase)
		})
	}
}

func TestEvaluateTerminalUnchanged(t *testing.T) {
	for _, st := range []account.Status{account.StatusBreached, account.StatusPassed} {
		a := withPnL(newAccount(t, 100000, account.OneStep), market.Rupees(-9000), market.Rupees(-9000), 1)
		a.Status = st
		d := Evaluate(DefaultPolicy(), a)
		assert.Equal(t, st, d.Status)
		assert.Empty(t, d.Violations)
	}
}

func TestEvaluateFundedNeverPasses(t *testing.T) {
	a := withPnL(newAccount(t, 100000, account.OneStep), market.Rupees(20000), 0, 5)
	a.Status = account.StatusFunded
	assert.Equal(t, account.StatusFunded, Evaluate(DefaultPolicy(), a).Status)

	a = withPnL(a, market.Rupees(-7000), 0, 5)
	assert.Equal(t, account.StatusBreached, Evaluate(DefaultPolicy(), a).Status)
}

func TestEvaluateTwoStepPhaseOne(t *testing.T) {
	a := withPnL(newAccount(t, 100000, account.TwoStep), market.Rupees(8000), 0, 3)

	d := Evaluate(DefaultPolicy(), a)
	assert.Equal(t, account.StatusEvaluation, d.Status)
	assert.True(t, d.AdvancePhase)

	d = Evaluate(Policy{AdvancePhase: false}, a)
	assert.Equal(t, account.StatusEvaluation, d.Status)
	assert.False(t, d.AdvancePhase)

	a.Phase = 2
	a.ProfitTarget = market.Rupees(5000)
	d = Evaluate(DefaultPolicy(), a)
	assert.Equal(t, account.StatusPassed, d.Status)
}

func TestAdvanceToPhaseTwo(t *testing.T) {
	a := withPnL(newAccount(t, 100000, account.TwoStep), market.Rupees(8200), market.Rupees(300), 3)
	a.TotalTrades = 7
	a.LastTradeDate = "2024-06-05"
	later := now.AddDate(0, 0, 3)

	b := AdvanceToPhaseTwo(a, later)

	assert.Equal(t, 2, b.Phase)
	assert.Equal(t, 5.0, b.ProfitTargetPct)
	assert.Equal(t, market.Rupees(5000), b.ProfitTarget)
	assert.Zero(t, b.PnL)
	assert.Zero(t, b.DailyPnL)
	assert.Equal(t, b.AccountSize, b.Balance)
	assert.Empty(t, b.TradingDays)
	assert.Empty(t, b.LastTradeDate)
	assert.Equal(t, 7, b.TotalTrades)
	assert.Equal(t, later, b.StartedAt)
	assert.NoError(t, account.CheckInvariants(b))

	// input untouched
	assert.Equal(t, 1, a.Phase)
	assert.Len(t, a.TradingDays, 3)
}

func TestDecisionReason(t *testing.T) {
	a := withPnL(newAccount(t, 100000, account.OneStep), market.Rupees(-7000), market.Rupees(-7000), 1)
	d := Evaluate(DefaultPolicy(), a)
	assert.Contains(t, d.Reason(), "daily pnl -7000.00")
	assert.Contains(t, d.Reason(), "; total pnl")
}
