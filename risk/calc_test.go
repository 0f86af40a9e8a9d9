package risk

import (
	"testing"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name  string
		pnl   market.Cash
		daily market.Cash
		days  int
		want  Progress
	}{
		{"fresh", 0, 0, 0, Progress{}},
		{"half target", market.Rupees(4000), market.Rupees(4000), 1, Progress{Profit: 50, TradingDays: 100.0 / 3}},
		{"over target clamps", market.Rupees(12000), 0, 5, Progress{Profit: 100, TradingDays: 100}},
		{"losing", market.Rupees(-3000), market.Rupees(-2000), 2, Progress{DailyLossUsed: 50, TotalLossUsed: 50, TradingDays: 200.0 / 3}},
		{"past limits clamps", market.Rupees(-9000), market.Rupees(-9000), 1, Progress{DailyLossUsed: 100, TotalLossUsed: 100, TradingDays: 100.0 / 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := withPnL(newAccount(t, 100000, account.OneStep), tt.pnl, tt.daily, tt.days)
			got := ComputeProgress(a)
			assert.InDelta(t, tt.want.Profit, got.Profit, 1e-9)
			assert.InDelta(t, tt.want.DailyLossUsed, got.DailyLossUsed, 1e-9)
			assert.InDelta(t, tt.want.TotalLossUsed, got.TotalLossUsed, 1e-9)
			assert.InDelta(t, tt.want.TradingDays, got.TradingDays, 1e-9)
		})
	}
}

func TestRemainingHeadroom(t *testing.T) {
	a := withPnL(newAccount(t, 100000, account.OneStep), market.Rupees(-2500), market.Rupees(-1000), 2)
	h := RemainingHeadroom(a)
	assert.Equal(t, market.Rupees(3000), h.Daily)
	assert.Equal(t, market.Rupees(3500), h.Total)
	assert.Equal(t, market.Rupees(3000), h.Min())

	a = withPnL(a, market.Rupees(-8000), market.Rupees(-8000), 2)
	assert.Equal(t, Headroom{}, RemainingHeadroom(a))
}
