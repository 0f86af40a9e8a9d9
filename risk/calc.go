package risk

import (
	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
)

// Progress holds display percentages, each clamped to [0, 100].
type Progress struct {
	Profit        float64 `json:"profitProgress"`
	DailyLossUsed float64 `json:"dailyLossUsed"`
	TotalLossUsed float64 `json:"totalLossUsed"`
	TradingDays   float64 `json:"tradingDaysProgress"`
}

func ComputeProgress(a account.TradingAccount) Progress {
	return Progress{
		Profit:        pct(a.PnL, a.ProfitTarget),
		DailyLossUsed: pct(-a.DailyPnL, a.MaxDailyLoss),
		TotalLossUsed: pct(-a.PnL, a.MaxTotalLoss),
		TradingDays:   clamp(100 * ratio(float64(a.TradingDaysCompleted), float64(a.MinTradingDays))),
	}
}

func pct(num, den market.Cash) float64 {
	return clamp(100 * ratio(float64(num), float64(den)))
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		if num > 0 {
			return 1
		}
		return 0
	}
	return num / den
}

func clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
