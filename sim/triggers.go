package sim

import "github.com/rustyeddy/evalsim/account"

func hitStopLoss(t account.Trade, price float64) bool {
	if t.StopLoss == nil {
		return false
	}
	if t.Direction == account.Buy {
		return price <= *t.StopLoss
	}
	return price >= *t.StopLoss
}

func hitTakeProfit(t account.Trade, price float64) bool {
	if t.TakeProfit == nil {
		return false
	}
	if t.Direction == account.Buy {
		return price >= *t.TakeProfit
	}
	return price <= *t.TakeProfit
}
