package sim

import (
	"time"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/risk"
)

// applyClosedTrade books a closed trade against a copy of a: trade list,
// daily and per-day aggregates, cumulative P&L, statistics and finally the
// evaluation rules. A trade already on the account (a closing position) is
// replaced in place; otherwise it is appended.
func (s *Simulator) applyClosedTrade(a account.TradingAccount, t account.Trade, now time.Time) (account.TradingAccount, Result) {
	out := a.Clone()
	res := Result{PrevStatus: a.Status}

	if idx := out.FindTrade(t.ID); idx >= 0 {
		out.Trades[idx] = t
	} else {
		out.Trades = append(out.Trades, t)
	}
	out.TotalTrades++
	out.TotalLots += t.Lots

	today := now.Format(account.DateLayout)
	if today != out.LastTradeDate {
		out.DailyPnL = t.PnL
		out.DailyStartEquity = out.Equity
	} else {
		out.DailyPnL += t.PnL
	}

	if out.TradingDays == nil {
		out.TradingDays = map[string]account.DayStat{}
	}
	day := out.TradingDays[today]
	day.PnL += t.PnL
	day.Trades++
	out.TradingDays[today] = day
	out.TradingDaysCompleted = len(out.TradingDays)

	out.PnL += t.PnL
	out.Balance = out.AccountSize + out.PnL
	out.Equity = out.Balance

	if t.PnL > 0 {
		out.WinningTrades++
	} else {
		out.LosingTrades++
	}
	if t.PnL > out.BiggestWin {
		out.BiggestWin = t.PnL
	}
	if t.PnL < out.BiggestLoss {
		out.BiggestLoss = t.PnL
	}

	d := risk.Evaluate(s.Policy, out)
	out.Status = d.Status
	if d.Status == account.StatusBreached {
		out.BreachReason = d.Reason()
	}
	out.LastTradeDate = today

	if d.AdvancePhase {
		out = risk.AdvanceToPhaseTwo(out, now)
		res.AdvancedPhase = true
	}

	ledger := out.Clone()
	res.Trade = &t
	res.Decision = d
	res.Ledger = &ledger
	return out, res
}
