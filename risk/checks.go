package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
)

const (
	CodeDailyLoss = "DAILY_LOSS_LIMIT"
	CodeMaxLoss   = "MAX_LOSS_LIMIT"
)

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

// Decision is the outcome of evaluating an account after a trade closed.
type Decision struct {
	Status     account.Status `json:"status"`
	Violations []Violation    `json:"violations,omitempty"`

	// AdvancePhase is set when a two-step account cleared phase 1 and the
	// policy allows moving on to phase 2.
	AdvancePhase bool `json:"advancePhase,omitempty"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Status = account.StatusBreached
}

// Reason joins the violation messages.
func (d Decision) Reason() string {
	msgs := make([]string, 0, len(d.Violations))
	for _, v := range d.Violations {
		msgs = append(msgs, v.Msg)
	}
	return strings.Join(msgs, "; ")
}

// Evaluate decides the status an account should have given its current
// aggregates. Breach rules are checked before the pass rule, so a trade that
// both hits the target and blows the daily limit breaches the account.
// Terminal accounts are returned unchanged.
func Evaluate(p Policy, a account.TradingAccount) Decision {
	d := Decision{Status: a.Status}
	if a.Status.Terminal() {
		return d
	}

	if a.DailyPnL <= -a.MaxDailyLoss {
		d.add(CodeDailyLoss, fmt.Sprintf("daily pnl %s <= limit -%s", a.DailyPnL, a.MaxDailyLoss))
	}
	if a.PnL <= -a.MaxTotalLoss {
		d.add(CodeMaxLoss, fmt.Sprintf("total pnl %s <= limit -%s", a.PnL, a.MaxTotalLoss))
	}
	if d.Status == account.StatusBreached {
		return d
	}

	// Funded accounts are only ever held to the loss limits.
	if a.Status == account.StatusFunded {
		return d
	}

	if a.PnL >= a.ProfitTarget && a.TradingDaysCompleted >= a.MinTradingDays {
		if a.ChallengeType == account.TwoStep && a.Phase == 1 {
			d.AdvancePhase = p.AdvancePhase
			return d
		}
		d.Status = account.StatusPassed
	}
	return d
}

// AdvanceToPhaseTwo starts phase 2 of a two-step account: the profit target
// switches to the phase 2 percentage and the ledger is rebased to the account
// size with no trading days. Trade history and lifetime statistics carry over.
func AdvanceToPhaseTwo(a account.TradingAccount, now time.Time) account.TradingAccount {
	out := a.Clone()

	pct := out.ProfitTargetPct
	if terms, err := account.LookupTerms(out.AccountSize, out.ChallengeType); err == nil && terms.Phase2TargetPct > 0 {
		pct = terms.Phase2TargetPct
	}

	out.Phase = 2
	out.ProfitTargetPct = pct
	out.ProfitTarget = out.AccountSize.Percent(pct)
	out.PnL = 0
	out.Balance = out.AccountSize
	out.Equity = out.AccountSize
	out.DailyPnL = 0
	out.DailyStartEquity = out.AccountSize
	out.LastTradeDate = ""
	out.TradingDays = map[string]account.DayStat{}
	out.TradingDaysCompleted = 0
	out.StartedAt = now
	return out
}

// Headroom is how much more can be lost before each limit triggers.
type Headroom struct {
	Daily market.Cash `json:"daily"`
	Total market.Cash `json:"total"`
}

func RemainingHeadroom(a account.TradingAccount) Headroom {
	h := Headroom{
		Daily: a.MaxDailyLoss + a.DailyPnL,
		Total: a.MaxTotalLoss + a.PnL,
	}
	if h.Daily < 0 {
		h.Daily = 0
	}
	if h.Total < 0 {
		h.Total = 0
	}
	return h
}

// Min returns the tighter of the two limits.
func (h Headroom) Min() market.Cash {
	if h.Daily < h.Total {
		return h.Daily
	}
	return h.Total
}
