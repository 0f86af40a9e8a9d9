package account

import (
	"time"

	"github.com/rustyeddy/evalsim/market"
)

type ChallengeType string

const (
	OneStep ChallengeType = "one-step"
	TwoStep ChallengeType = "two-step"
)

func (c ChallengeType) Valid() bool {
	return c == OneStep || c == TwoStep
}

func (c ChallengeType) Title() string {
	switch c {
	case OneStep:
		return "One-Step"
	case TwoStep:
		return "Two-Step"
	}
	return string(c)
}

type Status string

const (
	StatusEvaluation Status = "evaluation"
	StatusFunded     Status = "funded"
	StatusBreached   Status = "breached"
	StatusPassed     Status = "passed"
)

// Terminal reports whether no further trade may change the account.
func (s Status) Terminal() bool {
	return s == StatusBreached || s == StatusPassed
}

// DayStat aggregates the trades closed on one calendar date.
type DayStat struct {
	PnL    market.Cash `json:"pnl"`
	Trades int         `json:"trades"`
}

// DateLayout is the key format of TradingAccount.TradingDays.
const DateLayout = "2006-01-02"

// TradingAccount is one evaluation attempt and its running ledger.
type TradingAccount struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	StartedAt time.Time `json:"startDate"`

	// Fixed at creation.
	AccountSize     market.Cash   `json:"accountSize"`
	ChallengeType   ChallengeType `json:"challengeType"`
	Fee             market.Cash   `json:"fee"`
	ProfitTarget    market.Cash   `json:"profitTarget"`
	ProfitTargetPct float64       `json:"profitTargetPercent"`
	MaxDailyLoss    market.Cash   `json:"maxDailyLoss"`
	MaxDailyLossPct float64       `json:"maxDailyLossPercent"`
	MaxTotalLoss    market.Cash   `json:"maxTotalLoss"`
	MaxTotalLossPct float64       `json:"maxTotalLossPercent"`
	MinTradingDays  int           `json:"minTradingDays"`

	// Ledger
	Balance              market.Cash        `json:"balance"`
	Equity               market.Cash        `json:"equity"`
	PnL                  market.Cash        `json:"pnl"`
	Phase                int                `json:"phase"`
	Status               Status             `json:"status"`
	BreachReason         string             `json:"breachReason,omitempty"`
	DailyPnL             market.Cash        `json:"dailyPnL"`
	DailyStartEquity     market.Cash        `json:"dailyStartEquity"`
	LastTradeDate        string             `json:"lastTradeDate,omitempty"`
	TradingDays          map[string]DayStat `json:"tradingDays"`
	TradingDaysCompleted int                `json:"tradingDaysCompleted"`
	Trades               []Trade            `json:"trades"`

	// Statistics, kept in sync on every close.
	TotalTrades   int         `json:"totalTrades"`
	WinningTrades int         `json:"winningTrades"`
	LosingTrades  int         `json:"losingTrades"`
	TotalLots     float64     `json:"totalLots"`
	BiggestWin    market.Cash `json:"biggestWin"`
	BiggestLoss   market.Cash `json:"biggestLoss"`
}

// Clone returns a deep copy so callers can derive a new state without
// touching the original.
func (a TradingAccount) Clone() TradingAccount {
	out := a
	if a.TradingDays != nil {
		out.TradingDays = make(map[string]DayStat, len(a.TradingDays))
		for k, v := range a.TradingDays {
			out.TradingDays[k] = v
		}
	}
	if a.Trades != nil {
		out.Trades = make([]Trade, len(a.Trades))
		for i, t := range a.Trades {
			out.Trades[i] = t.Clone()
		}
	}
	return out
}

// FindTrade returns the index of the trade with id, or -1.
func (a *TradingAccount) FindTrade(id string) int {
	for i := range a.Trades {
		if a.Trades[i].ID == id {
			return i
		}
	}
	return -1
}

// OpenTrades returns the trades still awaiting a close.
func (a *TradingAccount) OpenTrades() []Trade {
	var out []Trade
	for _, t := range a.Trades {
		if t.Status == TradeOpen {
			out = append(out, t)
		}
	}
	return out
}

// WinRate is the percentage of closed trades that made money.
func (a *TradingAccount) WinRate() float64 {
	if a.TotalTrades == 0 {
		return 0
	}
	return 100 * float64(a.WinningTrades) / float64(a.TotalTrades)
}
