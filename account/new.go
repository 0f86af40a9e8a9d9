package account

import (
	"fmt"
	"time"

	"github.com/rustyeddy/evalsim/internal/id"
	"github.com/rustyeddy/evalsim/market"
)

// New creates a fresh evaluation account for one of the offered plans.
// An empty name is replaced with a label built from the type and size.
func New(size market.Cash, ct ChallengeType, name string, now time.Time) (TradingAccount, error) {
	terms, err := LookupTerms(size, ct)
	if err != nil {
		return TradingAccount{}, err
	}
	if name == "" {
		name = DefaultName(size, ct)
	}

	return TradingAccount{
		ID:        id.NewAt(now),
		Name:      name,
		CreatedAt: now,
		StartedAt: now,

		AccountSize:     size,
		ChallengeType:   ct,
		Fee:             terms.Fee,
		ProfitTarget:    size.Percent(terms.TargetPct),
		ProfitTargetPct: terms.TargetPct,
		MaxDailyLoss:    size.Percent(terms.DailyLossPct),
		MaxDailyLossPct: terms.DailyLossPct,
		MaxTotalLoss:    size.Percent(terms.MaxLossPct),
		MaxTotalLossPct: terms.MaxLossPct,
		MinTradingDays:  DefaultMinTradingDays,

		Balance:          size,
		Equity:           size,
		DailyStartEquity: size,
		Phase:            1,
		Status:           StatusEvaluation,
		TradingDays:      map[string]DayStat{},
		Trades:           []Trade{},
	}, nil
}

// DefaultName labels an account like "One-Step ₹1L Challenge".
func DefaultName(size market.Cash, ct ChallengeType) string {
	return fmt.Sprintf("%s ₹%sL Challenge", ct.Title(), market.Lakhs(size))
}
