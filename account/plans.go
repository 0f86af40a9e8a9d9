package account

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/evalsim/market"
)

// Terms are the fee and rule thresholds for one plan and challenge type.
// Percentages are of the account size.
type Terms struct {
	Fee             market.Cash `json:"fee" yaml:"fee"`
	TargetPct       float64     `json:"targetPercent" yaml:"target_percent"`
	Phase2TargetPct float64     `json:"phase2TargetPercent,omitempty" yaml:"phase2_target_percent,omitempty"`
	DailyLossPct    float64     `json:"dailyLossPercent" yaml:"daily_loss_percent"`
	MaxLossPct      float64     `json:"maxLossPercent" yaml:"max_loss_percent"`
}

// Plan is one purchasable account size.
type Plan struct {
	Size  market.Cash
	Terms map[ChallengeType]Terms
}

// DefaultMinTradingDays is the minimum number of distinct trading days
// before any evaluation can pass.
const DefaultMinTradingDays = 3

var (
	oneStepTerms = Terms{TargetPct: 8, DailyLossPct: 4, MaxLossPct: 6}
	twoStepTerms = Terms{TargetPct: 8, Phase2TargetPct: 5, DailyLossPct: 5, MaxLossPct: 10}
)

func plan(rupees int64, oneStepFee, twoStepFee int64) Plan {
	one, two := oneStepTerms, twoStepTerms
	one.Fee = market.Rupees(oneStepFee)
	two.Fee = market.Rupees(twoStepFee)
	return Plan{
		Size:  market.Rupees(rupees),
		Terms: map[ChallengeType]Terms{OneStep: one, TwoStep: two},
	}
}

// Plans is keyed by account size.
var Plans = map[market.Cash]Plan{
	market.Rupees(50000):   plan(50000, 999, 799),
	market.Rupees(100000):  plan(100000, 1999, 1499),
	market.Rupees(250000):  plan(250000, 4499, 3499),
	market.Rupees(500000):  plan(500000, 7999, 6499),
	market.Rupees(1000000): plan(1000000, 14999, 11999),
}

// Sizes returns the offered account sizes, smallest first.
func Sizes() []market.Cash {
	out := make([]market.Cash, 0, len(Plans))
	for size := range Plans {
		out = append(out, size)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LookupTerms returns the terms for size and challenge type or a
// *ConfigurationError if either is not offered.
func LookupTerms(size market.Cash, ct ChallengeType) (Terms, error) {
	if !ct.Valid() {
		return Terms{}, &ConfigurationError{Field: "challengeType", Value: string(ct)}
	}
	p, ok := Plans[size]
	if !ok {
		return Terms{}, &ConfigurationError{Field: "accountSize", Value: size.String()}
	}
	return p.Terms[ct], nil
}

// ConfigurationError reports an account request the plan table cannot serve.
type ConfigurationError struct {
	Field string
	Value string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: unsupported %s %q", e.Field, e.Value)
}
