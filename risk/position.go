package risk

import (
	"math"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
)

// Sizing describes the cost side of a trade used to size it.
type Sizing struct {
	StopPips         float64
	PipValuePerLot   market.Cash
	CommissionPerLot market.Cash
	LotStep          float64 // 0.01
}

// MaxLots returns the largest lot size, in LotStep increments, whose loss at
// StopPips (commission included) still leaves the account inside both loss
// limits. Zero means no trade fits.
func MaxLots(a account.TradingAccount, s Sizing) float64 {
	if s.StopPips <= 0 {
		return 0
	}
	step := s.LotStep
	if step <= 0 {
		step = 0.01
	}

	perLot := s.StopPips*float64(s.PipValuePerLot) + float64(s.CommissionPerLot)
	if perLot <= 0 {
		return 0
	}

	// Stay strictly inside the limit: losing exactly the headroom breaches.
	room := float64(RemainingHeadroom(a).Min()) - 1
	if room <= 0 {
		return 0
	}

	steps := math.Floor(room / perLot / step)
	return math.Round(steps*step*100) / 100
}
