package sim

import (
	"math"

	"github.com/rustyeddy/evalsim/market"
	"github.com/shopspring/decimal"
)

// Fees are the per-lot economics of every simulated trade.
type Fees struct {
	CommissionPerLot market.Cash `json:"commission_per_lot" yaml:"commission_per_lot"`
	PipValuePerLot   market.Cash `json:"pip_value_per_lot" yaml:"pip_value_per_lot"`
}

func DefaultFees() Fees {
	return Fees{
		CommissionPerLot: market.Rupees(7),
		PipValuePerLot:   market.Rupees(10),
	}
}

// Commission is charged once per trade at open, regardless of outcome.
func (f Fees) Commission(lots float64) market.Cash {
	return market.FromDecimal(f.CommissionPerLot.Decimal().Mul(decimal.NewFromFloat(lots)))
}

// GrossPL is pips (signed, positive in the trade's favour) times the pip
// value per lot times lots.
func (f Fees) GrossPL(pips, lots float64) market.Cash {
	gross := decimal.NewFromFloat(pips).
		Mul(f.PipValuePerLot.Decimal()).
		Mul(decimal.NewFromFloat(lots))
	return market.FromDecimal(gross)
}

// RealizedPL is GrossPL net of commission.
func (f Fees) RealizedPL(pips, lots float64) market.Cash {
	return f.GrossPL(pips, lots) - f.Commission(lots)
}

// roundPips keeps pip counts at one decimal place.
func roundPips(p float64) float64 {
	return math.Round(p*10) / 10
}
