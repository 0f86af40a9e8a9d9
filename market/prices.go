package market

import (
	"math/rand"
	"time"
)

// Source is the randomness the simulator draws from. *rand.Rand satisfies
// it; tests substitute fixed sequences.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded PRNG. A zero seed uses the current time.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

type Quote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
}

func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// Generator synthesizes quotes as a random draw around each symbol's base
// price. It keeps no history: every call is an independent draw.
type Generator struct {
	Rand Source
}

func NewGenerator(r Source) *Generator {
	if r == nil {
		r = NewSource(0)
	}
	return &Generator{Rand: r}
}

// Quote returns a bid/ask for symbol. bid is the drawn mid, ask adds the
// configured spread.
func (g *Generator) Quote(symbol string) Quote {
	meta := Lookup(symbol)
	mid := meta.BasePrice + (g.Rand.Float64()-0.5)*meta.Volatility
	return Quote{
		Symbol: symbol,
		Bid:    mid,
		Ask:    mid + meta.SpreadPips*meta.PipSize,
	}
}
