package account

import (
	"time"

	"github.com/rustyeddy/evalsim/market"
)

type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

func (d Direction) Valid() bool {
	return d == Buy || d == Sell
}

// Sign is +1 for buy and -1 for sell.
func (d Direction) Sign() int {
	if d == Sell {
		return -1
	}
	return 1
}

type TradeStatus string

const (
	TradeOpen   TradeStatus = "open"
	TradeClosed TradeStatus = "closed"
)

// Trade is one simulated position. It moves from open to closed exactly
// once and never changes afterwards.
type Trade struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	Direction  Direction   `json:"type"`
	Lots       float64     `json:"lots"`
	EntryPrice float64     `json:"entryPrice"`
	ExitPrice  *float64    `json:"exitPrice"`
	StopLoss   *float64    `json:"stopLoss"`
	TakeProfit *float64    `json:"takeProfit"`
	OpenTime   time.Time   `json:"openTime"`
	CloseTime  *time.Time  `json:"closeTime"`
	Pips       float64     `json:"pips"`
	PnL        market.Cash `json:"pnl"`
	Commission market.Cash `json:"commission"`
	Status     TradeStatus `json:"status"`
}

func (t Trade) Clone() Trade {
	out := t
	out.ExitPrice = clonePtr(t.ExitPrice)
	out.StopLoss = clonePtr(t.StopLoss)
	out.TakeProfit = clonePtr(t.TakeProfit)
	out.CloseTime = clonePtr(t.CloseTime)
	return out
}

func (t Trade) Open() bool {
	return t.Status == TradeOpen
}

// Duration is the holding time of a closed trade.
func (t Trade) Duration() time.Duration {
	if t.CloseTime == nil {
		return 0
	}
	return t.CloseTime.Sub(t.OpenTime)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
