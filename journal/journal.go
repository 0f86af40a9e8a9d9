// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
)

// TradeRecord is one closed evaluation trade.
type TradeRecord struct {
	AccountID  string
	TradeID    string
	Symbol     string
	Direction  string
	Lots       float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	Pips       float64
	PnL        market.Cash
	Commission market.Cash
	Reason     string
}

// EquitySnapshot is the ledger of one account right after a trade closed.
type EquitySnapshot struct {
	AccountID string
	Time      time.Time
	Balance   market.Cash
	Equity    market.Cash
	PnL       market.Cash
	DailyPnL  market.Cash
	Status    string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Reasons recorded with each trade.
const (
	ReasonQuick      = "quick"
	ReasonManual     = "manual"
	ReasonStopLoss   = "stop-loss"
	ReasonTakeProfit = "take-profit"
)

// FromTrade builds the record for a closed trade.
func FromTrade(accountID string, t account.Trade, reason string) TradeRecord {
	rec := TradeRecord{
		AccountID:  accountID,
		TradeID:    t.ID,
		Symbol:     t.Symbol,
		Direction:  string(t.Direction),
		Lots:       t.Lots,
		EntryPrice: t.EntryPrice,
		OpenTime:   t.OpenTime,
		Pips:       t.Pips,
		PnL:        t.PnL,
		Commission: t.Commission,
		Reason:     reason,
	}
	if t.ExitPrice != nil {
		rec.ExitPrice = *t.ExitPrice
	}
	if t.CloseTime != nil {
		rec.CloseTime = *t.CloseTime
	}
	return rec
}

// SnapshotOf captures the ledger of a at the given time.
func SnapshotOf(a account.TradingAccount, at time.Time) EquitySnapshot {
	return EquitySnapshot{
		AccountID: a.ID,
		Time:      at,
		Balance:   a.Balance,
		Equity:    a.Equity,
		PnL:       a.PnL,
		DailyPnL:  a.DailyPnL,
		Status:    string(a.Status),
	}
}

// Discard drops every record.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error { return nil }

func (Discard) RecordEquity(EquitySnapshot) error { return nil }

func (Discard) Close() error { return nil }
