package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/risk"
)

var (
	ErrInvalidTrade  = errors.New("invalid trade")
	ErrTradeNotFound = errors.New("trade not found")
	ErrTradeClosed   = errors.New("trade already closed")
)

// Outcome forces the result of a quick trade.
type Outcome string

const (
	Win    Outcome = "win"
	Loss   Outcome = "loss"
	Random Outcome = "random"
)

func (o Outcome) Valid() bool {
	return o == Win || o == Loss || o == Random
}

// MaxLots caps the size of a single simulated trade.
const MaxLots = 100.0

// TradeRequest asks for a quick trade: opened and closed in one step.
type TradeRequest struct {
	Symbol    string            `json:"symbol"`
	Direction account.Direction `json:"type"`
	Lots      float64           `json:"lots"`
	Outcome   Outcome           `json:"outcome"`
}

func (r TradeRequest) Validate() error {
	if r.Outcome == "" {
		r.Outcome = Random
	}
	if !r.Outcome.Valid() {
		return fmt.Errorf("%w: outcome %q", ErrInvalidTrade, r.Outcome)
	}
	return validateOrder(r.Symbol, r.Direction, r.Lots)
}

// OpenRequest opens a position that stays open until CloseTrade or a
// stop/target trigger.
type OpenRequest struct {
	Symbol     string            `json:"symbol"`
	Direction  account.Direction `json:"type"`
	Lots       float64           `json:"lots"`
	StopLoss   *float64          `json:"stopLoss,omitempty"`
	TakeProfit *float64          `json:"takeProfit,omitempty"`
}

func (r OpenRequest) Validate() error {
	return validateOrder(r.Symbol, r.Direction, r.Lots)
}

// checkLevels rejects a stop loss or take profit on the wrong side of entry.
func checkLevels(r OpenRequest, entry float64) error {
	if r.Direction == account.Buy {
		if r.StopLoss != nil && *r.StopLoss >= entry {
			return fmt.Errorf("%w: buy stop loss %g not below entry %g", ErrInvalidTrade, *r.StopLoss, entry)
		}
		if r.TakeProfit != nil && *r.TakeProfit <= entry {
			return fmt.Errorf("%w: buy take profit %g not above entry %g", ErrInvalidTrade, *r.TakeProfit, entry)
		}
		return nil
	}
	if r.StopLoss != nil && *r.StopLoss <= entry {
		return fmt.Errorf("%w: sell stop loss %g not above entry %g", ErrInvalidTrade, *r.StopLoss, entry)
	}
	if r.TakeProfit != nil && *r.TakeProfit >= entry {
		return fmt.Errorf("%w: sell take profit %g not below entry %g", ErrInvalidTrade, *r.TakeProfit, entry)
	}
	return nil
}

func validateOrder(symbol string, dir account.Direction, lots float64) error {
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidTrade)
	}
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidTrade, dir)
	}
	if lots <= 0 || lots > MaxLots {
		return fmt.Errorf("%w: lots %g outside (0, %g]", ErrInvalidTrade, lots, MaxLots)
	}
	return nil
}

// Result describes what a trade operation did to an account.
type Result struct {
	Trade      *account.Trade `json:"trade,omitempty"`
	Decision   risk.Decision  `json:"decision"`
	PrevStatus account.Status `json:"previousStatus"`

	// AdvancedPhase is set when the trade moved a two-step account into
	// phase 2.
	AdvancedPhase bool `json:"advancedPhase,omitempty"`

	// Ledger is the account as it stood right after Trade closed. It is
	// zero for skipped operations and for opens.
	Ledger *account.TradingAccount `json:"-"`

	// Skipped operations leave the account unchanged.
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// StatusChanged reports whether the operation moved the account to a new
// lifecycle status.
func (r Result) StatusChanged() bool {
	return !r.Skipped && r.Trade != nil && r.Decision.Status != r.PrevStatus
}

func skipped(a account.TradingAccount, reason string) Result {
	return Result{
		Skipped:    true,
		Reason:     reason,
		PrevStatus: a.Status,
		Decision:   risk.Decision{Status: a.Status},
	}
}
