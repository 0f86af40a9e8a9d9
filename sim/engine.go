package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/internal/id"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/risk"
)

// DefaultWinProbability is the chance a random-outcome trade wins.
const DefaultWinProbability = 0.6

// Pip moves of quick trades are drawn uniformly from [MinPips, MaxPips].
const (
	MinPips = 20.0
	MaxPips = 80.0
)

// Simulator turns trade requests into ledger updates. It never mutates the
// account it is given; every operation returns the next account state.
// A Simulator is not safe for concurrent use because Rand is not.
type Simulator struct {
	Prices         *market.Generator
	Rand           market.Source
	Clock          func() time.Time
	Policy         risk.Policy
	Fees           Fees
	WinProbability float64
}

// New returns a Simulator drawing prices and outcomes from r.
func New(r market.Source) *Simulator {
	if r == nil {
		r = market.NewSource(0)
	}
	return &Simulator{
		Prices:         market.NewGenerator(r),
		Rand:           r,
		Clock:          time.Now,
		Policy:         risk.DefaultPolicy(),
		Fees:           DefaultFees(),
		WinProbability: DefaultWinProbability,
	}
}

// Now reads the simulator clock.
func (s *Simulator) Now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}

// SimulateTrade synthesizes a trade that is already closed and books it.
// Terminal accounts are returned unchanged with a skipped Result.
func (s *Simulator) SimulateTrade(a account.TradingAccount, req TradeRequest) (account.TradingAccount, Result, error) {
	if a.Status.Terminal() {
		return a, skipped(a, fmt.Sprintf("account is %s", a.Status)), nil
	}
	if req.Outcome == "" {
		req.Outcome = Random
	}
	if err := req.Validate(); err != nil {
		return a, Result{}, fmt.Errorf("simulate trade: %w", err)
	}

	win := req.Outcome == Win
	if req.Outcome == Random {
		win = s.Rand.Float64() < s.WinProbability
	}
	pips := MinPips + roundPips(s.Rand.Float64()*(MaxPips-MinPips))

	meta := market.Lookup(req.Symbol)
	q := s.Prices.Quote(req.Symbol)

	entry := q.Ask
	if req.Direction == account.Sell {
		entry = q.Bid
	}

	favour := 1.0
	signed := pips
	if !win {
		favour = -1
		signed = -pips
	}
	exit := entry + float64(req.Direction.Sign())*favour*pips*meta.PipSize

	now := s.Now()
	opened := now.Add(-time.Duration(s.Rand.Float64() * float64(time.Hour)))
	closed := now

	t := account.Trade{
		ID:         id.NewAt(now),
		Symbol:     req.Symbol,
		Direction:  req.Direction,
		Lots:       req.Lots,
		EntryPrice: entry,
		ExitPrice:  &exit,
		OpenTime:   opened,
		CloseTime:  &closed,
		Pips:       signed,
		PnL:        s.Fees.RealizedPL(signed, req.Lots),
		Commission: s.Fees.Commission(req.Lots),
		Status:     account.TradeClosed,
	}

	next, res := s.applyClosedTrade(a, t, now)
	return next, res, nil
}

// OpenTrade adds an open position at the current ask (buy) or bid (sell).
// Until it closes the position only carries its commission as P&L and does
// not move the balance.
func (s *Simulator) OpenTrade(a account.TradingAccount, req OpenRequest) (account.TradingAccount, Result, error) {
	if a.Status.Terminal() {
		return a, skipped(a, fmt.Sprintf("account is %s", a.Status)), nil
	}
	if err := req.Validate(); err != nil {
		return a, Result{}, fmt.Errorf("open trade: %w", err)
	}

	q := s.Prices.Quote(req.Symbol)
	entry := q.Ask
	if req.Direction == account.Sell {
		entry = q.Bid
	}

	if err := checkLevels(req, entry); err != nil {
		return a, Result{}, fmt.Errorf("open trade: %w", err)
	}

	now := s.Now()
	commission := s.Fees.Commission(req.Lots)
	t := account.Trade{
		ID:         id.NewAt(now),
		Symbol:     req.Symbol,
		Direction:  req.Direction,
		Lots:       req.Lots,
		EntryPrice: entry,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		OpenTime:   now,
		PnL:        -commission,
		Commission: commission,
		Status:     account.TradeOpen,
	}

	next := a.Clone()
	next.Trades = append(next.Trades, t)
	return next, Result{
		Trade:      &t,
		PrevStatus: a.Status,
		Decision:   risk.Decision{Status: a.Status},
	}, nil
}

// CloseTrade closes an open position at the current market price.
// Longs close on the bid, shorts on the ask.
func (s *Simulator) CloseTrade(a account.TradingAccount, tradeID string) (account.TradingAccount, Result, error) {
	if a.Status.Terminal() {
		return a, skipped(a, fmt.Sprintf("account is %s", a.Status)), nil
	}

	idx := a.FindTrade(tradeID)
	if idx < 0 {
		return a, Result{}, fmt.Errorf("close trade: %q: %w", tradeID, ErrTradeNotFound)
	}
	t := a.Trades[idx]
	if !t.Open() {
		return a, Result{}, fmt.Errorf("close trade: %q: %w", tradeID, ErrTradeClosed)
	}

	q := s.Prices.Quote(t.Symbol)
	exit := q.Bid
	if t.Direction == account.Sell {
		exit = q.Ask
	}

	next, res := s.closeAt(a, t, exit, s.Now())
	return next, res, nil
}

// CheckTriggers draws a fresh quote for every open position and closes the
// ones whose stop loss or take profit was touched, at the trigger level.
func (s *Simulator) CheckTriggers(a account.TradingAccount) (account.TradingAccount, []Result) {
	var results []Result
	for _, t := range a.OpenTrades() {
		if a.Status.Terminal() {
			break
		}

		q := s.Prices.Quote(t.Symbol)
		mark := q.Bid
		if t.Direction == account.Sell {
			mark = q.Ask
		}

		var exit float64
		switch {
		case hitStopLoss(t, mark):
			exit = *t.StopLoss
		case hitTakeProfit(t, mark):
			exit = *t.TakeProfit
		default:
			continue
		}

		var res Result
		a, res = s.closeAt(a, t, exit, s.Now())
		results = append(results, res)
	}
	return a, results
}

func (s *Simulator) closeAt(a account.TradingAccount, t account.Trade, exit float64, now time.Time) (account.TradingAccount, Result) {
	meta := market.Lookup(t.Symbol)
	pips := roundPips(float64(t.Direction.Sign()) * (exit - t.EntryPrice) / meta.PipSize)

	closed := t.Clone()
	closed.ExitPrice = &exit
	closed.CloseTime = &now
	closed.Pips = pips
	closed.PnL = s.Fees.GrossPL(pips, t.Lots) - t.Commission
	closed.Status = account.TradeClosed

	return s.applyClosedTrade(a, closed, now)
}
