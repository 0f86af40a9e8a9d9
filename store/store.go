package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/journal"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/metrics"
	"github.com/rustyeddy/evalsim/sim"
)

var ErrAccountNotFound = errors.New("account not found")

const reasonNoSelection = "no account selected"

type Options struct {
	// Storage persists the session. Nil keeps state in memory only and
	// makes Load and Save no-ops.
	Storage Storage
	Key     string

	Simulator *sim.Simulator
	Journal   journal.Journal
	Logger    *zap.Logger

	// Profile seeds new sessions. Zero uses DefaultProfile.
	Profile UserProfile
}

// Store owns the simulation state. Every mutation builds the next state
// from a copy of the current one, swaps it in and persists it.
type Store struct {
	storage Storage
	key     string
	sim     *sim.Simulator
	journal journal.Journal
	log     *zap.Logger
	profile UserProfile

	mu     sync.Mutex
	loaded bool
	state  State
}

func New(opts Options) *Store {
	if opts.Key == "" {
		opts.Key = StorageKey
	}
	if opts.Simulator == nil {
		opts.Simulator = sim.New(nil)
	}
	if opts.Journal == nil {
		opts.Journal = journal.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Profile.Name == "" {
		opts.Profile = DefaultProfile()
	}
	return &Store{
		storage: opts.Storage,
		key:     opts.Key,
		sim:     opts.Simulator,
		journal: opts.Journal,
		log:     opts.Logger,
		profile: opts.Profile,
	}
}

// Load reads the persisted state, falling back to defaults when it is
// missing or unusable. It never fails.
func (s *Store) Load(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.read(ctx)
	s.loaded = true
	return s.state.Clone()
}

func (s *Store) fresh() State {
	st := DefaultState()
	st.UserProfile = s.profile
	return st
}

func (s *Store) read(ctx context.Context) State {
	if s.storage == nil {
		return s.fresh()
	}
	blob, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("state load failed", zap.String("key", s.key), zap.Error(err))
		metrics.RecordPersistError("load")
		return s.fresh()
	}
	if !ok {
		return s.fresh()
	}
	st, err := Decode(blob)
	if err != nil {
		s.log.Warn("discarding persisted state", zap.String("key", s.key), zap.Error(err))
		metrics.RecordPersistError("decode")
		return s.fresh()
	}
	return st
}

// Save persists the current state. Failures are logged and dropped.
func (s *Store) Save(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	s.write(ctx)
}

func (s *Store) write(ctx context.Context) {
	if s.storage == nil {
		return
	}
	blob, err := s.state.Marshal()
	if err != nil {
		s.log.Warn("state encode failed", zap.Error(err))
		metrics.RecordPersistError("encode")
		return
	}
	if err := s.storage.Set(ctx, s.key, blob); err != nil {
		s.log.Warn("state save failed", zap.String("key", s.key), zap.Error(err))
		metrics.RecordPersistError("save")
	}
}

func (s *Store) ensure(ctx context.Context) {
	if !s.loaded {
		s.state = s.read(ctx)
		s.loaded = true
	}
}

// Reset drops every account, restores the default profile and removes the
// persisted blob.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.fresh()
	s.loaded = true
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.log.Warn("state delete failed", zap.String("key", s.key), zap.Error(err))
		metrics.RecordPersistError("delete")
	}
}

func (s *Store) Close() error {
	var errs []error
	if err := s.journal.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// State returns a deep copy of the whole session.
func (s *Store) State(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	return s.state.Clone()
}

func (s *Store) Account(ctx context.Context, id string) (account.TradingAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	i := s.state.Find(id)
	if i < 0 {
		return account.TradingAccount{}, fmt.Errorf("%q: %w", id, ErrAccountNotFound)
	}
	return s.state.Accounts[i].Clone(), nil
}

// Selected returns the selected account, if any.
func (s *Store) Selected(ctx context.Context) (account.TradingAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(ctx)
	i := s.state.Selected()
	if i < 0 {
		return account.TradingAccount{}, false
	}
	return s.state.Accounts[i].Clone(), true
}

// Quote draws a price for symbol from the session's generator.
func (s *Store) Quote(symbol string) market.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sim.Prices.Quote(symbol)
}

// mutate applies fn to a copy of the state and commits it when fn succeeds.
func (s *Store) mutate(ctx context.Context, fn func(next *State) error) error {
	s.ensure(ctx)
	next := s.state.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.state = next
	s.write(ctx)
	return nil
}

// SelectAccount makes id the working account. An empty id clears the
// selection. An unknown id leaves it untouched and returns
// ErrAccountNotFound.
func (s *Store) SelectAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(next *State) error {
		if id == "" {
			next.SelectedAccountID = nil
			return nil
		}
		if next.Find(id) < 0 {
			return fmt.Errorf("select %q: %w", id, ErrAccountNotFound)
		}
		next.SelectedAccountID = &id
		return nil
	})
}

// CreateAccount appends a fresh evaluation account and selects it.
func (s *Store) CreateAccount(ctx context.Context, size market.Cash, ct account.ChallengeType, name string) (account.TradingAccount, error) {
	a, err := account.New(size, ct, name, s.sim.Now())
	if err != nil {
		return account.TradingAccount{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.mutate(ctx, func(next *State) error {
		next.Accounts = append(next.Accounts, a.Clone())
		sel := a.ID
		next.SelectedAccountID = &sel
		return nil
	})
	if err != nil {
		return account.TradingAccount{}, err
	}

	metrics.RecordAccountCreated(string(ct))
	s.log.Info("account created",
		zap.String("account", a.ID),
		zap.String("challenge", string(ct)),
		zap.String("size", market.FormatINR(size)),
	)
	return a, nil
}

// DeleteAccount removes id and clears the selection if it pointed there.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(next *State) error {
		i := next.Find(id)
		if i < 0 {
			return fmt.Errorf("delete %q: %w", id, ErrAccountNotFound)
		}
		next.Accounts = append(next.Accounts[:i], next.Accounts[i+1:]...)
		if next.SelectedAccountID != nil && *next.SelectedAccountID == id {
			next.SelectedAccountID = nil
		}
		return nil
	})
}

// UpdateProfile replaces the trader profile. Trading never touches it.
func (s *Store) UpdateProfile(ctx context.Context, p UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, func(next *State) error {
		next.UserProfile = p
		return nil
	})
}

// ExecuteTrade runs a quick trade on the selected account. With no
// selection, or a terminal account, nothing changes and the Result is
// marked skipped.
func (s *Store) ExecuteTrade(ctx context.Context, req sim.TradeRequest) (sim.Result, error) {
	return s.onSelected(ctx, journal.ReasonQuick, func(a account.TradingAccount) (account.TradingAccount, sim.Result, error) {
		return s.sim.SimulateTrade(a, req)
	})
}

// OpenTrade opens a position on the selected account.
func (s *Store) OpenTrade(ctx context.Context, req sim.OpenRequest) (sim.Result, error) {
	return s.onSelected(ctx, "", func(a account.TradingAccount) (account.TradingAccount, sim.Result, error) {
		return s.sim.OpenTrade(a, req)
	})
}

// CloseTrade closes an open position on the selected account at market.
func (s *Store) CloseTrade(ctx context.Context, tradeID string) (sim.Result, error) {
	return s.onSelected(ctx, journal.ReasonManual, func(a account.TradingAccount) (account.TradingAccount, sim.Result, error) {
		return s.sim.CloseTrade(a, tradeID)
	})
}

// CheckTriggers marks every account's open positions to a fresh quote
// and closes those whose stop loss or take profit was reached.
func (s *Store) CheckTriggers(ctx context.Context) []sim.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []sim.Result
	_ = s.mutate(ctx, func(next *State) error {
		for i := range next.Accounts {
			a, results := s.sim.CheckTriggers(next.Accounts[i])
			next.Accounts[i] = a
			for _, res := range results {
				s.observe(res, triggerReason(res.Trade))
			}
			all = append(all, results...)
		}
		return nil
	})
	return all
}

func triggerReason(t *account.Trade) string {
	if t != nil && t.StopLoss != nil && t.ExitPrice != nil && *t.ExitPrice == *t.StopLoss {
		return journal.ReasonStopLoss
	}
	return journal.ReasonTakeProfit
}

func (s *Store) onSelected(ctx context.Context, reason string, op func(account.TradingAccount) (account.TradingAccount, sim.Result, error)) (sim.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res sim.Result
	err := s.mutate(ctx, func(next *State) error {
		i := next.Selected()
		if i < 0 {
			res = sim.Result{Skipped: true, Reason: reasonNoSelection}
			return nil
		}
		a, r, err := op(next.Accounts[i])
		if err != nil {
			return err
		}
		next.Accounts[i] = a
		res = r
		if reason != "" {
			s.observe(r, reason)
		}
		return nil
	})
	if err != nil {
		return sim.Result{}, err
	}
	if res.Skipped {
		metrics.RecordSkipped(res.Reason)
		s.log.Debug("trade skipped", zap.String("reason", res.Reason))
	}
	return res, nil
}

// observe forwards a booked close to the journal, metrics and log. The
// equity snapshot is the ledger right after this close, not after any
// later close in the same batch.
func (s *Store) observe(res sim.Result, reason string) {
	if res.Skipped || res.Trade == nil || res.Trade.Open() || res.Ledger == nil {
		return
	}
	t := res.Trade
	a := *res.Ledger

	if err := s.journal.RecordTrade(journal.FromTrade(a.ID, *t, reason)); err != nil {
		s.log.Warn("journal trade failed", zap.String("trade", t.ID), zap.Error(err))
	}
	if err := s.journal.RecordEquity(journal.SnapshotOf(a, *t.CloseTime)); err != nil {
		s.log.Warn("journal equity failed", zap.String("account", a.ID), zap.Error(err))
	}

	metrics.RecordTrade(t.Symbol, string(t.Direction), t.PnL > 0)
	if res.AdvancedPhase {
		metrics.RecordPhaseAdvance()
		s.log.Info("advanced to phase 2", zap.String("account", a.ID))
	}
	if res.StatusChanged() {
		metrics.RecordStatusTransition(string(a.ChallengeType), string(res.Decision.Status))
		s.log.Info("account status changed",
			zap.String("account", a.ID),
			zap.String("from", string(res.PrevStatus)),
			zap.String("to", string(res.Decision.Status)),
			zap.String("reason", res.Decision.Reason()),
		)
	}

	s.log.Debug("trade closed",
		zap.String("account", a.ID),
		zap.String("trade", t.ID),
		zap.String("symbol", t.Symbol),
		zap.Float64("pips", t.Pips),
		zap.String("pnl", t.PnL.String()),
		zap.String("reason", reason),
	)
}
