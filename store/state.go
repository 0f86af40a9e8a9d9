package store

import (
	"encoding/json"
	"fmt"

	"github.com/rustyeddy/evalsim/account"
	"github.com/rustyeddy/evalsim/market"
)

// StorageKey names the persisted session blob.
const StorageKey = "prop-firm-simulation-state"

// UserProfile is the simulated trader.
type UserProfile struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	TotalPayouts market.Cash `json:"totalPayouts"`
	PayoutCount  int         `json:"payoutCount"`
}

// State is everything one simulation session persists.
type State struct {
	Accounts          []account.TradingAccount `json:"accounts"`
	SelectedAccountID *string                  `json:"selectedAccountId"`
	UserProfile       UserProfile              `json:"userProfile"`
}

func DefaultProfile() UserProfile {
	return UserProfile{
		Name:  "Demo Trader",
		Email: "demo@propfirm.in",
	}
}

func DefaultState() State {
	return State{
		Accounts:    []account.TradingAccount{},
		UserProfile: DefaultProfile(),
	}
}

func (s State) Clone() State {
	out := s
	out.Accounts = make([]account.TradingAccount, len(s.Accounts))
	for i, a := range s.Accounts {
		out.Accounts[i] = a.Clone()
	}
	if s.SelectedAccountID != nil {
		sel := *s.SelectedAccountID
		out.SelectedAccountID = &sel
	}
	return out
}

// Find returns the index of the account with id, or -1.
func (s *State) Find(id string) int {
	for i := range s.Accounts {
		if s.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the index of the selected account, or -1.
func (s *State) Selected() int {
	if s.SelectedAccountID == nil {
		return -1
	}
	return s.Find(*s.SelectedAccountID)
}

func (s State) Marshal() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a persisted blob and rejects any account whose ledger does
// not hold together. A selection pointing at a missing account is cleared.
func Decode(blob string) (State, error) {
	var st State
	if err := json.Unmarshal([]byte(blob), &st); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}
	if st.Accounts == nil {
		st.Accounts = []account.TradingAccount{}
	}
	for i := range st.Accounts {
		if st.Accounts[i].TradingDays == nil {
			st.Accounts[i].TradingDays = map[string]account.DayStat{}
		}
		if err := account.CheckInvariants(st.Accounts[i]); err != nil {
			return State{}, fmt.Errorf("decode state: %w", err)
		}
	}
	if st.SelectedAccountID != nil && st.Selected() < 0 {
		st.SelectedAccountID = nil
	}
	if st.UserProfile.Name == "" {
		st.UserProfile = DefaultProfile()
	}
	return st, nil
}
