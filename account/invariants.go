package account

import "fmt"

// CheckInvariants verifies the ledger relationships every stored account
// must satisfy and returns an error naming the first one broken.
func CheckInvariants(a TradingAccount) error {
	if a.ID == "" {
		return fmt.Errorf("account: missing id")
	}
	if !a.ChallengeType.Valid() {
		return fmt.Errorf("account %s: unknown challenge type %q", a.ID, a.ChallengeType)
	}
	switch a.Status {
	case StatusEvaluation, StatusFunded, StatusBreached, StatusPassed:
	default:
		return fmt.Errorf("account %s: unknown status %q", a.ID, a.Status)
	}
	if a.Balance != a.AccountSize+a.PnL {
		return fmt.Errorf("account %s: balance %s != size %s + pnl %s",
			a.ID, a.Balance, a.AccountSize, a.PnL)
	}
	if a.Equity != a.Balance {
		return fmt.Errorf("account %s: equity %s != balance %s", a.ID, a.Equity, a.Balance)
	}
	if a.TradingDaysCompleted != len(a.TradingDays) {
		return fmt.Errorf("account %s: trading days completed %d != %d distinct days",
			a.ID, a.TradingDaysCompleted, len(a.TradingDays))
	}
	if a.Phase != 1 && a.Phase != 2 {
		return fmt.Errorf("account %s: phase %d out of range", a.ID, a.Phase)
	}
	return nil
}
