package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, account_id, symbol, direction, lots, entry_price, exit_price,
		 open_time, close_time, pips, pnl, commission, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.AccountID, t.Symbol, t.Direction, t.Lots, t.EntryPrice, t.ExitPrice,
		t.OpenTime, t.CloseTime, t.Pips, int64(t.PnL), int64(t.Commission), t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(account_id, time, balance, equity, pnl, daily_pnl, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.AccountID, e.Time, int64(e.Balance), int64(e.Equity), int64(e.PnL), int64(e.DailyPnL), e.Status,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
