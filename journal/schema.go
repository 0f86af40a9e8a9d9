// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	direction TEXT NOT NULL,
	lots REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	pips REAL NOT NULL,
	pnl INTEGER NOT NULL,
	commission INTEGER NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_close_time ON trades(close_time);
CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);

CREATE TABLE IF NOT EXISTS equity (
	account_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	balance INTEGER NOT NULL,
	equity INTEGER NOT NULL,
	pnl INTEGER NOT NULL,
	daily_pnl INTEGER NOT NULL,
	status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
