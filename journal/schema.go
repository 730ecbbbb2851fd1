package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	position_id TEXT PRIMARY KEY,
	market_symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	size REAL NOT NULL,
	leverage REAL NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	opened_at DATETIME NOT NULL,
	closed_at DATETIME NOT NULL,
	realized_pnl REAL NOT NULL,
	realized_pct REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_closed_at ON trades(closed_at);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	total_value REAL NOT NULL,
	unrealized_pnl REAL NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
