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
		INSERT INTO trades
		(position_id, market_symbol, side, size, leverage, entry_price, exit_price, opened_at, closed_at, realized_pnl, realized_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PositionID, t.MarketSymbol, string(t.Side), t.Size, t.Leverage,
		t.EntryPrice, t.ExitPrice, t.OpenedAt, t.ClosedAt,
		t.RealizedPnl, t.RealizedPct, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, balance, total_value, unrealized_pnl, open_positions)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Balance, e.TotalValue, e.UnrealizedPnl, e.OpenPositions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
