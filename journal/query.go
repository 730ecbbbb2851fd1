package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bangperp/perpsim/margin"
)

// GetTrade returns a single trade record by position ID.
func (j *SQLite) GetTrade(positionID string) (TradeRecord, error) {
	row := j.db.QueryRow(`
		SELECT position_id, market_symbol, side, size, leverage, entry_price, exit_price, opened_at, closed_at, realized_pnl, realized_pct, reason
		FROM trades
		WHERE position_id = ?`, positionID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", positionID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns trades whose closed_at is within [start, end),
// oldest first.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT position_id, market_symbol, side, size, leverage, entry_price, exit_price, opened_at, closed_at, realized_pnl, realized_pct, reason
		FROM trades
		WHERE closed_at >= ? AND closed_at < ?
		ORDER BY closed_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	var side string
	err := s.Scan(
		&rec.PositionID,
		&rec.MarketSymbol,
		&side,
		&rec.Size,
		&rec.Leverage,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenedAt,
		&rec.ClosedAt,
		&rec.RealizedPnl,
		&rec.RealizedPct,
		&rec.Reason,
	)
	rec.Side = margin.Side(side)
	return rec, err
}
