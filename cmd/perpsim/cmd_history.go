package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bangperp/perpsim/journal"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the trade journal",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "./perpsim.sqlite", "path to SQLite journal DB")

	trade := &cobra.Command{
		Use:   "trade <position_id>",
		Short: "Show a single closed trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer j.Close()

			rec, err := j.GetTrade(args[0])
			if err != nil {
				return err
			}
			fmt.Println(journal.FormatTrade(rec))
			return nil
		},
	}

	today := &cobra.Command{
		Use:   "today",
		Short: "List trades closed today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(dbPath, time.Now().Local().Format("2006-01-02"))
		},
	}

	day := &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "List trades closed on a given day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDay(dbPath, args[0])
		},
	}

	cmd.AddCommand(trade, today, day)
	return cmd
}

func listDay(dbPath, day string) error {
	start, end, err := dayBounds(time.Local, day)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	fmt.Println(journal.FormatTrades(recs))
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.Add(24 * time.Hour), nil
}
