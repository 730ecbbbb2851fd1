package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "perpsim",
		Short: "Leveraged perpetual-position trading simulator",
		Long: `perpsim runs a simulated perpetual exchange: a random-walk price feed,
a leveraged position ledger with persistent balance and history, and an
optional WebSocket live feed for UIs.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
