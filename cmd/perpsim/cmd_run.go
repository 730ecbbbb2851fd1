package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bangperp/perpsim/app"
	"github.com/bangperp/perpsim/config"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		runFor     time.Duration
		feedAddr   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if feedAddr != "" {
				cfg.Feed.Enabled = true
				cfg.Feed.Addr = feedAddr
			}

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if runFor > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, runFor)
				defer cancel()
			}

			return a.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML or JSON)")
	cmd.Flags().DurationVar(&runFor, "for", 0, "stop after this duration (default: run until interrupted)")
	cmd.Flags().StringVar(&feedAddr, "feed", "", "enable the WebSocket feed on this address (e.g. :8787)")

	return cmd
}
