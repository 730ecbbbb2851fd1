package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bangperp/perpsim/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a default config file (format by extension: .yaml or .json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(args[0]); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(initCmd)
	return cmd
}
