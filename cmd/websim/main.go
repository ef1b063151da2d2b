// Command websim runs the web-pioneer website business simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/josephrcox/web-pioneer/internal/config"
)

func main() {
	var cfg config.Config

	root := &cobra.Command{
		Use:          "websim",
		Short:        "Run a nineties internet company, one hour at a time",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: cfg.Log.SlogLevel(),
			}))
			slog.SetDefault(logger)
			return nil
		},
	}

	root.AddCommand(
		newRunCmd(&cfg),
		newNewCmd(&cfg),
		newStatusCmd(&cfg),
		newSimulateCmd(&cfg),
		newProjectCmd(&cfg),
		newStaffCmd(&cfg),
		newOfferCmd(&cfg),
		newSpendCmd(&cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
