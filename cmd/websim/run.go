package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/josephrcox/web-pioneer/internal/api"
	"github.com/josephrcox/web-pioneer/internal/config"
	"github.com/josephrcox/web-pioneer/internal/engine"
)

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the simulation in real time with the status API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := claimApp(cfg, cfg.API.Port, runLeaseTTL)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go a.keepLease(ctx, stop)

			// Auto-save every sim-day.
			a.eng.OnStep = func(tick int) {
				if tick != 0 {
					return
				}
				a.sim.Update(func(*engine.Simulation) {
					if err := a.save(); err != nil {
						slog.Error("daily save failed", "error", err)
					}
				})
			}

			if cfg.API.Port > 0 {
				if cfg.API.AdminKey == "" {
					slog.Warn("WEBSIM_ADMIN_KEY not set, admin POST endpoints will be disabled")
				}
				srv := &api.Server{
					Sim:      a.sim,
					Eng:      a.eng,
					DB:       a.db,
					Port:     cfg.API.Port,
					AdminKey: cfg.API.AdminKey,
				}
				srv.Start(ctx)
				fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)
			}

			a.sim.View(func(s *engine.Simulation) {
				fmt.Printf("%s is online: %s users, $%s in the bank, %s.\n",
					s.Website.Name,
					humanize.Comma(int64(s.Website.Users)),
					humanize.CommafWithDigits(s.Website.Money, 2),
					engine.SimTime(s.Website.Day, a.eng.Tick),
				)
			})
			fmt.Println("Starting simulation... (Ctrl+C to stop)")

			if err := a.eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			// Final save on shutdown.
			slog.Info("final save...")
			var saveErr error
			a.sim.Update(func(*engine.Simulation) { saveErr = a.save() })
			if saveErr != nil {
				return fmt.Errorf("final save: %w", saveErr)
			}
			fmt.Println("Simulation stopped. Website state saved.")
			return nil
		},
	}
}
