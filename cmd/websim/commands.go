package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/josephrcox/web-pioneer/internal/config"
	"github.com/josephrcox/web-pioneer/internal/economy"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/site"
)

func newNewCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Found a new website and make it current",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			w, err := create(cfg, name)
			if err != nil {
				return err
			}
			fmt.Printf("Founded %s (%s) with $%s.\n", w.Name, w.ID, humanize.Comma(int64(w.Money)))
			return nil
		},
	}
}

func newStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current website",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.sim.View(func(s *engine.Simulation) {
				printStatus(s, a.eng)
			})
			return nil
		},
	}
}

func printStatus(s *engine.Simulation, eng *engine.Engine) {
	w := s.Website
	fmt.Printf("%s  %s", w.Name, engine.SimTime(w.Day, eng.Tick))
	if eng.Paused() {
		fmt.Print("  [paused]")
	}
	fmt.Println()
	fmt.Printf("  users      %s / %s capacity (%+.1f/day)\n",
		humanize.Comma(int64(w.Users)), humanize.Comma(int64(w.ServerCosts.UserCapacity)), w.UserChanges.RollingAverage)
	fmt.Printf("  retention  %.1f%%\n", w.Retention*100)
	fmt.Printf("  money      $%s (%s/day)\n",
		humanize.CommafWithDigits(w.Money, 2), signedMoney(w.ProfitChanges.RollingAverage))
	fmt.Printf("  valuation  $%s, %.0f%% sold\n", humanize.Comma(int64(economy.Valuation(w))), w.OwnershipSold())
	fmt.Printf("  score      %.1f\n", w.Scores.Total())

	if len(w.Employees) > 0 {
		fmt.Println("staff:")
		for _, e := range w.SortedEmployees() {
			state := "idle"
			if w.Busy(e.ID, s.Catalog) {
				state = "busy"
			}
			fmt.Printf("  #%-3d %-22s %-12s xp %-6s happy %3.0f  $%s/wk  %s\n",
				e.ID, e.Name, e.Role, humanize.Comma(int64(e.XP)), e.Happiness, humanize.Comma(int64(e.Salary)), state)
		}
	}
	if len(w.Projects) > 0 {
		fmt.Println("projects:")
		for _, name := range w.ProjectNames() {
			fmt.Printf("  %-32s %s\n", name, projectState(w.Projects[name]))
		}
	}
	if len(w.Offers) > 0 {
		fmt.Println("offers:")
		for _, o := range w.Offers {
			fmt.Printf("  %s  %s wants %.0f%% at $%s (expires day %d)\n",
				o.ID, o.Firm, o.Percent, humanize.Comma(int64(o.Valuation)), o.Expires)
		}
	}
}

func projectState(r *site.ProjectRecord) string {
	switch {
	case r.Completed && r.Enabled:
		return "live"
	case r.Completed:
		return "disabled"
	}
	c := r.CostsRemaining
	return fmt.Sprintf("in progress (product %.1f, engineering %.1f, design %.1f, growth %.1f), %d assigned",
		max(0, c.Product), max(0, c.Engineering), max(0, c.Design), max(0, c.Growth), len(r.Assignees))
}

func signedMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 2)
	}
	return "+$" + humanize.CommafWithDigits(v, 2)
}

func newSimulateCmd(cfg *config.Config) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance the simulation without waiting for the clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			a, err := claimApp(cfg, 0, runLeaseTTL)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go a.keepLease(ctx, cancel)

			var saveErr error
			a.eng.OnStep = func(tick int) {
				if tick != 0 || saveErr != nil {
					return
				}
				a.sim.Update(func(*engine.Simulation) { saveErr = a.save() })
			}

			if a.eng.Paused() {
				return fmt.Errorf("simulation is paused")
			}
			for range days * site.TicksPerDay {
				if err := ctx.Err(); err != nil {
					return err
				}
				a.eng.Step()
				if saveErr != nil {
					return saveErr
				}
			}
			a.sim.Update(func(*engine.Simulation) { saveErr = a.save() })
			if saveErr != nil {
				return saveErr
			}

			a.sim.View(func(s *engine.Simulation) {
				printStatus(s, a.eng)
			})
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "in-game days to simulate")
	return cmd
}
