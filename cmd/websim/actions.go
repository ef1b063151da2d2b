package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/josephrcox/web-pioneer/internal/config"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/site"
)

// action applies cmd. While a running simulation owns the website the
// command is sent to its API instead, so the two never save over each other.
func action(cfg *config.Config, cmd engine.Command) error {
	a, err := claimApp(cfg, 0, actionLeaseTTL)
	var busy *busyError
	if errors.As(err, &busy) {
		return sendCommand(cfg, busy.lease, cmd)
	}
	if err != nil {
		return err
	}
	defer a.Close()

	ok, err := a.mutate(cmd.Apply)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: refused", cmd)
	}
	fmt.Printf("%s: done\n", cmd)
	return nil
}

func parseEmployee(arg string) (site.EmployeeID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid employee id %q: %w", arg, err)
	}
	return site.EmployeeID(n), nil
}

func parseAmount(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", arg, err)
	}
	return v, nil
}

func newProjectCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Start, staff, ship and manage projects",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "available",
			Short: "List projects that can be started",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cfg)
				if err != nil {
					return err
				}
				defer a.Close()
				a.sim.View(func(s *engine.Simulation) {
					for _, p := range s.Catalog.Available(s.Website) {
						fmt.Printf("%-32s %s\n", p.Name, p.Description)
					}
				})
				return nil
			},
		},
		&cobra.Command{
			Use:   "start PROJECT",
			Short: "Start a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdStart, Project: args[0]})
			},
		},
		&cobra.Command{
			Use:   "assign PROJECT EMPLOYEE_ID",
			Short: "Put an employee on a project",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseEmployee(args[1])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdAssign, Project: args[0], Employee: id})
			},
		},
		&cobra.Command{
			Use:   "unassign PROJECT EMPLOYEE_ID",
			Short: "Take an employee off a project",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseEmployee(args[1])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdUnassign, Project: args[0], Employee: id})
			},
		},
		&cobra.Command{
			Use:   "ship PROJECT",
			Short: "Ship a project now, whatever work remains",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdShip, Project: args[0]})
			},
		},
		&cobra.Command{
			Use:   "undo PROJECT",
			Short: "Remove a shipped project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdUndo, Project: args[0]})
			},
		},
		&cobra.Command{
			Use:   "enable PROJECT",
			Short: "Turn a shipped project's effects back on",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdEnable, Project: args[0]})
			},
		},
		&cobra.Command{
			Use:   "disable PROJECT",
			Short: "Suspend a shipped project's effects",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdDisable, Project: args[0]})
			},
		},
		&cobra.Command{
			Use:   "rate PROJECT RATE",
			Short: "Set a monetized project's weekly per-user rate",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				rate, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdRate, Project: args[0], Amount: rate})
			},
		},
		&cobra.Command{
			Use:   "marketing PROJECT SPEND",
			Short: "Set a marketing project's weekly spend",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				spend, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdMarketing, Project: args[0], Amount: spend})
			},
		},
	)
	return cmd
}

func newStaffCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Hire, fire and look after employees",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "candidates",
			Short: "List this week's candidates",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cfg)
				if err != nil {
					return err
				}
				defer a.Close()
				a.sim.View(func(s *engine.Simulation) {
					for _, c := range s.Website.Candidates {
						fmt.Printf("%s  %-22s %-12s xp %-6s $%s/wk\n",
							c.ID, c.Name, c.Role, humanize.Comma(int64(c.XP)), humanize.Comma(int64(c.Salary)))
					}
				})
				return nil
			},
		},
		&cobra.Command{
			Use:   "hire CANDIDATE_ID",
			Short: "Hire a candidate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return action(cfg, engine.Command{Action: engine.CmdHire, Candidate: args[0]})
			},
		},
		&cobra.Command{
			Use:   "fire EMPLOYEE_ID",
			Short: "Fire an employee",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseEmployee(args[0])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdFire, Employee: id})
			},
		},
		&cobra.Command{
			Use:   "cheer EMPLOYEE_ID COST",
			Short: "Spend money to make an employee fully happy",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseEmployee(args[0])
				if err != nil {
					return err
				}
				cost, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				return action(cfg, engine.Command{Action: engine.CmdCheer, Employee: id, Amount: cost})
			},
		},
	)
	return cmd
}

func newOfferCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Handle investment offers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "accept OFFER_ID",
		Short: "Accept an open investment offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return action(cfg, engine.Command{Action: engine.CmdAccept, Offer: args[0]})
		},
	})
	return cmd
}

func newSpendCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "servers WEEKLY_SPEND",
		Short: "Set the weekly server budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spend, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			return action(cfg, engine.Command{Action: engine.CmdServers, Amount: spend})
		},
	}
}
