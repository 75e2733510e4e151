package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/model"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
	}

	cmd.AddCommand(goalsListCmd())
	cmd.AddCommand(goalsAddCmd())
	cmd.AddCommand(goalsContributeCmd())

	return cmd
}

func goalsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetGoals(cmd.Context())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				cmd.Println(cli.StyleSubtle("No goals yet. Add one with: centsible goals add"))
				return nil
			}

			for _, goal := range goals {
				pct := goal.Percent()
				cmd.Printf("%s %s [%s] (#%d)\n", cli.GoalIcon, goal.Label, goal.Code, goal.ID)
				cmd.Printf("    %s / %s  %s %d%%\n",
					cli.FormatAmount(goal.Current, true),
					cli.FormatAmount(goal.Target, false),
					cli.RenderBar(float64(pct), 20),
					pct)
				if goal.PlanPerMonth > 0 {
					cmd.Printf("    Plan: $%.0f/mo\n", goal.PlanPerMonth)
				}
				if goal.Keyword != "" && goal.AutoPercent > 0 {
					cmd.Printf("    Auto: %.0f%% of income matching %q\n", goal.AutoPercent, goal.Keyword)
				}
			}
			return nil
		},
	}
}

func goalsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a savings goal",
		Long: `Add a savings goal with a target amount.

A goal with --keyword and --auto-percent receives that share of every
matching income transaction automatically during imports.

Examples:
  centsible goals add "Emergency Fund" --code SV --target 10000
  centsible goals add "Japan Trip" --code JP --target 5000 --plan 270
  centsible goals add Savings --code SV --target 8000 --keyword payroll --auto-percent 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetFloat64("target")
			code, _ := cmd.Flags().GetString("code")
			plan, _ := cmd.Flags().GetFloat64("plan")
			keyword, _ := cmd.Flags().GetString("keyword")
			autoPercent, _ := cmd.Flags().GetFloat64("auto-percent")

			if target <= 0 {
				return fmt.Errorf("target must be positive")
			}
			if autoPercent < 0 || autoPercent > 100 {
				return fmt.Errorf("auto-percent must be between 0 and 100")
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goal := &model.Goal{
				Label:        args[0],
				Code:         code,
				Target:       target,
				PlanPerMonth: plan,
				Keyword:      keyword,
				AutoPercent:  autoPercent,
			}
			if err := store.SaveGoal(cmd.Context(), goal); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Added goal %q (#%d)", goal.Label, goal.ID)))
			return nil
		},
	}

	cmd.Flags().Float64("target", 0, "Target amount")
	cmd.Flags().String("code", "", "Short code shown in listings (e.g. SV)")
	cmd.Flags().Float64("plan", 0, "Planned contribution per month")
	cmd.Flags().String("keyword", "", "Income description keyword for automatic contributions")
	cmd.Flags().Float64("auto-percent", 0, "Percent of matching income to contribute automatically")

	return cmd
}

func goalsContributeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contribute <goal-id> <amount>",
		Short: "Contribute to a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var goalID int64
			if _, err := fmt.Sscanf(args[0], "%d", &goalID); err != nil {
				return fmt.Errorf("invalid goal id %q", args[0])
			}
			var amount float64
			if _, err := fmt.Sscanf(args[1], "%f", &amount); err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ContributeToGoal(cmd.Context(), goalID, amount, ""); err != nil {
				return err
			}

			goal, err := store.GetGoalByID(cmd.Context(), goalID)
			if err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("%s is now at $%.2f / $%.2f (%d%%)",
				goal.Label, goal.Current, goal.Target, goal.Percent())))
			return nil
		},
	}
}
