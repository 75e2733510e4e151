package main

import (
	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/report"
	"github.com/centsible/centsible/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Spending and health reports",
	}

	cmd.PersistentFlags().String("month", "", "Restrict to one month (YYYY-MM)")

	cmd.AddCommand(reportSummaryCmd())
	cmd.AddCommand(reportCategoriesCmd())
	cmd.AddCommand(reportHealthCmd())

	return cmd
}

func loadTransactions(cmd *cobra.Command) ([]model.Transaction, string, service.Storage, error) {
	month, _ := cmd.Flags().GetString("month")

	store, err := initStorage(cmd.Context())
	if err != nil {
		return nil, "", nil, err
	}

	txns, err := store.GetTransactions(cmd.Context(), service.TransactionFilter{})
	if err != nil {
		_ = store.Close()
		return nil, "", nil, err
	}
	return txns, month, store, nil
}

func reportSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Month summary by transaction type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txns, month, store, err := loadTransactions(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary := report.Summarize(txns, month)

			title := "Summary"
			if month != "" {
				title = "Summary for " + month
			}
			cmd.Println(cli.FormatTitle(title))
			cmd.Printf("  Income:      %s\n", cli.FormatAmount(summary.Income, true))
			cmd.Printf("  Expenses:    %s\n", cli.FormatAmount(summary.Expenses, false))
			cmd.Printf("  Credit card: %s\n", cli.FormatAmount(summary.CreditCard, false))
			cmd.Printf("  Payments:    $%.2f\n", summary.Payments)
			cmd.Printf("  Transfers:   $%.2f\n", summary.Transfers)
			cmd.Printf("  Leftover:    %s\n", cli.FormatAmount(summary.Leftover(), summary.Leftover() >= 0))
			return nil
		},
	}
}

func reportCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Spending by category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			top, _ := cmd.Flags().GetInt("top")

			txns, month, store, err := loadTransactions(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows := report.Breakdown(txns, month, top)
			if len(rows) == 0 {
				cmd.Println(cli.StyleSubtle("No spending recorded."))
				return nil
			}

			cmd.Println(cli.FormatReportTitle("Spending by category"))
			for _, row := range rows {
				cmd.Printf("  %-22s %10.2f  %5.1f%%  %s\n",
					row.Category, row.Total, row.Percent, cli.RenderBar(row.Percent, 20))
			}
			return nil
		},
	}

	cmd.Flags().Int("top", 12, "Show top N categories plus Other (0 for all)")
	return cmd
}

func reportHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Financial health score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txns, month, store, err := loadTransactions(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			goals, err := store.GetGoals(cmd.Context())
			if err != nil {
				return err
			}

			summary := report.Summarize(txns, month)
			hs := report.Health(summary, goals)

			cmd.Println(cli.FormatReportTitle("Financial health"))
			cmd.Printf("  Score: %d/100 (%s)\n", hs.Score, hs.Grade)
			cmd.Printf("  %s\n", cli.RenderBar(float64(hs.Score), 30))
			cmd.Printf("  Savings rate:   %2d/55 points (%.0f%% saved)\n", hs.SavingsPts, hs.SavingsRate*100)
			cmd.Printf("  Expense ratio:  %2d/35 points\n", hs.ExpensePts)
			cmd.Printf("  Emergency fund: %2d/10 points\n", hs.EmergencyPts)
			for _, tip := range hs.Tips {
				cmd.Println(cli.FormatWarning(tip))
			}
			return nil
		},
	}
}
