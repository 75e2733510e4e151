package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List and manage imported transactions",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsEditCmd())
	cmd.AddCommand(transactionsDeleteCmd())
	cmd.AddCommand(transactionsClearCmd())

	return cmd
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, _ := cmd.Flags().GetString("month")
			txnType, _ := cmd.Flags().GetString("type")
			category, _ := cmd.Flags().GetString("category")
			limit, _ := cmd.Flags().GetInt("limit")

			if txnType != "" && !model.TxnType(txnType).Valid() {
				return fmt.Errorf("unknown transaction type %q", txnType)
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.GetTransactions(cmd.Context(), service.TransactionFilter{
				Month:    month,
				Type:     model.TxnType(txnType),
				Category: category,
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				cmd.Println(cli.StyleSubtle("No transactions found."))
				return nil
			}

			header := fmt.Sprintf("%-12s %-10s %-11s %-20s %10s  %s",
				"DATE", "ID", "TYPE", "CATEGORY", "AMOUNT", "DESCRIPTION")
			cmd.Println(cli.TableHeaderStyle.Render(header))
			for _, txn := range txns {
				cmd.Printf("%-12s %-10s %-11s %-20s %10.2f  %s\n",
					txn.Date, txn.ID, txn.Type, txn.Category, txn.Amount, txn.Description)
			}
			return nil
		},
	}

	cmd.Flags().String("month", "", "Filter by month (YYYY-MM)")
	cmd.Flags().String("type", "", "Filter by type (income, expense, payment, transfer, credit_card)")
	cmd.Flags().String("category", "", "Filter by category")
	cmd.Flags().Int("limit", 0, "Limit number of rows (0 for all)")

	return cmd
}

func transactionsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction's fields",
		Long:  `Replace fields on a stored transaction. Edits change the record directly and never re-run import parsing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit service.TransactionEdit
			if cmd.Flags().Changed("date") {
				v, _ := cmd.Flags().GetString("date")
				edit.Date = &v
			}
			if cmd.Flags().Changed("description") {
				v, _ := cmd.Flags().GetString("description")
				edit.Description = &v
			}
			if cmd.Flags().Changed("category") {
				v, _ := cmd.Flags().GetString("category")
				edit.Category = &v
			}
			if cmd.Flags().Changed("type") {
				v, _ := cmd.Flags().GetString("type")
				txnType := model.TxnType(v)
				if !txnType.Valid() {
					return fmt.Errorf("unknown transaction type %q", v)
				}
				edit.Type = &txnType
			}
			if cmd.Flags().Changed("amount") {
				v, _ := cmd.Flags().GetFloat64("amount")
				if v < 0 {
					return fmt.Errorf("amount must be non-negative")
				}
				edit.Amount = &v
			}

			if edit.Date == nil && edit.Description == nil && edit.Category == nil &&
				edit.Type == nil && edit.Amount == nil {
				return fmt.Errorf("nothing to edit; pass at least one field flag")
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateTransaction(cmd.Context(), args[0], edit); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %s", args[0])))
			return nil
		},
	}

	cmd.Flags().String("date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("category", "", "New category")
	cmd.Flags().String("type", "", "New type (income, expense, payment, transfer, credit_card)")
	cmd.Flags().Float64("amount", 0, "New amount (non-negative)")

	return cmd
}

func transactionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
			return nil
		},
	}
}

func transactionsClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			if !force && !confirm(cmd, "Delete ALL transactions? This cannot be undone") {
				cmd.Println(cli.StyleSubtle("Aborted."))
				return nil
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.ClearTransactions(cmd.Context()); err != nil {
				return err
			}
			cmd.Println(cli.FormatSuccess("Cleared all transactions"))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, prompt string) bool {
	cmd.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
