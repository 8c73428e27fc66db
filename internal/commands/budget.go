package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBudgetCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Monthly budget targets",
	}
	cmd.AddCommand(newBudgetSetCommand(opts))
	return cmd
}

func newBudgetSetCommand(opts *globalOptions) *cobra.Command {
	var code, month, amount string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the target for one account and month, replacing any earlier one",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			accountID, err := a.accountID(cmd.Context(), code)
			if err != nil {
				return err
			}
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			b, err := a.reports.SetBudget(cmd.Context(), a.companyID, accountID, month, amt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget %s %s = %s\n", code, b.Period, b.Amount.StringFixed(2))
			return nil
		}),
	}

	cmd.Flags().StringVar(&code, "account", "", "account code (required)")
	cmd.Flags().StringVar(&month, "period", "", "month YYYY-MM (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "target amount (required)")
	for _, f := range []string{"account", "period", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
