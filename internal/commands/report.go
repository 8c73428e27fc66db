package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
)

func newReportCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports as JSON",
	}
	cmd.AddCommand(
		newTrialBalanceCommand(opts),
		newProfitAndLossCommand(opts),
		newBalanceSheetCommand(opts),
		newCashFlowCommand(opts),
		newGeneralLedgerCommand(opts),
		newAgingCommand(opts),
		newBudgetReportCommand(opts),
	)
	return cmd
}

// dateRange parses --from/--to. A missing --from means the first day of
// --to's month.
func dateRange(from, to string) (time.Time, time.Time, error) {
	end, err := parseDate("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from == "" {
		return period.MonthStart(end), end, nil
	}
	start, err := parseDate("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func newTrialBalanceCommand(opts *globalOptions) *cobra.Command {
	var asOf string
	var includeDrafts bool

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Debit and credit balance of every account",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			d, err := parseDate("as-of", asOf)
			if err != nil {
				return err
			}
			tbOpts := a.reports.DefaultTrialBalanceOptions(d)
			if cmd.Flags().Changed("include-drafts") {
				tbOpts.IncludeDrafts = includeDrafts
			}
			tb, err := a.reports.TrialBalance(cmd.Context(), a.companyID, tbOpts)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tb)
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&includeDrafts, "include-drafts", true, "include draft entries (default from config)")
	return cmd
}

func newProfitAndLossCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Profit and loss over a date range",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			start, end, err := dateRange(from, to)
			if err != nil {
				return err
			}
			pl, err := a.reports.ProfitAndLoss(cmd.Context(), a.companyID, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pl)
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD (default start of --to's month)")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD (default today)")
	return cmd
}

func newBalanceSheetCommand(opts *globalOptions) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity at a date",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			d, err := parseDate("as-of", asOf)
			if err != nil {
				return err
			}
			bs, err := a.reports.BalanceSheet(cmd.Context(), a.companyID, d)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bs)
		}),
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "date YYYY-MM-DD (default today)")
	return cmd
}

func newCashFlowCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "cash-flow",
		Short: "Indirect cash flow statement over a date range",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			start, end, err := dateRange(from, to)
			if err != nil {
				return err
			}
			cf, err := a.reports.CashFlow(cmd.Context(), a.companyID, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), cf)
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD (default start of --to's month)")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD (default today)")
	return cmd
}

func newGeneralLedgerCommand(opts *globalOptions) *cobra.Command {
	var code, from, to string

	cmd := &cobra.Command{
		Use:   "gl",
		Short: "One account's lines with running balance",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			accountID, err := a.accountID(cmd.Context(), code)
			if err != nil {
				return err
			}
			start, end, err := dateRange(from, to)
			if err != nil {
				return err
			}
			gl, err := a.reports.GeneralLedger(cmd.Context(), a.companyID, accountID, start, end)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), gl)
		}),
	}

	cmd.Flags().StringVar(&code, "account", "", "account code (required)")
	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD (default start of --to's month)")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func newAgingCommand(opts *globalOptions) *cobra.Command {
	var kind, asOf string
	var buckets []int

	cmd := &cobra.Command{
		Use:   "aging",
		Short: "Open receivables or payables by age",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			d, err := parseDate("as-of", asOf)
			if err != nil {
				return err
			}
			var bounds []int
			if cmd.Flags().Changed("buckets") {
				bounds = buckets
			}
			ag, err := a.reports.Aging(cmd.Context(), a.companyID, model.DocumentKind(kind), d, bounds)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ag)
		}),
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.DocumentSales), "sales (receivables) or purchase (payables)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "date YYYY-MM-DD (default today)")
	cmd.Flags().IntSliceVar(&buckets, "buckets", nil, "bucket upper bounds in days, e.g. 30,60,90 (default from config)")
	return cmd
}

func newBudgetReportCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Budget versus actual for whole months",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			if to == "" {
				to = from
			}
			bva, err := a.reports.BudgetVsActual(cmd.Context(), a.companyID, from, to)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bva)
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first month YYYY-MM (required)")
	cmd.Flags().StringVar(&to, "to", "", "last month YYYY-MM (default --from)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
