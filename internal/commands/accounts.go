package commands

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/model"
)

func newAccountsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}
	cmd.AddCommand(
		newAccountsListCommand(opts),
		newAccountsAddCommand(opts),
		newAccountsImportCommand(opts),
		newAccountsExportCommand(opts),
	)
	return cmd
}

func newAccountsListCommand(opts *globalOptions) *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts in code order",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			var accts []model.Account
			var err error
			if class != "" {
				t, ok := model.ParseAccountType(class)
				if !ok {
					return fmt.Errorf("unknown account type %q", class)
				}
				accts, err = a.accounts.ByType(cmd.Context(), a.companyID, t)
			} else {
				accts, err = a.accounts.All(cmd.Context(), a.companyID)
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tSUBTYPE")
			for _, acct := range accts {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", acct.Code, acct.Name, acct.Type, acct.Subtype)
			}
			return tw.Flush()
		}),
	}

	cmd.Flags().StringVar(&class, "type", "", "only accounts of this class (asset, liability, equity, revenue, expense)")
	return cmd
}

func newAccountsAddCommand(opts *globalOptions) *cobra.Command {
	var acct model.Account
	var accountType, subtype string

	cmd := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			acct.Code, acct.Name = args[0], args[1]
			acct.Type = model.AccountType(accountType)
			acct.Subtype = model.AccountSubtype(subtype)
			created, err := a.accounts.Create(cmd.Context(), a.companyID, acct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s %s (id %d)\n", created.Code, created.Name, created.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&accountType, "type", "", "account type (required)")
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&subtype, "subtype", "", "account subtype")
	return cmd
}

func newAccountsImportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import accounts from a code,name,type,subtype CSV",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			created, err := a.accounts.Import(cmd.Context(), a.companyID, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d accounts\n", len(created))
			return nil
		}),
	}
}

func newAccountsExportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export the chart of accounts as CSV (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			if len(args) == 0 {
				return a.accounts.Export(cmd.Context(), a.companyID, cmd.OutOrStdout())
			}
			return writeFile(args[0], func(w io.Writer) error {
				return a.accounts.Export(cmd.Context(), a.companyID, w)
			})
		}),
	}
}
