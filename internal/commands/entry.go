package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/store"
)

func newEntryCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Journal entries",
	}
	cmd.AddCommand(
		newEntryAddCommand(opts),
		newEntryImportCommand(opts),
		newEntryPostCommand(opts),
		newEntryReverseCommand(opts),
		newEntryShowCommand(opts),
		newEntryListCommand(opts),
	)
	return cmd
}

func newEntryAddCommand(opts *globalOptions) *cobra.Command {
	var (
		date        string
		description string
		debits      []string
		credits     []string
		draft       bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a journal entry",
		Example: `  books entry add --date 2024-01-15 --desc "Consulting" --debit 1010=1000 --credit 4020=1000
  books entry add --draft --debit 6060=300 --credit 1010=300`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx := cmd.Context()
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			params := journal.EntryParams{
				Status:      model.StatusPosted,
				Date:        d,
				Description: description,
				Source:      model.SourceManual,
			}
			if draft {
				params.Status = model.StatusDraft
			}

			for _, side := range []struct {
				flag   string
				values []string
			}{{"debit", debits}, {"credit", credits}} {
				for _, v := range side.values {
					code, amount, err := parseSide(side.flag, v)
					if err != nil {
						return err
					}
					accountID, err := a.accountID(ctx, code)
					if err != nil {
						return err
					}
					line := journal.LineParams{AccountID: accountID}
					if side.flag == "debit" {
						line.Debit = amount
					} else {
						line.Credit = amount
					}
					params.Lines = append(params.Lines, line)
				}
			}

			e, err := a.journal.CreateEntry(ctx, a.companyID, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (id %d)\n", e.Number, e.Status, e.Total.StringFixed(2), e.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "desc", "", "entry description")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line CODE=AMOUNT (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line CODE=AMOUNT (repeatable)")
	cmd.Flags().BoolVar(&draft, "draft", false, "save as draft instead of posting")
	return cmd
}

func newEntryImportCommand(opts *globalOptions) *cobra.Command {
	var draft bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import entries from an entry,date,account_code,description,debit,credit CSV",
		Long:  "Rows sharing an entry key form one entry. The whole file is imported in one transaction.",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			status := model.StatusPosted
			if draft {
				status = model.StatusDraft
			}
			entries, err := a.journal.Import(cmd.Context(), a.companyID, f, status)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", e.Number, e.Status, e.Total.StringFixed(2))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries\n", len(entries))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&draft, "draft", false, "import as drafts")
	return cmd
}

func newEntryPostCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "post <number|id>",
		Short: "Post a draft entry",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			e, err := a.entry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			posted, err := a.journal.PostDraft(cmd.Context(), a.companyID, e.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", posted.Number, posted.Status)
			return nil
		}),
	}
}

func newEntryReverseCommand(opts *globalOptions) *cobra.Command {
	var date, reason string

	cmd := &cobra.Command{
		Use:   "reverse <number|id>",
		Short: "Reverse a posted entry with a mirror entry",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			e, err := a.entry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rev, err := a.journal.Reverse(cmd.Context(), a.companyID, e.ID, d, reason)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s reverses %s\n", rev.Number, e.Number)
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "reversal date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason appended to the description")
	return cmd
}

func newEntryShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number|id>",
		Short: "Print an entry and its lines as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			e, err := a.entry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			v, err := a.viewEntry(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		}),
	}
}

func newEntryListCommand(opts *globalOptions) *cobra.Command {
	var from, to, status string
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, optionally as import-compatible CSV",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			var f store.EntryFilter
			var err error
			if from != "" {
				if f.From, err = parseDate("from", from); err != nil {
					return err
				}
			}
			if to != "" {
				if f.To, err = parseDate("to", to); err != nil {
					return err
				}
			}
			switch model.EntryStatus(status) {
			case "", model.StatusDraft, model.StatusPosted:
				f.Status = model.EntryStatus(status)
			default:
				return fmt.Errorf("unknown status %q", status)
			}

			if asCSV {
				return a.journal.Export(cmd.Context(), a.companyID, f, cmd.OutOrStdout())
			}
			entries, err := a.journal.List(cmd.Context(), a.companyID, f)
			if err != nil {
				return err
			}
			views := make([]entryView, 0, len(entries))
			for i := range entries {
				v, err := a.viewEntry(cmd.Context(), &entries[i])
				if err != nil {
					return err
				}
				views = append(views, v)
			}
			return printJSON(cmd.OutOrStdout(), views)
		}),
	}

	cmd.Flags().StringVar(&from, "from", "", "first date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "draft or posted")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of JSON")
	return cmd
}
