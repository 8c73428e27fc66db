package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/payments"
)

func newDocumentCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Sales invoices and purchase bills awaiting payment",
	}
	cmd.AddCommand(newDocumentAddCommand(opts))
	return cmd
}

func newDocumentAddCommand(opts *globalOptions) *cobra.Command {
	var kind, counterparty, date, total string

	cmd := &cobra.Command{
		Use:   "add <number>",
		Short: "Register an open invoice or bill",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			amount, err := parseAmount("total", total)
			if err != nil {
				return err
			}
			doc, err := a.payments.RegisterDocument(cmd.Context(), a.companyID, payments.DocumentParams{
				Kind:         model.DocumentKind(kind),
				Number:       args[0],
				Counterparty: counterparty,
				OrderDate:    d,
				Total:        amount,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s %s for %s (id %d)\n", doc.Kind, doc.Number, doc.Total.StringFixed(2), doc.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&kind, "kind", string(model.DocumentSales), "sales or purchase")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "customer or supplier (required)")
	cmd.Flags().StringVar(&date, "date", "", "document date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&total, "total", "", "document total (required)")
	_ = cmd.MarkFlagRequired("counterparty")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}

func newPaymentCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Payments against invoices and bills",
	}
	cmd.AddCommand(newPaymentApplyCommand(opts))
	return cmd
}

func newPaymentApplyCommand(opts *globalOptions) *cobra.Command {
	var amount, date, cashCode, description string

	cmd := &cobra.Command{
		Use:   "apply <document-id>",
		Short: "Apply a payment to a document and post the settlement entry",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			documentID, err := parseID("document", args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			params := payments.PaymentParams{DocumentID: documentID, Amount: amt, Date: d, Description: description}
			if cashCode != "" {
				if params.CashAccountID, err = a.accountID(cmd.Context(), cashCode); err != nil {
					return err
				}
			}

			res, err := a.payments.Apply(cmd.Context(), a.companyID, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s posted; %s outstanding %s\n",
				res.Entry.Number, res.Document.Number, res.Document.Outstanding().StringFixed(2))
			return nil
		}),
	}

	cmd.Flags().StringVar(&amount, "amount", "", "payment amount (required)")
	cmd.Flags().StringVar(&date, "date", "", "payment date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&cashCode, "cash-account", "", "cash or bank account code (default the cash role)")
	cmd.Flags().StringVar(&description, "desc", "", "entry description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
