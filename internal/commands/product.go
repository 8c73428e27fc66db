package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/costing"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
)

func newProductCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Inventory products and costing",
	}
	cmd.AddCommand(
		newProductAddCommand(opts),
		newProductListCommand(opts),
		newProductPurchaseCommand(opts),
		newProductSellCommand(opts),
		newProductLayersCommand(opts),
	)
	return cmd
}

func newProductAddCommand(opts *globalOptions) *cobra.Command {
	var params costing.ProductParams
	var method string
	var untracked bool

	cmd := &cobra.Command{
		Use:   "add <sku>",
		Short: "Register a product",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			params.SKU = args[0]
			params.CostingMethod = model.CostingMethod(method)
			params.TrackInventory = !untracked
			p, err := a.costing.CreateProduct(cmd.Context(), a.companyID, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created product %s (%s, id %d)\n", p.SKU, p.CostingMethod, p.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&params.Name, "name", "", "product name (default the SKU)")
	cmd.Flags().StringVar(&method, "method", string(model.CostingWAC), "costing method: wac or fifo")
	cmd.Flags().BoolVar(&params.IsService, "service", false, "service item without cost of goods sold")
	cmd.Flags().BoolVar(&untracked, "untracked", false, "do not track stock quantity")
	return cmd
}

func newProductListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products with stock and average cost",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, a *app, _ []string) error {
			products, err := a.costing.Products(cmd.Context(), a.companyID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSKU\tNAME\tMETHOD\tSTOCK\tAVG COST")
			for _, p := range products {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.SKU, p.Name, p.CostingMethod,
					p.StockQuantity.String(), p.AverageCost.StringFixed(4))
			}
			return tw.Flush()
		}),
	}
}

func newProductPurchaseCommand(opts *globalOptions) *cobra.Command {
	var qty, unitCost, date string

	cmd := &cobra.Command{
		Use:   "purchase <product-id>",
		Short: "Record the cost of received stock",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			q, err := parseAmount("qty", qty)
			if err != nil {
				return err
			}
			c, err := parseAmount("unit-cost", unitCost)
			if err != nil {
				return err
			}
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			p, err := a.costing.RecordPurchaseCost(cmd.Context(), a.companyID, productID, q, c, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s stock %s avg cost %s\n", p.SKU, p.StockQuantity.String(), p.AverageCost.StringFixed(4))
			return nil
		}),
	}

	cmd.Flags().StringVar(&qty, "qty", "", "quantity received (required)")
	cmd.Flags().StringVar(&unitCost, "unit-cost", "", "cost per unit (required)")
	cmd.Flags().StringVar(&date, "date", "", "purchase date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("qty")
	_ = cmd.MarkFlagRequired("unit-cost")
	return cmd
}

func newProductSellCommand(opts *globalOptions) *cobra.Command {
	var qty, date string

	cmd := &cobra.Command{
		Use:   "sell <product-id>",
		Short: "Deplete stock for a sale and post its cost of goods sold",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			q, err := parseAmount("qty", qty)
			if err != nil {
				return err
			}
			d, err := parseDate("date", date)
			if err != nil {
				return err
			}
			cogs, err := a.costing.CalculateCogsAndDeplete(cmd.Context(), a.companyID, productID, q, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "COGS %s\n", cogs.StringFixed(2))
			return nil
		}),
	}

	cmd.Flags().StringVar(&qty, "qty", "", "quantity sold (required)")
	cmd.Flags().StringVar(&date, "date", "", "sale date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

func newProductLayersCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layers <product-id>",
		Short: "Show FIFO cost layers",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, a *app, args []string) error {
			productID, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			layers, err := a.costing.Layers(cmd.Context(), a.companyID, productID)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tUNIT COST\tIN\tOUT\tREMAINING")
			for _, l := range layers {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", period.Format(l.PurchaseDate), l.UnitCost.StringFixed(4),
					l.QuantityIn.String(), l.QuantityOut.String(), l.Remaining.String())
			}
			return tw.Flush()
		}),
	}
}
