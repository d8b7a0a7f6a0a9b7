package main

import (
	"context"

	"github.com/arledger/arledger/internal/service"
	"github.com/arledger/arledger/internal/types"
	"github.com/spf13/cobra"
)

func newAggregateCmd(params service.ServiceParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Reconcile a batch and roll it up by a dimension",
		Long: `Reconcile a JSON invoice batch and aggregate the successful results by
the requested dimension. Failed invoices are excluded from the sums and
reported via excluded_count.`,
		Example: `  # outstanding by region and zone
  arledger aggregate --input batch.json --dimension region_zone

  # top 10 customers by invoice value as of quarter end
  arledger aggregate --input batch.json --dimension customer --top 10 --as-of 2025-03-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			asOfStr, _ := cmd.Flags().GetString("as-of")
			dimensionStr, _ := cmd.Flags().GetString("dimension")
			top, _ := cmd.Flags().GetInt("top")

			dimension := types.Dimension(dimensionStr)
			if err := dimension.Validate(); err != nil {
				return err
			}

			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}

			invoices, err := readBatch(inputPath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			reconciler := service.NewReconcilerService(params)
			batch, err := reconciler.ReconcileBatch(ctx, invoices, asOf)
			if err != nil {
				return err
			}

			aggregator := service.NewAggregationService(params)
			result, err := aggregator.AggregateBatch(ctx, batch, dimension)
			if err != nil {
				return err
			}

			if top > 0 {
				result.Rows = service.TopN(result.Rows, top)
			}

			return writeJSON(result)
		},
	}

	cmd.Flags().String("input", "", "Path to the JSON invoice batch (required)")
	cmd.Flags().String("as-of", "", "Classification date (YYYY-MM-DD, default: today)")
	cmd.Flags().String("dimension", "customer", "Grouping key: customer | region_zone | business_unit | tax_type | month")
	cmd.Flags().Int("top", 0, "Limit output to the first N rows (0 = all)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
