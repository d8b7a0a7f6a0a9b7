package main

import (
	"context"

	"github.com/arledger/arledger/internal/service"
	"github.com/spf13/cobra"
)

func newReconcileCmd(params service.ServiceParams) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a JSON invoice batch",
		Long: `Reconcile every invoice in a JSON batch file and print the derived
views. Invoices that fail validation or do not reconcile are reported as
typed failures without blocking the rest of the batch.`,
		Example: `  # reconcile as of today
  arledger reconcile --input batch.json

  # regenerate against a historical date
  arledger reconcile --input batch.json --as-of 2025-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, _ := cmd.Flags().GetString("input")
			asOfStr, _ := cmd.Flags().GetString("as-of")

			asOf, err := parseAsOf(asOfStr)
			if err != nil {
				return err
			}

			invoices, err := readBatch(inputPath)
			if err != nil {
				return err
			}

			reconciler := service.NewReconcilerService(params)
			batch, err := reconciler.ReconcileBatch(context.Background(), invoices, asOf)
			if err != nil {
				return err
			}

			return writeJSON(batch)
		},
	}

	cmd.Flags().String("input", "", "Path to the JSON invoice batch (required)")
	cmd.Flags().String("as-of", "", "Classification date (YYYY-MM-DD, default: today)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
