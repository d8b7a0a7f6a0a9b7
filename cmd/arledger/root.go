package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/arledger/arledger/internal/config"
	"github.com/arledger/arledger/internal/domain/invoice"
	"github.com/arledger/arledger/internal/logger"
	"github.com/arledger/arledger/internal/service"
	"github.com/arledger/arledger/internal/types"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arledger",
	Short: "Accounts-receivable invoice reconciliation and reporting",
	Long: `arledger reconciles accounts-receivable invoice batches and produces
dimension rollups for reporting.

Invoices are supplied as a JSON batch; every result is derived fresh from
the batch and an explicit as-of date, so reports can be regenerated against
historical dates.`,
	SilenceUsage: true,
}

// Execute wires the dependency bundle into the command tree and runs it
func Execute(cfg *config.Configuration, log *logger.Logger) error {
	params := service.NewServiceParams(cfg, log)
	rootCmd.AddCommand(newReconcileCmd(params))
	rootCmd.AddCommand(newAggregateCmd(params))
	return rootCmd.Execute()
}

// batchInput is the JSON shape accepted by both subcommands
type batchInput struct {
	Invoices []*invoice.Invoice `json:"invoices"`
}

func readBatch(path string) ([]*invoice.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch batchInput
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch file: %w", err)
	}
	return batch.Invoices, nil
}

func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return types.DateOnly(time.Now()), nil
	}
	asOf, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date, use YYYY-MM-DD: %w", err)
	}
	return asOf, nil
}

func writeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
