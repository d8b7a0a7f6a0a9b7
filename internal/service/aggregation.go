package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// AggregateRow is one dimension rollup row. Rows are built fresh on every
// run; nothing is updated incrementally.
type AggregateRow struct {
	Dimension    types.Dimension `json:"dimension"`
	Key          string          `json:"key"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	OverDueTotal decimal.Decimal `json:"over_due_total"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

// AggregationResult holds the rollup rows for one dimension plus the
// count of invoices excluded by reconciliation failures, so dashboards
// can report partial data honestly.
type AggregationResult struct {
	RunID         string          `json:"run_id"`
	Dimension     types.Dimension `json:"dimension"`
	AsOf          time.Time       `json:"as_of"`
	Rows          []AggregateRow  `json:"rows"`
	ExcludedCount int             `json:"excluded_count"`
}

// AggregationService produces dimension rollups over reconciled invoices.
// Every run is a full recompute over the supplied snapshot.
type AggregationService interface {
	Aggregate(ctx context.Context, invoices []*invoice.ReconciledInvoice, dimension types.Dimension, asOf time.Time) (*AggregationResult, error)
	AggregateBatch(ctx context.Context, batch *BatchResult, dimension types.Dimension) (*AggregationResult, error)
}

type aggregationService struct {
	ServiceParams
}

func NewAggregationService(params ServiceParams) AggregationService {
	return &aggregationService{
		ServiceParams: params,
	}
}

func (s *aggregationService) Aggregate(ctx context.Context, invoices []*invoice.ReconciledInvoice, dimension types.Dimension, asOf time.Time) (*AggregationResult, error) {
	if err := dimension.Validate(); err != nil {
		return nil, err
	}

	workers := s.Config.Aggregation.Workers
	if workers <= 0 {
		workers = 1
	}

	// Group sums are associative and commutative, so the snapshot is
	// sharded across workers and the partial maps merged afterwards.
	chunkSize := (len(invoices) + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = 1
	}
	chunks := lo.Chunk(invoices, chunkSize)

	p := pool.NewWithResults[map[string]*AggregateRow]().WithMaxGoroutines(workers)
	for _, chunk := range chunks {
		p.Go(func() map[string]*AggregateRow {
			partial := make(map[string]*AggregateRow)
			for _, r := range chunk {
				if r == nil {
					continue
				}
				for _, c := range contributions(r, dimension) {
					row, ok := partial[c.key]
					if !ok {
						row = &AggregateRow{Dimension: dimension, Key: c.key}
						partial[c.key] = row
					}
					row.Amount = row.Amount.Add(c.amount)
					row.Count++
					row.OverDueTotal = row.OverDueTotal.Add(r.OverDueTotal)
					row.TotalBalance = row.TotalBalance.Add(r.TotalBalance)
				}
			}
			return partial
		})
	}
	partials := p.Wait()

	merged := make(map[string]*AggregateRow)
	for _, partial := range partials {
		for key, row := range partial {
			target, ok := merged[key]
			if !ok {
				merged[key] = row
				continue
			}
			target.Amount = target.Amount.Add(row.Amount)
			target.Count += row.Count
			target.OverDueTotal = target.OverDueTotal.Add(row.OverDueTotal)
			target.TotalBalance = target.TotalBalance.Add(row.TotalBalance)
		}
	}

	rows := make([]AggregateRow, 0, len(merged))
	for _, row := range merged {
		row.Amount = types.RoundCurrency(row.Amount)
		row.OverDueTotal = types.RoundCurrency(row.OverDueTotal)
		row.TotalBalance = types.RoundCurrency(row.TotalBalance)
		rows = append(rows, *row)
	}

	// Descending by summed amount, ties broken by ascending key so output
	// is stable for pagination and export.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Amount.Equal(rows[j].Amount) {
			return rows[i].Amount.GreaterThan(rows[j].Amount)
		}
		return rows[i].Key < rows[j].Key
	})

	return &AggregationResult{
		RunID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AGGREGATION_RUN),
		Dimension: dimension,
		AsOf:      types.DateOnly(asOf),
		Rows:      rows,
	}, nil
}

// AggregateBatch aggregates the successful invoices of a batch run and
// carries the failed-invoice count through to the result.
func (s *aggregationService) AggregateBatch(ctx context.Context, batch *BatchResult, dimension types.Dimension) (*AggregationResult, error) {
	if batch == nil {
		return nil, ierr.NewError("batch result is required").
			WithHint("Please provide a reconciliation batch to aggregate").
			Mark(ierr.ErrValidation)
	}

	result, err := s.Aggregate(ctx, batch.Reconciled, dimension, batch.AsOf)
	if err != nil {
		return nil, err
	}
	result.ExcludedCount = batch.ExcludedCount()

	s.Logger.Infow("aggregated reconciliation batch",
		"run_id", result.RunID,
		"dimension", dimension,
		"rows", len(result.Rows),
		"excluded", result.ExcludedCount,
	)

	return result, nil
}

type contribution struct {
	key    string
	amount decimal.Decimal
}

// contributions maps one reconciled invoice to its rollup keys. All
// dimensions contribute a single row except tax_type, where the invoice
// contributes one row per non-zero tax component.
func contributions(r *invoice.ReconciledInvoice, dimension types.Dimension) []contribution {
	switch dimension {
	case types.DimensionCustomer:
		return []contribution{{key: r.Header.CustomerName, amount: r.TotalInvoiceValue}}
	case types.DimensionRegionZone:
		return []contribution{{key: fmt.Sprintf("%s/%s", r.Header.Region, r.Header.Zone), amount: r.TotalInvoiceValue}}
	case types.DimensionBusinessUnit:
		return []contribution{{key: r.Header.BusinessUnit, amount: r.TotalInvoiceValue}}
	case types.DimensionMonth:
		return []contribution{{key: types.MonthKey(r.Header.IssueDate), amount: r.TotalInvoiceValue}}
	case types.DimensionTaxType:
		var out []contribution
		for _, t := range types.TaxTypes() {
			amount := r.Taxes.Component(t)
			if amount.IsZero() {
				continue
			}
			out = append(out, contribution{key: t.String(), amount: amount})
		}
		return out
	default:
		return nil
	}
}

// TopN returns the first n rows of an aggregation, preserving the
// deterministic sort order. n larger than the row count returns all rows.
func TopN(rows []AggregateRow, n int) []AggregateRow {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}
