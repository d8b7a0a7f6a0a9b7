package service

import (
	"context"
	"fmt"
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
)

// BatchFailure records one invoice that could not be reconciled. The rest
// of the batch is unaffected.
type BatchFailure struct {
	Index         int    `json:"index"`
	InvoiceNumber string `json:"invoice_number"`
	ErrorCode     string `json:"error_code"`
	Message       string `json:"message"`
}

// BatchResult is the outcome of reconciling a batch of invoices
type BatchResult struct {
	RunID      string                       `json:"run_id"`
	AsOf       time.Time                    `json:"as_of"`
	Reconciled []*invoice.ReconciledInvoice `json:"reconciled"`
	Failures   []BatchFailure               `json:"failures,omitempty"`
}

// ExcludedCount is the number of invoices that failed reconciliation and
// are therefore excluded from any aggregation over this batch.
func (r *BatchResult) ExcludedCount() int {
	return len(r.Failures)
}

// ReconcilerService derives the canonical financial view of an invoice.
// Reconciliation is a pure function of its inputs: the same invoice and
// as-of date always produce an identical view, so it is safe to invoke
// concurrently and repeatedly.
type ReconcilerService interface {
	Reconcile(ctx context.Context, inv *invoice.Invoice, asOf time.Time) (*invoice.ReconciledInvoice, error)
	ReconcileBatch(ctx context.Context, invoices []*invoice.Invoice, asOf time.Time) (*BatchResult, error)
}

type reconcilerService struct {
	ServiceParams
	taxService         TaxService
	installmentService InstallmentService
	deductionService   DeductionService
}

func NewReconcilerService(params ServiceParams) ReconcilerService {
	return &reconcilerService{
		ServiceParams:      params,
		taxService:         NewTaxService(params),
		installmentService: NewInstallmentService(params),
		deductionService:   NewDeductionService(params),
	}
}

func (s *reconcilerService) Reconcile(ctx context.Context, inv *invoice.Invoice, asOf time.Time) (*invoice.ReconciledInvoice, error) {
	if inv == nil {
		return nil, ierr.NewError("invoice is required").
			WithHint("Please provide an invoice to reconcile").
			Mark(ierr.ErrValidation)
	}

	if err := inv.Validate(); err != nil {
		s.Logger.Warnw("invoice validation failed",
			"invoice_number", inv.Header.InvoiceNumber,
			"error", err,
		)
		return nil, err
	}

	tolerance := types.Tolerance(s.Config.Reconciliation.ToleranceMinorUnits)

	var warnings []invoice.Warning

	// The basic value may be supplied independently of quantity x rate;
	// drift beyond tolerance is surfaced, never rewritten. The quantity
	// is normalized to quantity scale before the comparison.
	quantity := types.RoundQuantity(inv.Line.Quantity)
	if quantity.IsPositive() && inv.Line.BasicRate.IsPositive() {
		computed := types.RoundCurrency(quantity.Mul(inv.Line.BasicRate))
		if !types.WithinTolerance(computed, inv.Line.BasicValue, tolerance) {
			warnings = append(warnings, invoice.Warning{
				Code:    invoice.WarningCodeBasicValueDrift,
				Message: fmt.Sprintf("basic value %s differs from quantity x rate %s", inv.Line.BasicValue, computed),
			})
		}
	}

	taxResult, err := s.taxService.Compute(inv.Taxes, inv.Line.BasicValue, inv.ExplicitTaxRate)
	if err != nil {
		return nil, err
	}

	subTotal := types.SumCurrency(inv.Line.BasicValue, inv.Line.FreightValue)
	computedTotal := types.SumCurrency(subTotal, taxResult.TotalTax)

	// A stated total that will not reconcile is a typed failure carrying
	// both figures. Silently rewriting a financial total is a worse
	// failure mode than surfacing the discrepancy.
	totalInvoiceValue := computedTotal
	if inv.StatedTotal != nil {
		stated := types.RoundCurrency(*inv.StatedTotal)
		if !types.WithinTolerance(stated, computedTotal, tolerance) {
			return nil, ierr.NewError("stated invoice total does not reconcile").
				WithHintf("stated %s, computed %s", stated, computedTotal).
				WithReportableDetails(map[string]any{
					"invoice_number": inv.Header.InvoiceNumber,
					"stated_total":   stated,
					"computed_total": computedTotal,
					"tolerance":      tolerance,
				}).
				Mark(ierr.ErrAmountMismatch)
		}
		totalInvoiceValue = stated
	}

	installments, instWarnings, err := s.installmentService.BuildInstallments(
		totalInvoiceValue,
		inv.PaymentTerms,
		inv.Header.IssueDate,
		inv.Overrides,
		asOf,
	)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, instWarnings...)

	deductionResult, err := s.deductionService.Compute(inv.Deductions)
	if err != nil {
		return nil, err
	}

	totalBalance := decimal.Zero
	notDueTotal := decimal.Zero
	overDueTotal := decimal.Zero
	totalOverpayment := decimal.Zero
	for _, inst := range installments {
		totalBalance = totalBalance.Add(inst.Balance)
		notDueTotal = notDueTotal.Add(inst.NotDue)
		overDueTotal = overDueTotal.Add(inst.OverDue)
		totalOverpayment = totalOverpayment.Add(inst.Overpayment)
	}

	netCollectible := totalBalance.Sub(deductionResult.TotalDeductions)
	deductionsExceedBalance := false
	if netCollectible.IsNegative() {
		netCollectible = decimal.Zero
		deductionsExceedBalance = true
	}

	return &invoice.ReconciledInvoice{
		Header:                  inv.Header,
		TotalTax:                taxResult.TotalTax,
		EffectiveTaxRate:        taxResult.EffectiveRate,
		SubTotal:                subTotal,
		TotalInvoiceValue:       totalInvoiceValue,
		Installments:            installments,
		TotalBalance:            types.RoundCurrency(totalBalance),
		NotDueTotal:             types.RoundCurrency(notDueTotal),
		OverDueTotal:            types.RoundCurrency(overDueTotal),
		TotalOverpayment:        types.RoundCurrency(totalOverpayment),
		TotalDeductions:         deductionResult.TotalDeductions,
		DeductionsByCategory:    deductionResult.ByCategory,
		NetCollectible:          types.RoundCurrency(netCollectible),
		DeductionsExceedBalance: deductionsExceedBalance,
		Taxes:                   inv.Taxes,
		Warnings:                warnings,
		AsOf:                    types.DateOnly(asOf),
	}, nil
}

// ReconcileBatch reconciles every invoice in the batch, continuing past
// per-invoice failures. Successful results keep the input order.
func (s *reconcilerService) ReconcileBatch(ctx context.Context, invoices []*invoice.Invoice, asOf time.Time) (*BatchResult, error) {
	results := make([]*invoice.ReconciledInvoice, len(invoices))
	failures := make([]*BatchFailure, len(invoices))

	workers := s.Config.Aggregation.Workers
	if workers <= 0 {
		workers = 1
	}

	p := pool.New().WithMaxGoroutines(workers)
	for idx, inv := range invoices {
		p.Go(func() {
			reconciled, err := s.Reconcile(ctx, inv, asOf)
			if err != nil {
				number := ""
				if inv != nil {
					number = inv.Header.InvoiceNumber
				}
				failures[idx] = &BatchFailure{
					Index:         idx,
					InvoiceNumber: number,
					ErrorCode:     ierr.Code(err),
					Message:       err.Error(),
				}
				return
			}
			results[idx] = reconciled
		})
	}
	p.Wait()

	batch := &BatchResult{
		RunID: types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RECONCILIATION_RUN),
		AsOf:  types.DateOnly(asOf),
	}
	for idx := range invoices {
		if failures[idx] != nil {
			batch.Failures = append(batch.Failures, *failures[idx])
			continue
		}
		batch.Reconciled = append(batch.Reconciled, results[idx])
	}

	s.Logger.Infow("reconciled invoice batch",
		"run_id", batch.RunID,
		"total", len(invoices),
		"succeeded", len(batch.Reconciled),
		"failed", len(batch.Failures),
	)

	return batch, nil
}
