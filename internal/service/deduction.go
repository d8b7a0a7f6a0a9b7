package service

import (
	"github.com/arledger/arledger/internal/domain/invoice"
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// DeductionResult is the deduction rollup of a single invoice
type DeductionResult struct {
	TotalDeductions decimal.Decimal                             `json:"total_deductions"`
	ByCategory      map[types.DeductionCategory]decimal.Decimal `json:"by_category"`
}

// DeductionService aggregates the statutory and contractual deduction
// lines of an invoice into a single total and per-category rollups.
type DeductionService interface {
	Compute(set invoice.DeductionSet) (*DeductionResult, error)
}

type deductionService struct {
	ServiceParams
}

func NewDeductionService(params ServiceParams) DeductionService {
	return &deductionService{
		ServiceParams: params,
	}
}

// Compute sums all deduction lines. A negative line is rejected outright;
// negative adjustments are a credit concept that never enters this set.
func (s *deductionService) Compute(set invoice.DeductionSet) (*DeductionResult, error) {
	byCategory := make(map[types.DeductionCategory]decimal.Decimal, len(types.DeductionCategories()))
	for _, category := range types.DeductionCategories() {
		byCategory[category] = decimal.Zero
	}

	total := decimal.Zero
	for _, code := range types.DeductionCodes() {
		amount := set.Line(code)
		if amount.IsNegative() {
			s.Logger.Warnw("negative deduction line rejected", "code", code, "amount", amount)
			return nil, ierr.NewError("deduction must be non negative").
				WithHintf("%s is negative", code).
				WithReportableDetails(map[string]any{
					"code":   code,
					"amount": amount,
				}).
				Mark(ierr.ErrInvalidAmount)
		}
		total = total.Add(amount)
		category := code.Category()
		byCategory[category] = types.RoundCurrency(byCategory[category].Add(amount))
	}

	return &DeductionResult{
		TotalDeductions: types.RoundCurrency(total),
		ByCategory:      byCategory,
	}, nil
}
