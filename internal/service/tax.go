package service

import (
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// TaxBreakdownResult is the tax rollup of a single invoice
type TaxBreakdownResult struct {
	TotalTax      decimal.Decimal `json:"total_tax"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}

// TaxService computes the tax total and the effective tax rate of an
// invoice from its component tax lines.
type TaxService interface {
	Compute(lines types.TaxLines, basicValue decimal.Decimal, explicitRate *decimal.Decimal) (*TaxBreakdownResult, error)
}

type taxService struct {
	ServiceParams
}

func NewTaxService(params ServiceParams) TaxService {
	return &taxService{
		ServiceParams: params,
	}
}

// Compute sums the five tax components and derives the effective rate.
// An explicit rate wins when the basic value is positive; a zero basic
// value is a defined zero-rate case rather than a division error.
func (s *taxService) Compute(lines types.TaxLines, basicValue decimal.Decimal, explicitRate *decimal.Decimal) (*TaxBreakdownResult, error) {
	if err := lines.Validate(); err != nil {
		s.Logger.Warnw("tax line validation failed", "error", err)
		return nil, err
	}

	totalTax := lines.Total()

	rate := decimal.Zero
	if basicValue.IsPositive() {
		if explicitRate != nil {
			rate = *explicitRate
		} else {
			rate = types.EffectiveRate(totalTax, basicValue)
		}
	}

	return &TaxBreakdownResult{
		TotalTax:      totalTax,
		EffectiveRate: rate,
	}, nil
}
