package types

import (
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TaxType identifies one of the output tax components an invoice may carry
type TaxType string

const (
	TaxTypeCGST TaxType = "cgst"
	TaxTypeSGST TaxType = "sgst"
	TaxTypeIGST TaxType = "igst"
	TaxTypeUGST TaxType = "ugst"
	TaxTypeTCS  TaxType = "tcs"
)

func (t TaxType) String() string {
	return string(t)
}

func (t TaxType) Validate() error {
	allowed := []TaxType{
		TaxTypeCGST,
		TaxTypeSGST,
		TaxTypeIGST,
		TaxTypeUGST,
		TaxTypeTCS,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid tax type").
			WithHint("Please provide a valid tax type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TaxTypes returns all tax components in canonical order
func TaxTypes() []TaxType {
	return []TaxType{TaxTypeCGST, TaxTypeSGST, TaxTypeIGST, TaxTypeUGST, TaxTypeTCS}
}

// TaxLines holds the output tax components of a single invoice
type TaxLines struct {
	CGSTOutput decimal.Decimal `json:"cgst_output"`
	SGSTOutput decimal.Decimal `json:"sgst_output"`
	IGSTOutput decimal.Decimal `json:"igst_output"`
	UGSTOutput decimal.Decimal `json:"ugst_output"`
	TCS        decimal.Decimal `json:"tcs"`
}

// Component returns the amount for one tax type
func (l TaxLines) Component(t TaxType) decimal.Decimal {
	switch t {
	case TaxTypeCGST:
		return l.CGSTOutput
	case TaxTypeSGST:
		return l.SGSTOutput
	case TaxTypeIGST:
		return l.IGSTOutput
	case TaxTypeUGST:
		return l.UGSTOutput
	case TaxTypeTCS:
		return l.TCS
	default:
		return decimal.Zero
	}
}

// Total sums all tax components at currency scale
func (l TaxLines) Total() decimal.Decimal {
	return SumCurrency(l.CGSTOutput, l.SGSTOutput, l.IGSTOutput, l.UGSTOutput, l.TCS)
}

// Validate rejects negative tax components
func (l TaxLines) Validate() error {
	for _, t := range TaxTypes() {
		if l.Component(t).IsNegative() {
			return ierr.NewError("tax line must be non negative").
				WithHintf("%s is negative", t).
				WithReportableDetails(map[string]any{
					"tax_type": t,
					"amount":   l.Component(t),
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}
	return nil
}
