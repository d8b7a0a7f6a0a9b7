package testutil

import (
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// NewTestInvoice returns a well-formed invoice fixture: basic value 10000,
// freight 500, CGST+SGST 900 each, a handful of deductions and Net 30
// terms. Tests mutate the returned record as needed.
func NewTestInvoice(number string, issueDate time.Time) *invoice.Invoice {
	return &invoice.Invoice{
		Header: invoice.Header{
			InvoiceNumber: number,
			IssueDate:     issueDate,
			CustomerName:  "Acme Industries",
			BusinessUnit:  "Pipes",
			Region:        "North",
			Zone:          "Z1",
			Segment:       "Institutional",
		},
		Line: invoice.LineValue{
			Quantity:     decimal.NewFromInt(100),
			Unit:         "MT",
			BasicRate:    decimal.NewFromInt(100),
			BasicValue:   decimal.NewFromInt(10000),
			FreightValue: decimal.NewFromInt(500),
		},
		Taxes: types.TaxLines{
			CGSTOutput: decimal.NewFromInt(900),
			SGSTOutput: decimal.NewFromInt(900),
		},
		PaymentTerms: "Net 30",
		Deductions: invoice.DeductionSet{
			TDS:              decimal.NewFromInt(200),
			BankCharges:      decimal.NewFromInt(50),
			BadDebtProvision: decimal.NewFromInt(100),
			Hold:             decimal.NewFromInt(25),
		},
	}
}

// Ptr returns a pointer to the given value, for optional fixture fields
func Ptr[T any](v T) *T {
	return &v
}
