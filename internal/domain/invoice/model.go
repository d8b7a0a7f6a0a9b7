package invoice

import (
	"time"

	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// Header carries the identifying and descriptive fields of an invoice.
// Immutable once the invoice is issued; administrative corrections happen
// upstream of this core.
type Header struct {
	InvoiceNumber string    `json:"invoice_number"`
	IssueDate     time.Time `json:"issue_date"`
	CustomerName  string    `json:"customer_name"`
	CustomerRef   string    `json:"customer_ref,omitempty"`
	BusinessUnit  string    `json:"business_unit"`
	Region        string    `json:"region"`
	Zone          string    `json:"zone"`
	Segment       string    `json:"segment,omitempty"`
}

// LineValue holds the quantity and value fields of the invoice line.
// BasicValue may be supplied independently of Quantity x BasicRate and is
// reconciled against it within tolerance.
type LineValue struct {
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
	BasicRate    decimal.Decimal `json:"basic_rate"`
	BasicValue   decimal.Decimal `json:"basic_value"`
	FreightRate  decimal.Decimal `json:"freight_rate"`
	FreightValue decimal.Decimal `json:"freight_value"`
}

// InstallmentOverride supplies explicit values for one installment stage,
// overriding the defaults derived from payment terms. Nil pointer fields
// mean "derive".
type InstallmentOverride struct {
	Stage          types.InstallmentStage `json:"stage"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	DueAmount      *decimal.Decimal       `json:"due_amount,omitempty"`
	ReceivedAmount decimal.Decimal        `json:"received_amount"`
	ReceiptDate    *time.Time             `json:"receipt_date,omitempty"`
}

// DeductionSet is the fixed set of named deduction lines of one invoice
type DeductionSet struct {
	TDS               decimal.Decimal `json:"tds"`
	TDSOnCGST         decimal.Decimal `json:"tds_on_cgst"`
	TDSOnSGST         decimal.Decimal `json:"tds_on_sgst"`
	TDSOnIGST         decimal.Decimal `json:"tds_on_igst"`
	Cess              decimal.Decimal `json:"cess"`
	ExcessSupply      decimal.Decimal `json:"excess_supply"`
	InterestOnAdvance decimal.Decimal `json:"interest_on_advance"`
	Hold              decimal.Decimal `json:"hold"`
	Penalty           decimal.Decimal `json:"penalty"`
	BankCharges       decimal.Decimal `json:"bank_charges"`
	LCCharges         decimal.Decimal `json:"lc_charges"`
	BadDebtProvision  decimal.Decimal `json:"bad_debt_provision"`
	BadDebtWriteOff   decimal.Decimal `json:"bad_debt_write_off"`
}

// Line returns the amount for one deduction code
func (d DeductionSet) Line(code types.DeductionCode) decimal.Decimal {
	switch code {
	case types.DeductionCodeTDS:
		return d.TDS
	case types.DeductionCodeTDSOnCGST:
		return d.TDSOnCGST
	case types.DeductionCodeTDSOnSGST:
		return d.TDSOnSGST
	case types.DeductionCodeTDSOnIGST:
		return d.TDSOnIGST
	case types.DeductionCodeCess:
		return d.Cess
	case types.DeductionCodeExcessSupply:
		return d.ExcessSupply
	case types.DeductionCodeInterestAdvance:
		return d.InterestOnAdvance
	case types.DeductionCodeHold:
		return d.Hold
	case types.DeductionCodePenalty:
		return d.Penalty
	case types.DeductionCodeBankCharges:
		return d.BankCharges
	case types.DeductionCodeLCCharges:
		return d.LCCharges
	case types.DeductionCodeBadDebtProvision:
		return d.BadDebtProvision
	case types.DeductionCodeBadDebtWriteOff:
		return d.BadDebtWriteOff
	default:
		return decimal.Zero
	}
}

// Invoice is the raw input record supplied by the persistence layer.
// All monetary fields arrive as decimal-safe values.
type Invoice struct {
	Header          Header                `json:"header"`
	Line            LineValue             `json:"line"`
	Taxes           types.TaxLines        `json:"taxes"`
	ExplicitTaxRate *decimal.Decimal      `json:"explicit_tax_rate,omitempty"`
	PaymentTerms    string                `json:"payment_terms,omitempty"`
	StatedTotal     *decimal.Decimal      `json:"stated_total,omitempty"`
	Overrides       []InstallmentOverride `json:"installment_overrides,omitempty"`
	Deductions      DeductionSet          `json:"deductions"`
}

// Validate checks field-level non-negativity and structural sanity of the
// raw record. Cross-field reconciliation happens in the reconciler.
func (i *Invoice) Validate() error {
	if i.Header.InvoiceNumber == "" {
		return ierr.NewError("invoice number is required").
			WithHint("Please provide an invoice number").
			Mark(ierr.ErrValidation)
	}

	if i.Header.IssueDate.IsZero() {
		return ierr.NewError("issue date is required").
			WithHint("Please provide an issue date").
			Mark(ierr.ErrValidation)
	}

	lineFields := []struct {
		name   string
		amount decimal.Decimal
	}{
		{"quantity", i.Line.Quantity},
		{"basic_rate", i.Line.BasicRate},
		{"basic_value", i.Line.BasicValue},
		{"freight_rate", i.Line.FreightRate},
		{"freight_value", i.Line.FreightValue},
	}
	for _, f := range lineFields {
		field, amount := f.name, f.amount
		if amount.IsNegative() {
			return ierr.NewError("invoice amount must be non negative").
				WithHintf("%s is negative", field).
				WithReportableDetails(map[string]any{
					"field":  field,
					"amount": amount,
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}

	if err := i.Taxes.Validate(); err != nil {
		return err
	}

	for _, code := range types.DeductionCodes() {
		if i.Deductions.Line(code).IsNegative() {
			return ierr.NewError("deduction must be non negative").
				WithHintf("%s is negative", code).
				WithReportableDetails(map[string]any{
					"code":   code,
					"amount": i.Deductions.Line(code),
				}).
				Mark(ierr.ErrInvalidAmount)
		}
	}

	for _, o := range i.Overrides {
		if err := o.Stage.Validate(); err != nil {
			return err
		}
		if o.DueAmount != nil && o.DueAmount.IsNegative() {
			return ierr.NewError("installment due amount must be non negative").
				WithHintf("stage %d due amount is negative", o.Stage).
				Mark(ierr.ErrInvalidAmount)
		}
		if o.ReceivedAmount.IsNegative() {
			return ierr.NewError("installment received amount must be non negative").
				WithHintf("stage %d received amount is negative", o.Stage).
				Mark(ierr.ErrInvalidAmount)
		}
	}

	return nil
}
