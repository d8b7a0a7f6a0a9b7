package invoice

import (
	"time"

	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// Warning is a non-fatal finding attached to a reconciled invoice, e.g.
// an unparseable payment-terms label or an overpaid installment stage.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarningCodeUnparseableTerms = "unparseable_payment_terms"
	WarningCodeOverpayment      = "overpayment"
	WarningCodeBasicValueDrift  = "basic_value_drift"
)

// Installment is the derived state of one due stage
type Installment struct {
	Stage          types.InstallmentStage `json:"stage"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	DueAmount      decimal.Decimal        `json:"due_amount"`
	ReceivedAmount decimal.Decimal        `json:"received_amount"`
	ReceiptDate    *time.Time             `json:"receipt_date,omitempty"`
	Balance        decimal.Decimal        `json:"balance"`
	NotDue         decimal.Decimal        `json:"not_due"`
	OverDue        decimal.Decimal        `json:"over_due"`
	Overpayment    decimal.Decimal        `json:"overpayment"`
	DaysToReceipt  *int                   `json:"days_to_receipt,omitempty"`
	State          types.InstallmentState `json:"state"`
	Aging          types.AgingBucket      `json:"aging"`
}

// ReconciledInvoice is the canonical derived view of one invoice. It is
// recomputed on demand and never treated as an authoritative cache.
type ReconciledInvoice struct {
	Header            Header          `json:"header"`
	TotalTax          decimal.Decimal `json:"total_tax"`
	EffectiveTaxRate  decimal.Decimal `json:"effective_tax_rate"`
	SubTotal          decimal.Decimal `json:"sub_total"`
	TotalInvoiceValue decimal.Decimal `json:"total_invoice_value"`

	Installments [types.InstallmentStageCount]Installment `json:"installments"`

	TotalBalance     decimal.Decimal `json:"total_balance"`
	NotDueTotal      decimal.Decimal `json:"not_due_total"`
	OverDueTotal     decimal.Decimal `json:"over_due_total"`
	TotalOverpayment decimal.Decimal `json:"total_overpayment"`

	TotalDeductions         decimal.Decimal                             `json:"total_deductions"`
	DeductionsByCategory    map[types.DeductionCategory]decimal.Decimal `json:"deductions_by_category"`
	NetCollectible          decimal.Decimal                             `json:"net_collectible"`
	DeductionsExceedBalance bool                                        `json:"deductions_exceed_balance"`

	Taxes    types.TaxLines `json:"taxes"`
	Warnings []Warning      `json:"warnings,omitempty"`
	AsOf     time.Time      `json:"as_of"`
}

// Validate checks the derived-view invariants. Reconciliation always
// produces a view that passes; the method exists so collaborators handed a
// cached view can re-check it.
func (r *ReconciledInvoice) Validate() error {
	balanceSum := decimal.Zero
	notDueSum := decimal.Zero
	overDueSum := decimal.Zero
	for _, inst := range r.Installments {
		if inst.Balance.IsNegative() {
			return NewValidationError("balance", "must be non negative")
		}
		if inst.Balance.IsPositive() {
			if !inst.NotDue.Add(inst.OverDue).Equal(inst.Balance) {
				return NewValidationError("not_due", "not_due + over_due must equal balance")
			}
		} else if !inst.NotDue.IsZero() || !inst.OverDue.IsZero() {
			return NewValidationError("not_due", "must be zero when balance is zero")
		}
		balanceSum = balanceSum.Add(inst.Balance)
		notDueSum = notDueSum.Add(inst.NotDue)
		overDueSum = overDueSum.Add(inst.OverDue)
	}

	if !r.TotalBalance.Equal(balanceSum) {
		return NewValidationError("total_balance", "must equal sum of installment balances")
	}
	if !r.NotDueTotal.Equal(notDueSum) {
		return NewValidationError("not_due_total", "must equal sum of installment not_due")
	}
	if !r.OverDueTotal.Equal(overDueSum) {
		return NewValidationError("over_due_total", "must equal sum of installment over_due")
	}

	if r.NetCollectible.IsNegative() {
		return NewValidationError("net_collectible", "must be non negative")
	}

	return nil
}

// HasWarning reports whether the view carries a warning with the given code
func (r *ReconciledInvoice) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
