package service

import (
	"testing"
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/testutil"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReconcilerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   ReconcilerService
	issueDate time.Time
}

func TestReconcilerService(t *testing.T) {
	suite.Run(t, new(ReconcilerServiceSuite))
}

func (s *ReconcilerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewReconcilerService(NewServiceParams(s.GetConfig(), s.GetLogger()))
	s.issueDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *ReconcilerServiceSuite) TestFullReconciliation() {
	inv := testutil.NewTestInvoice("INV-001", s.issueDate)

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)

	s.True(result.TotalTax.Equal(decimal.NewFromInt(1800)), "total tax %s", result.TotalTax)
	s.True(result.EffectiveTaxRate.Equal(decimal.NewFromInt(18)), "rate %s", result.EffectiveTaxRate)
	s.True(result.SubTotal.Equal(decimal.NewFromInt(10500)), "sub total %s", result.SubTotal)
	s.True(result.TotalInvoiceValue.Equal(decimal.NewFromInt(12300)), "total %s", result.TotalInvoiceValue)

	// no payments yet: full value outstanding and not due as of Jan 15
	s.True(result.TotalBalance.Equal(decimal.NewFromInt(12300)))
	s.True(result.NotDueTotal.Equal(decimal.NewFromInt(12300)))
	s.True(result.OverDueTotal.IsZero())

	s.True(result.TotalDeductions.Equal(decimal.NewFromInt(375)))
	s.True(result.NetCollectible.Equal(decimal.NewFromInt(11925)))
	s.False(result.DeductionsExceedBalance)

	s.NoError(result.Validate())
}

func (s *ReconcilerServiceSuite) TestIdempotence() {
	inv := testutil.NewTestInvoice("INV-002", s.issueDate)

	first, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	second, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *ReconcilerServiceSuite) TestStatedTotalWithinToleranceWins() {
	inv := testutil.NewTestInvoice("INV-003", s.issueDate)
	inv.StatedTotal = testutil.Ptr(decimal.RequireFromString("12300.01"))

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.True(result.TotalInvoiceValue.Equal(decimal.RequireFromString("12300.01")))
}

func (s *ReconcilerServiceSuite) TestAmountMismatchReported() {
	inv := testutil.NewTestInvoice("INV-004", s.issueDate)
	inv.StatedTotal = testutil.Ptr(decimal.NewFromInt(12500))

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Nil(result)
	s.True(ierr.IsAmountMismatch(err))
	// both figures surface to the caller, nothing is auto-corrected
	s.Contains(ierr.Hint(err), "12500")
	s.Contains(ierr.Hint(err), "12300")
}

func (s *ReconcilerServiceSuite) TestNegativeAmountRejected() {
	inv := testutil.NewTestInvoice("INV-005", s.issueDate)
	inv.Taxes.TCS = decimal.NewFromInt(-10)

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Nil(result)
	s.True(ierr.IsInvalidAmount(err))
}

func (s *ReconcilerServiceSuite) TestNetCollectibleFlooredAtZero() {
	inv := testutil.NewTestInvoice("INV-006", s.issueDate)
	receipt := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	inv.Overrides = []invoice.InstallmentOverride{
		{
			Stage:          types.InstallmentStageFirst,
			ReceivedAmount: decimal.NewFromInt(12200),
			ReceiptDate:    &receipt,
		},
	}

	// outstanding balance 100, deductions 375
	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.True(result.TotalBalance.Equal(decimal.NewFromInt(100)))
	s.True(result.NetCollectible.IsZero())
	s.True(result.DeductionsExceedBalance)
	s.NoError(result.Validate())
}

func (s *ReconcilerServiceSuite) TestBasicValueDriftWarned() {
	inv := testutil.NewTestInvoice("INV-007", s.issueDate)
	inv.Line.BasicValue = decimal.NewFromInt(9000) // quantity x rate is 10000

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.True(result.HasWarning(invoice.WarningCodeBasicValueDrift))
}

func (s *ReconcilerServiceSuite) TestQuantityNormalizedBeforeDriftCheck() {
	inv := testutil.NewTestInvoice("INV-009", s.issueDate)
	inv.Line.BasicRate = decimal.NewFromInt(100)
	inv.Line.BasicValue = decimal.NewFromInt(1000)
	inv.Taxes = types.TaxLines{CGSTOutput: decimal.NewFromInt(90), SGSTOutput: decimal.NewFromInt(90)}

	// sub-scale noise rounds away at quantity scale: 10.0004 -> 10.000
	inv.Line.Quantity = decimal.RequireFromString("10.0004")
	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.False(result.HasWarning(invoice.WarningCodeBasicValueDrift))

	// drift at quantity scale still surfaces: 10.004 x 100 = 1000.40
	inv.Line.Quantity = decimal.RequireFromString("10.004")
	result, err = s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.True(result.HasWarning(invoice.WarningCodeBasicValueDrift))
}

func (s *ReconcilerServiceSuite) TestUnparseableTermsWarningPropagates() {
	inv := testutil.NewTestInvoice("INV-008", s.issueDate)
	inv.PaymentTerms = "against delivery"

	result, err := s.service.Reconcile(s.GetContext(), inv, s.GetNow())
	s.Require().NoError(err)
	s.True(result.HasWarning(invoice.WarningCodeUnparseableTerms))
}

func (s *ReconcilerServiceSuite) TestBatchPartialFailure() {
	invoices := make([]*invoice.Invoice, 0, 5)
	for i, number := range []string{"B-1", "B-2", "B-3", "B-4", "B-5"} {
		inv := testutil.NewTestInvoice(number, s.issueDate)
		if i == 2 {
			inv.StatedTotal = testutil.Ptr(decimal.NewFromInt(99999))
		}
		invoices = append(invoices, inv)
	}

	batch, err := s.service.ReconcileBatch(s.GetContext(), invoices, s.GetNow())
	s.Require().NoError(err)

	s.Len(batch.Reconciled, 4)
	s.Equal(1, batch.ExcludedCount())

	s.Require().Len(batch.Failures, 1)
	failure := batch.Failures[0]
	s.Equal(2, failure.Index)
	s.Equal("B-3", failure.InvoiceNumber)
	s.Equal(ierr.ErrCodeAmountMismatch, failure.ErrorCode)

	// successes keep input order
	s.Equal("B-1", batch.Reconciled[0].Header.InvoiceNumber)
	s.Equal("B-5", batch.Reconciled[3].Header.InvoiceNumber)
}

func (s *ReconcilerServiceSuite) TestBatchFailureCarriesErrorClass() {
	missingNumber := testutil.NewTestInvoice("", s.issueDate)
	negativeTax := testutil.NewTestInvoice("D-2", s.issueDate)
	negativeTax.Taxes.CGSTOutput = decimal.NewFromInt(-1)
	mismatch := testutil.NewTestInvoice("D-3", s.issueDate)
	mismatch.StatedTotal = testutil.Ptr(decimal.NewFromInt(1))

	batch, err := s.service.ReconcileBatch(s.GetContext(),
		[]*invoice.Invoice{missingNumber, negativeTax, mismatch}, s.GetNow())
	s.Require().NoError(err)
	s.Require().Len(batch.Failures, 3)

	// each failure class surfaces its own code, never a generic one
	s.Equal(ierr.ErrCodeValidation, batch.Failures[0].ErrorCode)
	s.Equal(ierr.ErrCodeInvalidAmount, batch.Failures[1].ErrorCode)
	s.Equal(ierr.ErrCodeAmountMismatch, batch.Failures[2].ErrorCode)
}
