package service

import (
	"testing"
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	"github.com/arledger/arledger/internal/testutil"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InstallmentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service   InstallmentService
	issueDate time.Time
}

func TestInstallmentService(t *testing.T) {
	suite.Run(t, new(InstallmentServiceSuite))
}

func (s *InstallmentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewInstallmentService(NewServiceParams(s.GetConfig(), s.GetLogger()))
	s.issueDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *InstallmentServiceSuite) TestDefaultScheduleSingleStage() {
	installments, warnings, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, nil, s.GetNow(),
	)
	s.NoError(err)
	s.Empty(warnings)

	first := installments[0]
	s.Equal(types.InstallmentStageFirst, first.Stage)
	s.NotNil(first.DueDate)
	s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), *first.DueDate)
	s.True(first.DueAmount.Equal(decimal.NewFromInt(1000)))
	s.Equal(types.InstallmentStateScheduled, first.State)

	for _, inst := range installments[1:] {
		s.True(inst.DueAmount.IsZero())
		s.Nil(inst.DueDate)
		s.Equal(types.InstallmentStateUnused, inst.State)
		s.Equal(types.AgingBucketNone, inst.Aging)
	}
}

func (s *InstallmentServiceSuite) TestClassificationCutover() {
	dueDate := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	// on the due date itself the balance is still not due
	installments, _, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, nil, dueDate,
	)
	s.NoError(err)
	s.True(installments[0].NotDue.Equal(decimal.NewFromInt(1000)))
	s.True(installments[0].OverDue.IsZero())
	s.Equal(types.AgingBucketNotDue, installments[0].Aging)

	// one day past the due date the whole balance is overdue
	installments, _, err = s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, nil, dueDate.AddDate(0, 0, 1),
	)
	s.NoError(err)
	s.True(installments[0].NotDue.IsZero())
	s.True(installments[0].OverDue.Equal(decimal.NewFromInt(1000)))
	s.Equal(types.AgingBucketOverdue, installments[0].Aging)
}

func (s *InstallmentServiceSuite) TestThreeStageSplitWithCascadingDueDates() {
	overrides := []invoice.InstallmentOverride{
		{Stage: types.InstallmentStageSecond, DueAmount: testutil.Ptr(decimal.NewFromInt(300))},
		{Stage: types.InstallmentStageThird, DueAmount: testutil.Ptr(decimal.NewFromInt(200))},
	}

	installments, warnings, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, overrides, s.GetNow(),
	)
	s.NoError(err)
	s.Empty(warnings)

	// stage 1 absorbs the unclaimed remainder
	s.True(installments[0].DueAmount.Equal(decimal.NewFromInt(500)))
	s.True(installments[1].DueAmount.Equal(decimal.NewFromInt(300)))
	s.True(installments[2].DueAmount.Equal(decimal.NewFromInt(200)))

	// due dates cascade one terms interval per funded stage
	s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), *installments[0].DueDate)
	s.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), *installments[1].DueDate)
	s.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *installments[2].DueDate)
}

func (s *InstallmentServiceSuite) TestBalanceConservationAcrossStages() {
	receipt := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	overrides := []invoice.InstallmentOverride{
		{
			Stage:          types.InstallmentStageFirst,
			DueAmount:      testutil.Ptr(decimal.NewFromInt(600)),
			ReceivedAmount: decimal.NewFromInt(250),
			ReceiptDate:    &receipt,
		},
		{Stage: types.InstallmentStageSecond, DueAmount: testutil.Ptr(decimal.NewFromInt(400))},
	}

	installments, _, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, overrides, s.GetNow(),
	)
	s.NoError(err)

	for _, inst := range installments {
		if inst.Balance.IsPositive() {
			s.True(inst.NotDue.Add(inst.OverDue).Equal(inst.Balance),
				"stage %d: not_due %s + over_due %s != balance %s", inst.Stage, inst.NotDue, inst.OverDue, inst.Balance)
		} else {
			s.True(inst.NotDue.IsZero())
			s.True(inst.OverDue.IsZero())
		}
	}

	s.True(installments[0].Balance.Equal(decimal.NewFromInt(350)))
	s.Equal(types.InstallmentStatePartiallyPaid, installments[0].State)
}

func (s *InstallmentServiceSuite) TestOverpaymentClampedToZeroBalance() {
	overrides := []invoice.InstallmentOverride{
		{
			Stage:          types.InstallmentStageFirst,
			DueAmount:      testutil.Ptr(decimal.NewFromInt(500)),
			ReceivedAmount: decimal.NewFromInt(650),
		},
	}

	installments, warnings, err := s.service.BuildInstallments(
		decimal.NewFromInt(500), "Net 30", s.issueDate, overrides, s.GetNow(),
	)
	s.NoError(err)

	first := installments[0]
	s.True(first.Balance.IsZero())
	s.True(first.Overpayment.Equal(decimal.NewFromInt(150)))
	s.Equal(types.InstallmentStateSettled, first.State)
	s.Equal(types.AgingBucketNone, first.Aging)

	s.Require().Len(warnings, 1)
	s.Equal(invoice.WarningCodeOverpayment, warnings[0].Code)
}

func (s *InstallmentServiceSuite) TestDaysToReceiptRetainsEarlyPayment() {
	receipt := time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)
	overrides := []invoice.InstallmentOverride{
		{
			Stage:          types.InstallmentStageFirst,
			ReceivedAmount: decimal.NewFromInt(1000),
			ReceiptDate:    &receipt,
		},
	}

	installments, _, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, overrides, s.GetNow(),
	)
	s.NoError(err)

	first := installments[0]
	s.Require().NotNil(first.DaysToReceipt)
	// receipt ten days before the Jan 31 due date
	s.Equal(-10, *first.DaysToReceipt)
	s.Equal(types.InstallmentStateSettled, first.State)
}

func (s *InstallmentServiceSuite) TestUnparseableTermsDefaultsWithWarning() {
	installments, warnings, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "cash against documents", s.issueDate, nil, s.GetNow(),
	)
	s.NoError(err)

	s.Require().Len(warnings, 1)
	s.Equal(invoice.WarningCodeUnparseableTerms, warnings[0].Code)

	// default 30 day terms applied
	s.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), *installments[0].DueDate)
}

func (s *InstallmentServiceSuite) TestDuplicateOverrideRejected() {
	overrides := []invoice.InstallmentOverride{
		{Stage: types.InstallmentStageFirst},
		{Stage: types.InstallmentStageFirst},
	}

	_, _, err := s.service.BuildInstallments(
		decimal.NewFromInt(1000), "Net 30", s.issueDate, overrides, s.GetNow(),
	)
	s.Error(err)
}
