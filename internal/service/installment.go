package service

import (
	"fmt"
	"time"

	"github.com/arledger/arledger/internal/domain/invoice"
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/arledger/arledger/internal/types"
	"github.com/shopspring/decimal"
)

// InstallmentService builds the three-stage installment schedule of an
// invoice and classifies each open balance as not-due or overdue against
// an explicit as-of date.
type InstallmentService interface {
	BuildInstallments(totalInvoiceValue decimal.Decimal, paymentTerms string, issueDate time.Time, overrides []invoice.InstallmentOverride, asOf time.Time) ([types.InstallmentStageCount]invoice.Installment, []invoice.Warning, error)
}

type installmentService struct {
	ServiceParams
}

func NewInstallmentService(params ServiceParams) InstallmentService {
	return &installmentService{
		ServiceParams: params,
	}
}

func (s *installmentService) BuildInstallments(
	totalInvoiceValue decimal.Decimal,
	paymentTerms string,
	issueDate time.Time,
	overrides []invoice.InstallmentOverride,
	asOf time.Time,
) ([types.InstallmentStageCount]invoice.Installment, []invoice.Warning, error) {
	var installments [types.InstallmentStageCount]invoice.Installment
	var warnings []invoice.Warning

	termsDays, parsed := types.ParsePaymentTermsDays(paymentTerms, s.Config.Reconciliation.DefaultTermsDays)
	if !parsed {
		s.Logger.Warnw("payment terms label could not be parsed, using default",
			"label", paymentTerms,
			"default_days", termsDays,
		)
		warnings = append(warnings, invoice.Warning{
			Code:    invoice.WarningCodeUnparseableTerms,
			Message: fmt.Sprintf("payment terms %q could not be parsed, defaulted to %d days", paymentTerms, termsDays),
		})
	}

	byStage := make(map[types.InstallmentStage]invoice.InstallmentOverride, len(overrides))
	for _, o := range overrides {
		if err := o.Stage.Validate(); err != nil {
			return installments, nil, err
		}
		if _, ok := byStage[o.Stage]; ok {
			return installments, nil, ierr.NewError("duplicate installment override").
				WithHintf("stage %d is overridden more than once", o.Stage).
				Mark(ierr.ErrValidation)
		}
		byStage[o.Stage] = o
	}

	// Stage 1 absorbs whatever the later stages do not explicitly claim,
	// so the three due amounts always sum to the total invoice value
	// unless overridden outright.
	laterClaims := decimal.Zero
	for _, stage := range []types.InstallmentStage{types.InstallmentStageSecond, types.InstallmentStageThird} {
		if o, ok := byStage[stage]; ok && o.DueAmount != nil {
			laterClaims = laterClaims.Add(*o.DueAmount)
		}
	}

	prevDueDate := types.DateOnly(issueDate)
	for idx := 0; idx < types.InstallmentStageCount; idx++ {
		stage := types.InstallmentStage(idx + 1)
		override, hasOverride := byStage[stage]

		inst := invoice.Installment{Stage: stage}

		switch {
		case hasOverride && override.DueAmount != nil:
			inst.DueAmount = types.RoundCurrency(*override.DueAmount)
		case stage == types.InstallmentStageFirst:
			remainder := totalInvoiceValue.Sub(laterClaims)
			if remainder.IsNegative() {
				remainder = decimal.Zero
			}
			inst.DueAmount = types.RoundCurrency(remainder)
		default:
			// unused unless explicitly funded
			inst.DueAmount = decimal.Zero
		}

		if hasOverride {
			inst.ReceivedAmount = types.RoundCurrency(override.ReceivedAmount)
			inst.ReceiptDate = override.ReceiptDate
		}

		// Due-date derivation cascades: stage 1 from the issue date, later
		// funded stages from the previous stage's due date.
		switch {
		case hasOverride && override.DueDate != nil:
			d := types.DateOnly(*override.DueDate)
			inst.DueDate = &d
		case stage == types.InstallmentStageFirst:
			d := types.DateOnly(issueDate.AddDate(0, 0, termsDays))
			inst.DueDate = &d
		case inst.DueAmount.IsPositive() || inst.ReceivedAmount.IsPositive():
			d := types.DateOnly(prevDueDate.AddDate(0, 0, termsDays))
			inst.DueDate = &d
		}
		if inst.DueDate != nil {
			prevDueDate = *inst.DueDate
		}

		balance := inst.DueAmount.Sub(inst.ReceivedAmount)
		if balance.IsNegative() {
			inst.Overpayment = balance.Neg()
			balance = decimal.Zero
			warnings = append(warnings, invoice.Warning{
				Code:    invoice.WarningCodeOverpayment,
				Message: fmt.Sprintf("stage %d received %s against due %s", stage, inst.ReceivedAmount, inst.DueAmount),
			})
		}
		inst.Balance = balance

		inst.NotDue, inst.OverDue, inst.Aging = classifyBalance(balance, inst.DueDate, asOf)
		inst.State = deriveState(inst.DueAmount, inst.ReceivedAmount)

		if inst.ReceiptDate != nil && inst.DueDate != nil {
			days := types.DaysBetween(*inst.DueDate, *inst.ReceiptDate)
			inst.DaysToReceipt = &days
		}

		installments[idx] = inst
	}

	return installments, warnings, nil
}

// classifyBalance splits an open balance into the not-due and overdue
// buckets. The cutover is hard: the balance is not-due through the due
// date itself and overdue from the next day.
func classifyBalance(balance decimal.Decimal, dueDate *time.Time, asOf time.Time) (notDue, overDue decimal.Decimal, bucket types.AgingBucket) {
	if !balance.IsPositive() {
		return decimal.Zero, decimal.Zero, types.AgingBucketNone
	}
	if dueDate == nil || !types.DateOnly(asOf).After(types.DateOnly(*dueDate)) {
		return balance, decimal.Zero, types.AgingBucketNotDue
	}
	return decimal.Zero, balance, types.AgingBucketOverdue
}

// deriveState maps cumulative amounts to the installment lifecycle state.
// Settled is terminal; amounts are never reset.
func deriveState(dueAmount, receivedAmount decimal.Decimal) types.InstallmentState {
	switch {
	case dueAmount.IsZero() && receivedAmount.IsZero():
		return types.InstallmentStateUnused
	case receivedAmount.IsZero():
		return types.InstallmentStateScheduled
	case receivedAmount.LessThan(dueAmount):
		return types.InstallmentStatePartiallyPaid
	default:
		return types.InstallmentStateSettled
	}
}
