package types

import (
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/samber/lo"
)

// InstallmentStage identifies one of the three staggered due points of an
// invoice. Stages are fixed at issue time; an unused stage is zeroed out,
// never removed.
type InstallmentStage int

const (
	InstallmentStageFirst  InstallmentStage = 1
	InstallmentStageSecond InstallmentStage = 2
	InstallmentStageThird  InstallmentStage = 3
)

// InstallmentStageCount is the fixed number of stages per invoice
const InstallmentStageCount = 3

func (s InstallmentStage) Validate() error {
	allowed := []InstallmentStage{
		InstallmentStageFirst,
		InstallmentStageSecond,
		InstallmentStageThird,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid installment stage").
			WithHint("Installment stage must be 1, 2 or 3").
			WithReportableDetails(map[string]any{
				"stage": int(s),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InstallmentState is the lifecycle state of a single installment stage.
// Settled is terminal; received amounts are cumulative and never reset.
type InstallmentState string

const (
	// InstallmentStateUnused indicates the stage carries no amount
	InstallmentStateUnused InstallmentState = "unused"
	// InstallmentStateScheduled indicates a due amount with no payment yet
	InstallmentStateScheduled InstallmentState = "scheduled"
	// InstallmentStatePartiallyPaid indicates a payment below the due amount
	InstallmentStatePartiallyPaid InstallmentState = "partially_paid"
	// InstallmentStateSettled indicates the due amount is fully received
	InstallmentStateSettled InstallmentState = "settled"
)

func (s InstallmentState) String() string {
	return string(s)
}

func (s InstallmentState) Validate() error {
	allowed := []InstallmentState{
		InstallmentStateUnused,
		InstallmentStateScheduled,
		InstallmentStatePartiallyPaid,
		InstallmentStateSettled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid installment state").
			WithHint("Please provide a valid installment state").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AgingBucket tags an open installment balance relative to its due date.
// The split is a hard cutover at the due date, not a graduated schedule.
type AgingBucket string

const (
	// AgingBucketNone applies when the stage carries no open balance
	AgingBucketNone AgingBucket = "none"
	// AgingBucketNotDue applies while the due date has not passed
	AgingBucketNotDue AgingBucket = "not_due"
	// AgingBucketOverdue applies once the due date has passed
	AgingBucketOverdue AgingBucket = "overdue"
)

func (b AgingBucket) String() string {
	return string(b)
}
