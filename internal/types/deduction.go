package types

import (
	ierr "github.com/arledger/arledger/internal/errors"
	"github.com/samber/lo"
)

// DeductionCode names one statutory or contractual deduction line
type DeductionCode string

const (
	DeductionCodeTDS              DeductionCode = "tds"
	DeductionCodeTDSOnCGST        DeductionCode = "tds_on_cgst"
	DeductionCodeTDSOnSGST        DeductionCode = "tds_on_sgst"
	DeductionCodeTDSOnIGST        DeductionCode = "tds_on_igst"
	DeductionCodeCess             DeductionCode = "cess"
	DeductionCodeExcessSupply     DeductionCode = "excess_supply"
	DeductionCodeInterestAdvance  DeductionCode = "interest_on_advance"
	DeductionCodeHold             DeductionCode = "hold"
	DeductionCodePenalty          DeductionCode = "penalty"
	DeductionCodeBankCharges      DeductionCode = "bank_charges"
	DeductionCodeLCCharges        DeductionCode = "lc_charges"
	DeductionCodeBadDebtProvision DeductionCode = "bad_debt_provision"
	DeductionCodeBadDebtWriteOff  DeductionCode = "bad_debt_write_off"
)

func (c DeductionCode) String() string {
	return string(c)
}

// DeductionCodes returns all deduction lines in canonical order
func DeductionCodes() []DeductionCode {
	return []DeductionCode{
		DeductionCodeTDS,
		DeductionCodeTDSOnCGST,
		DeductionCodeTDSOnSGST,
		DeductionCodeTDSOnIGST,
		DeductionCodeCess,
		DeductionCodeExcessSupply,
		DeductionCodeInterestAdvance,
		DeductionCodeHold,
		DeductionCodePenalty,
		DeductionCodeBankCharges,
		DeductionCodeLCCharges,
		DeductionCodeBadDebtProvision,
		DeductionCodeBadDebtWriteOff,
	}
}

func (c DeductionCode) Validate() error {
	if !lo.Contains(DeductionCodes(), c) {
		return ierr.NewError("invalid deduction code").
			WithHint("Please provide a valid deduction code").
			WithReportableDetails(map[string]any{
				"code": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DeductionCategory groups deduction lines for reporting
type DeductionCategory string

const (
	// DeductionCategoryStatutory covers TDS variants and cess
	DeductionCategoryStatutory DeductionCategory = "statutory"
	// DeductionCategoryCharges covers bank and LC charges
	DeductionCategoryCharges DeductionCategory = "charges"
	// DeductionCategoryRisk covers bad-debt provision and write-off
	DeductionCategoryRisk DeductionCategory = "risk"
	// DeductionCategoryOther covers holds, penalties and interest
	DeductionCategoryOther DeductionCategory = "other"
)

func (c DeductionCategory) String() string {
	return string(c)
}

// DeductionCategories returns all categories in canonical order
func DeductionCategories() []DeductionCategory {
	return []DeductionCategory{
		DeductionCategoryStatutory,
		DeductionCategoryCharges,
		DeductionCategoryRisk,
		DeductionCategoryOther,
	}
}

// Category maps a deduction line to its reporting category
func (c DeductionCode) Category() DeductionCategory {
	switch c {
	case DeductionCodeTDS, DeductionCodeTDSOnCGST, DeductionCodeTDSOnSGST,
		DeductionCodeTDSOnIGST, DeductionCodeCess:
		return DeductionCategoryStatutory
	case DeductionCodeBankCharges, DeductionCodeLCCharges:
		return DeductionCategoryCharges
	case DeductionCodeBadDebtProvision, DeductionCodeBadDebtWriteOff:
		return DeductionCategoryRisk
	default:
		return DeductionCategoryOther
	}
}
