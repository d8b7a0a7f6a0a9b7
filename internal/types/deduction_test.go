package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeductionCodeCategory(t *testing.T) {
	tests := []struct {
		code DeductionCode
		want DeductionCategory
	}{
		{DeductionCodeTDS, DeductionCategoryStatutory},
		{DeductionCodeTDSOnCGST, DeductionCategoryStatutory},
		{DeductionCodeTDSOnSGST, DeductionCategoryStatutory},
		{DeductionCodeTDSOnIGST, DeductionCategoryStatutory},
		{DeductionCodeCess, DeductionCategoryStatutory},
		{DeductionCodeBankCharges, DeductionCategoryCharges},
		{DeductionCodeLCCharges, DeductionCategoryCharges},
		{DeductionCodeBadDebtProvision, DeductionCategoryRisk},
		{DeductionCodeBadDebtWriteOff, DeductionCategoryRisk},
		{DeductionCodeHold, DeductionCategoryOther},
		{DeductionCodePenalty, DeductionCategoryOther},
		{DeductionCodeInterestAdvance, DeductionCategoryOther},
		{DeductionCodeExcessSupply, DeductionCategoryOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.Category(), "category of %s", tt.code)
	}
}

func TestDeductionCodeValidate(t *testing.T) {
	assert.NoError(t, DeductionCodeTDS.Validate())
	assert.Error(t, DeductionCode("discount").Validate())
}
