package types

import (
	"github.com/shopspring/decimal"
)

// Fixed scales for all monetary and quantity arithmetic. Amounts are
// carried as decimal.Decimal end to end; raw binary floats never enter
// the computation path.
const (
	// CurrencyScale is the number of decimal places for monetary amounts
	CurrencyScale = 2
	// QuantityScale is the number of decimal places for quantities
	QuantityScale = 3
	// RateScale is the number of decimal places for percentage rates
	RateScale = 2
)

// RoundCurrency rounds an amount to currency scale
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// RoundQuantity rounds a quantity to quantity scale
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}

// RoundRate rounds a percentage rate to rate scale
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// MinorUnit returns the smallest representable currency amount (0.01)
func MinorUnit() decimal.Decimal {
	return decimal.New(1, -CurrencyScale)
}

// Tolerance returns the reconciliation tolerance for the given number of
// minor currency units.
func Tolerance(minorUnits int64) decimal.Decimal {
	return MinorUnit().Mul(decimal.NewFromInt(minorUnits))
}

// WithinTolerance reports whether two amounts agree within the tolerance
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// SumCurrency sums amounts at currency scale
func SumCurrency(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return RoundCurrency(total)
}

// EffectiveRate derives a percentage rate from a tax total and a basic
// value. A zero or negative basic value is a defined zero-rate case, not
// a division error.
func EffectiveRate(totalTax, basicValue decimal.Decimal) decimal.Decimal {
	if !basicValue.IsPositive() {
		return decimal.Zero
	}
	return RoundRate(totalTax.Div(basicValue).Mul(decimal.NewFromInt(100)))
}
