package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEffectiveRate(t *testing.T) {
	tests := []struct {
		name       string
		totalTax   string
		basicValue string
		want       string
	}{
		{
			name:       "standard 18 percent",
			totalTax:   "1800",
			basicValue: "10000",
			want:       "18",
		},
		{
			name:       "rounded to two decimals",
			totalTax:   "1000",
			basicValue: "30000",
			want:       "3.33",
		},
		{
			name:       "zero basic value is defined zero case",
			totalTax:   "1800",
			basicValue: "0",
			want:       "0",
		},
		{
			name:       "negative basic value is defined zero case",
			totalTax:   "1800",
			basicValue: "-100",
			want:       "0",
		},
		{
			name:       "zero tax",
			totalTax:   "0",
			basicValue: "10000",
			want:       "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveRate(decimal.RequireFromString(tt.totalTax), decimal.RequireFromString(tt.basicValue))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tolerance := Tolerance(1)

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"equal amounts", "100.00", "100.00", true},
		{"one minor unit apart", "100.00", "100.01", true},
		{"two minor units apart", "100.00", "100.02", false},
		{"symmetric", "99.99", "100.00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinTolerance(decimal.RequireFromString(tt.a), decimal.RequireFromString(tt.b), tolerance)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSumCurrency(t *testing.T) {
	got := SumCurrency(
		decimal.RequireFromString("10.005"),
		decimal.RequireFromString("0.004"),
	)
	if !got.Equal(decimal.RequireFromString("10.01")) {
		t.Errorf("got %v, want 10.01", got)
	}
}
