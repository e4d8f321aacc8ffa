// Package pricing implements the line-item calculation core for quotations
// and sales orders. All operations are pure functions over in-memory values:
// they take a value, return a new value, and never touch storage. Monetary
// amounts are fixed-point decimals to keep discount/tax cascades free of
// floating-point drift.
package pricing

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the rounding precision for monetary amounts
// (2 decimal places, i.e. cents/øre).
const MinorUnitPlaces = 2

var hundred = decimal.NewFromInt(100)

var (
	// ErrDiscountOutOfRange is returned when a discount percent is outside [0, 100]
	ErrDiscountOutOfRange = errors.New("discount percent must be between 0 and 100")

	// ErrNegativeTaxPercent is returned when a tax percent is negative
	ErrNegativeTaxPercent = errors.New("tax percent must not be negative")
)

// Round rounds an amount to the currency's minor unit using half-up rounding.
// Rounding happens at every derived field, not just at the final total, so
// that component sums never drift away from the displayed breakdown.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MinorUnitPlaces)
}

// ApplyPercent returns base × percent / 100, rounded to the minor unit.
func ApplyPercent(base, percent decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(percent).Div(hundred))
}

// FromFloat converts a float coming in over the API boundary to a decimal.
// NaN and ±Inf can never be represented as a decimal and are treated as zero;
// the second return value is false so the caller can record a warning instead
// of propagating garbage into totals.
func FromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// ValidateDiscountPercent rejects discount percents outside [0, 100].
// Validation happens at the edit boundary; the recompute functions assume
// percents have already been validated.
func ValidateDiscountPercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return ErrDiscountOutOfRange
	}
	return nil
}

// ValidateTaxPercent rejects negative tax percents. Rates above 100 are
// permitted: some markets apply compounded or punitive rates.
func ValidateTaxPercent(p decimal.Decimal) error {
	if p.IsNegative() {
		return ErrNegativeTaxPercent
	}
	return nil
}

// clampNonNegative maps negative inputs to zero. Quantities and unit prices
// are clamped before computation so a derived total can never be negative.
func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
