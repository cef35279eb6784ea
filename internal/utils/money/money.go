package money

import "github.com/shopspring/decimal"

// All monetary values are int64 minor currency units (cents). Every
// multiplication that mixes a fractional factor (hours, markup, percentage)
// goes through decimal and is rounded half-up to a whole minor unit at that
// step, so services and repositories agree on the exact figures.

// HoursTimesRate returns round(hours * ratePerHour) in minor units.
func HoursTimesRate(hours float64, ratePerHour int64) int64 {
	return decimal.NewFromFloat(hours).
		Mul(decimal.NewFromInt(ratePerHour)).
		Round(0).IntPart()
}

// ApplyMarkup returns round(amount * (1 + markupRate)) in minor units.
func ApplyMarkup(amount int64, markupRate float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(1).Add(decimal.NewFromFloat(markupRate))).
		Round(0).IntPart()
}

// PercentOf returns round(total * pct / 100) in minor units.
func PercentOf(total int64, pct float64) int64 {
	return decimal.NewFromInt(total).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Round(0).IntPart()
}

// RatioPercent returns round(numerator / denominator * 100) as a whole
// percentage, and 0 when the denominator is zero.
func RatioPercent(numerator, denominator int64) int64 {
	if denominator == 0 {
		return 0
	}
	return decimal.NewFromInt(numerator).
		Div(decimal.NewFromInt(denominator)).
		Mul(decimal.NewFromInt(100)).
		Round(0).IntPart()
}

// QuantityTimesRate returns round(quantity * rate) in minor units. Used for
// invoice line items where quantity may be fractional.
func QuantityTimesRate(quantity float64, rate int64) int64 {
	return decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromInt(rate)).
		Round(0).IntPart()
}
