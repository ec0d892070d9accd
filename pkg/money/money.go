// Package money converts between stored integer cents and decimal amounts.
package money

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromFloat converts a decimal amount to cents, rounding half away from zero.
func FromFloat(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(hundred).Round(0).IntPart()
}

// ToFloat converts cents to a decimal amount for display.
func ToFloat(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// Parse converts a user supplied amount ("25.50", "25,50") to cents.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty amount")
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", s)
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.BigInt().IsInt64() {
		return 0, errors.Errorf("amount %q is out of range", s)
	}
	return cents.IntPart(), nil
}

// ApplyPercentOff returns cents × (1 − percent/100), rounded to the cent.
func ApplyPercentOff(cents int64, percent float64) int64 {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(percent).Div(hundred))
	return decimal.NewFromInt(cents).Mul(factor).Round(0).IntPart()
}

// Percent returns part/whole × 100, or 0 when whole is not positive.
func Percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	f, _ := decimal.NewFromInt(part).Div(decimal.NewFromInt(whole)).Mul(hundred).Float64()
	return f
}

// Average returns total/count in display units, or 0 when count is zero.
func Average(totalCents int64, count int64) float64 {
	if count == 0 {
		return 0
	}
	f, _ := decimal.New(totalCents, -2).Div(decimal.NewFromInt(count)).Round(2).Float64()
	return f
}
