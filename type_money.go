package networth

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ReportingCurrency is the currency every consolidated figure is expressed in.
const ReportingCurrency = "TWD"

// FormatMoney formats v with thousands grouping and at most two decimals,
// trailing zeros dropped: 1234.5 is "1,234.5", 1000 is "1,000".
func FormatMoney(v float64) string { return FormatNumber(v, 0, 2) }

// FormatNumber formats v with thousands grouping, rounded half away from zero
// to maxFrac decimals and padded with zeros to at least minFrac decimals.
func FormatNumber(v float64, minFrac, maxFrac int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	if maxFrac < minFrac {
		maxFrac = minFrac
	}
	d := decimal.NewFromFloat(v).Round(int32(maxFrac))

	frac := fractionDigits(d)
	if frac < minFrac {
		frac = minFrac
	}
	shifted := d.Shift(int32(frac))
	if !shifted.LessThan(maxInt64) || !shifted.GreaterThan(minInt64) {
		// out of the formatter range, ungrouped.
		return d.StringFixed(int32(frac))
	}
	f := money.NewFormatter(frac, ".", ",", "", "1")
	return f.Format(shifted.IntPart())
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// fractionDigits returns the number of significant decimals of d.
func fractionDigits(d decimal.Decimal) int {
	_, frac, found := strings.Cut(d.String(), ".")
	if !found {
		return 0
	}
	return len(strings.TrimRight(frac, "0"))
}

// FormatPercent formats v with exactly two decimals followed by a percent sign.
func FormatPercent(v float64) string { return FormatNumber(v, 2, 2) + "%" }

// Round2 rounds v to two decimals, half away from zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// KnownCurrency reports whether code is an ISO currency known to go-money.
func KnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// Tone classifies a profit or loss by its sign.
//
// The convention is the Taiwanese market one: gains are red, losses green.
type Tone int

const (
	Flat Tone = iota
	Gain
	Loss
)

// ToneOf returns the Tone of v. NaN is Flat.
func ToneOf(v float64) Tone {
	switch {
	case v > 0:
		return Gain
	case v < 0:
		return Loss
	default:
		return Flat
	}
}

// Class returns the style class used to color a value of this tone.
func (t Tone) Class() string {
	switch t {
	case Gain:
		return "text-red-500"
	case Loss:
		return "text-green-500"
	default:
		return "text-gray-400"
	}
}

// Arrow returns a one-rune marker for the tone, empty when Flat.
func (t Tone) Arrow() string {
	switch t {
	case Gain:
		return "▲"
	case Loss:
		return "▼"
	default:
		return ""
	}
}

// ColorClass is a shortcut for ToneOf(v).Class().
func ColorClass(v float64) string { return ToneOf(v).Class() }
