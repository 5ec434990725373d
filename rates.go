package networth

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// Rates maps a currency code to its value in TWD per unit.
type Rates map[string]float64

// DefaultRates returns the rates a new book starts with.
func DefaultRates() Rates {
	return Rates{"USD": 32.5, "HKD": 4.1, "JPY": 0.22, ReportingCurrency: 1}
}

// Of returns the rate for currency, 1 when unknown.
func (r Rates) Of(currency string) float64 {
	if rate, ok := r[currency]; ok {
		return rate
	}
	return 1
}

// Clone returns an independent copy of r.
func (r Rates) Clone() Rates { return maps.Clone(r) }

// ErrReportingRate is returned when trying to change the TWD rate.
var ErrReportingRate = errors.New("the TWD rate is always 1")

// checkRate validates a single rate update.
func checkRate(currency string, rate float64) error {
	if currency == ReportingCurrency && rate != 1 {
		return ErrReportingRate
	}
	if !(rate > 0) {
		return fmt.Errorf("invalid rate for %s: %v", currency, rate)
	}
	return nil
}

// RateMode tells whether the USD rate is refreshed from the rate API.
type RateMode string

const (
	Manual RateMode = "manual"
	Auto   RateMode = "auto"
)

// ParseRateMode parses "manual" or "auto".
func ParseRateMode(s string) (RateMode, error) {
	switch m := RateMode(strings.ToLower(strings.TrimSpace(s))); m {
	case Manual, Auto:
		return m, nil
	}
	return "", fmt.Errorf("invalid rate mode %q, want %q or %q", s, Manual, Auto)
}

// Theme is the display preference persisted with the book.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	}
	return "", fmt.Errorf("invalid theme %q, want %q or %q", s, Light, Dark)
}
