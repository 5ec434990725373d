package remote

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/etnz/networth/date"
)

// Rows coming from the spreadsheet are loosely typed: numbers may be strings,
// dates may be timestamps and any column may be missing. These helpers read
// them the way a spreadsheet user expects.

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseFloat reads the leading number of v. "12.5kg" is 12.5, a missing
// value or one without a leading number is NaN.
func parseFloat(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case string:
		s := strings.TrimSpace(v)
		switch {
		case strings.HasPrefix(s, "Infinity"), strings.HasPrefix(s, "+Infinity"):
			return math.Inf(1)
		case strings.HasPrefix(s, "-Infinity"):
			return math.Inf(-1)
		}
		m := leadingFloat.FindString(s)
		if m == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// str formats v as text, "" when missing.
func str(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// truthy reports whether v would pass a spreadsheet "is set" check: not
// missing, not empty, not zero and not false.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case bool:
		return v
	}
	return true
}

// day reads a date cell, dropping any time part. Unreadable dates are unset.
func day(v any) (date.Date, bool) {
	d, err := date.Parse(str(v))
	if err != nil {
		return date.Date{}, false
	}
	return d, true
}
