package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Field normalizers for raw spreadsheet cells. Numeric conversions are
// deliberately forgiving (thousands separators, stray whitespace, defaults on
// garbage); the datetime conversion is strict because a silently misparsed
// deadline is worse than a dropped row.

// cellMissing reports whether a raw cell carries no value. Exports from the
// upstream tooling render absent cells as "" or the literal "nan".
func cellMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "nan")
}

// String trims the cell, mapping missing cells to "".
func String(v string) string {
	if cellMissing(v) {
		return ""
	}
	return strings.TrimSpace(v)
}

// Integer parses a possibly comma-formatted number, truncating any fraction.
// Missing, unparseable or out-of-range cells become 0.
func Integer(v string) int64 {
	if cellMissing(v) {
		return 0
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	n, ok := truncateToInt64(f)
	if !ok {
		return 0
	}
	return n
}

// OptionalInt is Integer for columns where absence is meaningful: missing,
// empty and the placeholder "-" become nil, as does anything unparseable.
func OptionalInt(v string) *int64 {
	trimmed := strings.TrimSpace(v)
	if cellMissing(v) || trimmed == "-" {
		return nil
	}
	cleaned := strings.ReplaceAll(trimmed, ",", "")
	if cleaned == "" || cleaned == "-" {
		return nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	n, ok := truncateToInt64(f)
	if !ok {
		return nil
	}
	return &n
}

// truncateToInt64 drops the fraction. NaN, infinities and values outside the
// int64 range do not truncate: ParseFloat accepts "inf", "1e300" and 20-digit
// numerics, but a plain int64 conversion of those wraps to MinInt64.
func truncateToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// OptionalFloat parses a plain float, nil when missing or unparseable.
func OptionalFloat(v string) *float64 {
	if cellMissing(v) {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// Ratio parses a comma-tolerant float and rounds it to 5 decimal places.
// Missing or unparseable cells become 0.
func Ratio(v string) float64 {
	if cellMissing(v) {
		return 0
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return Round5(f)
}

// Round5 rounds to 5 decimal places through the decimal formatter, which
// rounds the value itself correctly. Scaling by 1e5 first and rounding the
// product is a double rounding and can land on the wrong side near
// half-way points.
func Round5(f float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 5, 64), 64)
	if err != nil {
		return f
	}
	return r
}

var dashLayouts = []string{
	"06-01-02 15:04",
	"2006-01-02 15:04",
}

var dotLayouts = []string{
	"2006.1.2 3:04:05 PM",
	"2006.1.2 15:04:05",
}

// DateTime parses the two date shapes that occur in bid exports:
//
//	"22-03-11 10:00"          (dash-separated, two- or four-digit year)
//	"2024.1.18  10:00:00 AM"  (dot-separated, 12- or 24-hour clock)
//
// Anything else fails with an error naming the offending value. Short bare
// numbers are rejected up front: spreadsheet artifacts like "3" or "1234"
// must never be mistaken for dates.
func DateTime(v string) (time.Time, error) {
	s := strings.TrimSpace(v)
	if cellMissing(v) || s == "-" {
		return time.Time{}, fmt.Errorf("invalid date string: %q", s)
	}

	if isDigits(s) && len(s) < 8 {
		return time.Time{}, fmt.Errorf("invalid date format: %q (numeric only, too short)", s)
	}

	if strings.Contains(s, "-") && strings.Contains(s, ":") {
		for _, layout := range dashLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse date %q with format YY-MM-DD HH:MM", s)
	}

	if strings.Contains(s, ".") {
		collapsed := strings.Join(strings.Fields(s), " ")
		for _, layout := range dotLayouts {
			if t, err := time.Parse(layout, collapsed); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("cannot parse date %q (unknown format)", s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
