// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package period normalizes tax-period identifiers and tests range coverage.
//
// Accepted input forms are six-digit YYYYMM, a bare four-digit year, and
// fiscal-quarter notation Q<1-4>/<YYYY>. All functions are total: malformed
// input is returned as-is by the normalizers and fails closed to false in
// CoversPeriod, never a panic or an error.
package period

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yyyymmPattern  = regexp.MustCompile(`^\d{6}$`)
	yearPattern    = regexp.MustCompile(`^\d{4}$`)
	quarterPattern = regexp.MustCompile(`(?i)^Q([1-4])/(\d{4})$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// quarterBounds maps a quarter number to its first and last month.
var quarterBounds = map[int]struct{ first, last string }{
	1: {"01", "03"},
	2: {"04", "06"},
	3: {"07", "09"},
	4: {"10", "12"},
}

// QuarterRange converts fiscal-quarter notation (Q1/2023) into the quarter's
// first and last month in YYYYMM form. Returns ok=false when the input is not
// quarter notation.
func QuarterRange(quarter string) (start, end string, ok bool) {
	match := quarterPattern.FindStringSubmatch(strings.TrimSpace(quarter))
	if match == nil {
		return "", "", false
	}

	q, err := strconv.Atoi(match[1])
	if err != nil {
		return "", "", false
	}

	bounds := quarterBounds[q]
	year := match[2]
	return year + bounds.first, year + bounds.last, true
}

// Normalize converts a period into canonical YYYYMM form using the default
// mapping: YYYYMM unchanged, bare year to the year's first month, quarter
// notation to the quarter's first month. Unrecognized input is returned
// unchanged so the caller's integer parse fails closed.
//
// A bare year maps to its first month in every role, including range ends.
// A POA period expressed only as a year therefore under-covers months 02-12
// when used as an end bound; see NormalizeEnd.
func Normalize(period string) string {
	period = strings.TrimSpace(period)

	if yyyymmPattern.MatchString(period) {
		return period
	}

	if yearPattern.MatchString(period) {
		return period + "01"
	}

	if start, _, ok := QuarterRange(period); ok {
		return start
	}

	return period
}

// NormalizeStart normalizes a period playing the start-of-range role.
// Identical to Normalize: quarters map to their first month.
func NormalizeStart(period string) string {
	return Normalize(period)
}

// NormalizeEnd normalizes a period playing the end-of-range role. Quarters
// map to their last month; year and YYYYMM handling match Normalize.
func NormalizeEnd(period string) string {
	if _, end, ok := QuarterRange(strings.TrimSpace(period)); ok {
		return end
	}
	return Normalize(period)
}

// parse strips non-digit characters and parses the result as a six-digit
// period integer. ok is false when anything other than six digits remains.
func parse(period string) (int, bool) {
	digits := nonDigits.ReplaceAllString(period, "")
	if len(digits) != 6 {
		return 0, false
	}

	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return value, true
}

// CoversPeriod reports whether target falls inclusively within [start, end].
// Start and end are normalized with their range-role mappings, target with
// the default mapping. Any value that does not normalize to a six-digit
// integer fails the check closed.
func CoversPeriod(start, end, target string) bool {
	startNum, ok := parse(NormalizeStart(start))
	if !ok {
		return false
	}

	endNum, ok := parse(NormalizeEnd(end))
	if !ok {
		return false
	}

	targetNum, ok := parse(Normalize(target))
	if !ok {
		return false
	}

	return targetNum >= startNum && targetNum <= endNum
}

// IsValid reports whether a period is a plausible YYYYMM value with a real
// month and a year in a sane range. Used by input validation on the POA
// screens, not by CoversPeriod.
func IsValid(period string) bool {
	if !yyyymmPattern.MatchString(period) {
		return false
	}

	year, _ := strconv.Atoi(period[:4])
	month, _ := strconv.Atoi(period[4:])

	return year >= 1900 && year <= 2100 && month >= 1 && month <= 12
}
