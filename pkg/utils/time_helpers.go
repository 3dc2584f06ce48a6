// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package utils

import (
	"fmt"
	"time"
)

// DateOnlyFormat is the layout accepted for date query parameters and
// date-valued document fields entered by staff.
const DateOnlyFormat = "2006-01-02"

// ParseDate parses a date-only string (YYYY-MM-DD) into a time.Time at
// midnight local time. Returns an error for empty or malformed input.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}

	t, err := time.ParseInLocation(DateOnlyFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, want YYYY-MM-DD: %w", err)
	}

	return t, nil
}

// ParseDatePtr parses a date-only string pointer into a time.Time pointer.
// Returns nil without error when the input is nil or empty.
func ParseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	t, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// FormatTimePtr formats a time.Time pointer as an RFC3339 string pointer.
// Returns nil if the input is nil.
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := t.Format(time.RFC3339)
	return &formatted
}

// NowPtr returns the current time as a time.Time pointer.
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
