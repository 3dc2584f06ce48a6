// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "yyyymm passes through", input: "202306", expected: "202306"},
		{name: "bare year maps to first month", input: "2023", expected: "202301"},
		{name: "quarter maps to first month", input: "Q1/2023", expected: "202301"},
		{name: "fourth quarter maps to october", input: "Q4/2023", expected: "202310"},
		{name: "lowercase quarter accepted", input: "q2/2023", expected: "202304"},
		{name: "whitespace trimmed", input: " 202306 ", expected: "202306"},
		{name: "garbage returned unchanged", input: "FY23", expected: "FY23"},
		{name: "empty returned unchanged", input: "", expected: ""},
		{name: "quarter five is not a quarter", input: "Q5/2023", expected: "Q5/2023"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeEnd(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "quarter maps to last month", input: "Q1/2023", expected: "202303"},
		{name: "fourth quarter maps to december", input: "Q4/2023", expected: "202312"},
		{name: "yyyymm passes through", input: "202306", expected: "202306"},
		// Known asymmetry: a bare year still maps to its first month even in
		// the end role, so a year-only end bound under-covers months 02-12.
		{name: "bare year keeps first-month mapping", input: "2023", expected: "202301"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEnd(tt.input))
		})
	}
}

func TestQuarterRange(t *testing.T) {
	start, end, ok := QuarterRange("Q3/2024")
	assert.True(t, ok)
	assert.Equal(t, "202407", start)
	assert.Equal(t, "202409", end)

	_, _, ok = QuarterRange("2024")
	assert.False(t, ok)

	_, _, ok = QuarterRange("Q0/2024")
	assert.False(t, ok)
}

func TestCoversPeriod(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		target  string
		covered bool
	}{
		{name: "target inside range", start: "202301", end: "202312", target: "202306", covered: true},
		{name: "target before range", start: "202301", end: "202312", target: "202212", covered: false},
		{name: "target after range", start: "202301", end: "202312", target: "202401", covered: false},
		{name: "inclusive start bound", start: "202301", end: "202312", target: "202301", covered: true},
		{name: "inclusive end bound", start: "202301", end: "202312", target: "202312", covered: true},
		{name: "quarter range covers contained month", start: "Q1/2023", end: "Q2/2023", target: "202305", covered: true},
		{name: "quarter end expands to last month", start: "Q1/2023", end: "Q1/2023", target: "202303", covered: true},
		{name: "bare year start covers whole year target", start: "2023", end: "202312", target: "202307", covered: true},
		{name: "bare year target maps to january", start: "202301", end: "202306", target: "2023", covered: true},
		{name: "year-only end under-covers later months", start: "202201", end: "2023", target: "202306", covered: false},
		{name: "unparseable start fails closed", start: "unknown", end: "202312", target: "202306", covered: false},
		{name: "unparseable end fails closed", start: "202301", end: "soon", target: "202306", covered: false},
		{name: "unparseable target fails closed", start: "202301", end: "202312", target: "mid-year", covered: false},
		{name: "empty values fail closed", start: "", end: "", target: "", covered: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.covered, CoversPeriod(tt.start, tt.end, tt.target))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("202306"))
	assert.False(t, IsValid("202313"))
	assert.False(t, IsValid("202300"))
	assert.False(t, IsValid("189901"))
	assert.False(t, IsValid("2023"))
	assert.False(t, IsValid("Q1/2023"))
}
