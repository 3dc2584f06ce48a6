// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package billing computes per-call billable amounts under the per-notice
// minimum-fee pooling rule.
//
// Amounts are a function of a notice's entire call set: adding a second short
// call can change what the first call bills. Callers must recompute the full
// set on any call mutation, never patch one call in isolation.
package billing

import (
	"math"
	"sort"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// Default billing policy values, used when no policy file overrides them.
const (
	DefaultHourlyRate   = 250.0
	DefaultMinimumFee   = 250.0
	DefaultRoundingUnit = 5.0
)

// Config holds the billing policy knobs. Zero or negative values fall back to
// the defaults so a partially filled policy file stays safe.
type Config struct {
	HourlyRate   float64 `yaml:"hourly_rate"`
	MinimumFee   float64 `yaml:"minimum_fee"`
	RoundingUnit float64 `yaml:"rounding_unit"`
}

// DefaultConfig returns the standing policy: 250/hour, 250 minimum, amounts
// rounded up to the next 5.
func DefaultConfig() Config {
	return Config{
		HourlyRate:   DefaultHourlyRate,
		MinimumFee:   DefaultMinimumFee,
		RoundingUnit: DefaultRoundingUnit,
	}
}

// Calculator applies the billing policy to a notice's call set.
type Calculator struct {
	config Config
}

// NewCalculator creates a Calculator, normalizing unset policy values to the
// defaults.
func NewCalculator(config Config) *Calculator {
	if config.HourlyRate <= 0 {
		config.HourlyRate = DefaultHourlyRate
	}
	if config.MinimumFee <= 0 {
		config.MinimumFee = DefaultMinimumFee
	}
	if config.RoundingUnit <= 0 {
		config.RoundingUnit = DefaultRoundingUnit
	}
	return &Calculator{config: config}
}

// Config returns the effective policy.
func (c *Calculator) Config() Config {
	return c.config
}

// roundUp rounds an amount up to the next multiple of the rounding unit.
func (c *Calculator) roundUp(amount float64) float64 {
	return math.Ceil(amount/c.config.RoundingUnit) * c.config.RoundingUnit
}

// rate returns the call's own hourly rate when set, else the policy default.
func (c *Calculator) rate(call *model.Call) float64 {
	if call.HourlyRate > 0 {
		return call.HourlyRate
	}
	return c.config.HourlyRate
}

// timeBased bills actual minutes at the call's rate, rounded up to the unit.
// Non-positive durations bill zero.
func (c *Calculator) timeBased(call *model.Call) float64 {
	if call.DurationMinutes <= 0 {
		return 0
	}
	return c.roundUp(float64(call.DurationMinutes) / 60.0 * c.rate(call))
}

// Amounts computes the billable amount for every call of one notice, keyed by
// call UID.
//
// Rules:
//   - non-billable calls bill zero and join no pool;
//   - research calls (method contains "research") bill actual time each;
//   - non-research calls pool their minutes: at one aggregate hour or more
//     every call bills actual time; under one hour a single minimum fee lands
//     on the chronologically first call and the rest bill zero.
//
// The date sort breaks ties by UID so the minimum-fee attribution is stable.
func (c *Calculator) Amounts(calls []*model.Call) map[string]float64 {
	amounts := make(map[string]float64, len(calls))

	var pool []*model.Call
	poolMinutes := 0

	for _, call := range calls {
		if !call.Billable {
			amounts[call.UID] = 0
			continue
		}

		if call.IsResearch() {
			amounts[call.UID] = c.timeBased(call)
			continue
		}

		pool = append(pool, call)
		if call.DurationMinutes > 0 {
			poolMinutes += call.DurationMinutes
		}
	}

	if len(pool) == 0 {
		return amounts
	}

	if float64(poolMinutes)/60.0 >= 1.0 {
		for _, call := range pool {
			amounts[call.UID] = c.timeBased(call)
		}
		return amounts
	}

	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Date.Equal(pool[j].Date) {
			return pool[i].UID < pool[j].UID
		}
		return pool[i].Date.Before(pool[j].Date)
	})

	amounts[pool[0].UID] = c.config.MinimumFee
	for _, call := range pool[1:] {
		amounts[call.UID] = 0
	}

	return amounts
}

// NoticeTotal sums the computed amounts for a notice's call set.
func (c *Calculator) NoticeTotal(calls []*model.Call) float64 {
	total := 0.0
	for _, amount := range c.Amounts(calls) {
		total += amount
	}
	return total
}
