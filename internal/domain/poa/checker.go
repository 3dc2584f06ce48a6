// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package poa decides whether a notice's form and tax period are covered by
// one of the client's authorization records. The check is pure: callers that
// want the cached notice.poa_on_file flag refreshed diff the result and issue
// the conditional write themselves.
package poa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/period"
)

// CheckResult is the outcome of a coverage check. Reason is a human-readable
// explanation populated whenever HasValidPOA is false.
type CheckResult struct {
	HasValidPOA bool             `json:"has_valid_poa"`
	MatchingPOA *model.POARecord `json:"matching_poa,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// FindValidPOA scans the client's POA records for one whose form matches the
// notice (case-insensitively, trimmed) and whose period range covers the
// notice's tax period. The first covering record wins; records are sorted by
// UID beforehand so "first" is reproducible regardless of store order.
//
// Missing form or period on the notice fails closed with a reason and no
// iteration.
func FindValidPOA(notice *model.Notice, records []*model.POARecord) CheckResult {
	if strings.TrimSpace(notice.FormNumber) == "" || strings.TrimSpace(notice.TaxPeriod) == "" {
		return CheckResult{
			HasValidPOA: false,
			Reason:      "notice missing form number or tax period",
		}
	}

	if len(records) == 0 {
		return CheckResult{
			HasValidPOA: false,
			Reason:      "no POA records on file for client",
		}
	}

	sorted := make([]*model.POARecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UID < sorted[j].UID
	})

	noticeForm := strings.ToLower(strings.TrimSpace(notice.FormNumber))

	for _, record := range sorted {
		if strings.ToLower(strings.TrimSpace(record.Form)) != noticeForm {
			continue
		}

		if period.CoversPeriod(record.PeriodStart, record.PeriodEnd, notice.TaxPeriod) {
			return CheckResult{
				HasValidPOA: true,
				MatchingPOA: record,
			}
		}
	}

	return CheckResult{
		HasValidPOA: false,
		Reason: fmt.Sprintf("no POA found for form %s covering period %s",
			notice.FormNumber, notice.TaxPeriod),
	}
}
