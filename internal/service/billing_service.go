// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/practicedesk/notice-tracker-service/internal/domain/billing"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
)

// BillingService recomputes billable amounts for a notice's call set and
// refreshes the per-call cached copies.
type BillingService struct {
	callStore  port.CallReaderWriter
	calculator *billing.Calculator
}

// NewBillingService creates a new billing service
func NewBillingService(callStore port.CallReaderWriter, calculator *billing.Calculator) *BillingService {
	return &BillingService{
		callStore:  callStore,
		calculator: calculator,
	}
}

// CallAmounts recomputes the billable amount of every call on a notice,
// keyed by call UID. Pure read path; nothing is persisted.
func (s *BillingService) CallAmounts(ctx context.Context, noticeUID string) (map[string]float64, error) {
	calls, err := s.callStore.ListCallsByNotice(ctx, noticeUID)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls for notice %s: %w", noticeUID, err)
	}

	return s.calculator.Amounts(calls), nil
}

// NoticeTotal recomputes the total billable amount for one notice.
func (s *BillingService) NoticeTotal(ctx context.Context, noticeUID string) (float64, error) {
	calls, err := s.callStore.ListCallsByNotice(ctx, noticeUID)
	if err != nil {
		return 0, fmt.Errorf("failed to list calls for notice %s: %w", noticeUID, err)
	}

	return s.calculator.NoticeTotal(calls), nil
}

// RepriceNotice recomputes amounts over the notice's entire call set and
// rewrites the cached billable_amount of every call whose amount moved.
//
// Amounts are a function of the whole set, so this runs after every call
// mutation on the notice. Returns the number of calls rewritten.
func (s *BillingService) RepriceNotice(ctx context.Context, noticeUID string) (int, error) {
	calls, err := s.callStore.ListCallsByNotice(ctx, noticeUID)
	if err != nil {
		return 0, fmt.Errorf("failed to list calls for notice %s: %w", noticeUID, err)
	}

	amounts := s.calculator.Amounts(calls)

	updated := 0
	for _, call := range calls {
		amount, ok := amounts[call.UID]
		if !ok || call.BillableAmount == amount {
			continue
		}

		stored, revision, err := s.callStore.GetCall(ctx, call.UID)
		if err != nil {
			return updated, err
		}

		stored.BillableAmount = amount
		if _, err := s.callStore.UpdateCall(ctx, stored, revision); err != nil {
			return updated, err
		}
		updated++
	}

	if updated > 0 {
		slog.DebugContext(ctx, "notice repriced",
			"notice_uid", noticeUID,
			"calls_updated", updated,
		)
	}

	return updated, nil
}
