// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
)

// CallService implements the response-log CRUD flows. Every mutation
// reprices the notice's full call set and re-derives the notice, since both
// billing amounts and status are functions of the whole log.
type CallService struct {
	callStore      port.CallReaderWriter
	noticeStore    port.NoticeReader
	billingService *BillingService
	reconciler     Reconciler
}

// NewCallService creates a new call service
func NewCallService(
	callStore port.CallReaderWriter,
	noticeStore port.NoticeReader,
	billingService *BillingService,
	reconciler Reconciler,
) *CallService {
	return &CallService{
		callStore:      callStore,
		noticeStore:    noticeStore,
		billingService: billingService,
		reconciler:     reconciler,
	}
}

// CreateCall validates and persists a new call, backfilling the client UID
// from the parent notice, then reprices and re-derives that notice.
func (s *CallService) CreateCall(ctx context.Context, call *model.Call) (*model.Call, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}

	notice, _, err := s.noticeStore.GetNotice(ctx, call.NoticeUID)
	if err != nil {
		return nil, err
	}

	if call.UID == "" {
		call.UID = uuid.NewString()
	}
	if call.ClientUID == "" {
		call.ClientUID = notice.ClientUID
	}
	if call.BillingStatus == "" {
		call.BillingStatus = model.BillingStatusUnbilled
	}

	created, err := s.callStore.CreateCall(ctx, call)
	if err != nil {
		return nil, err
	}

	s.refreshNotice(ctx, created.NoticeUID)

	fresh, _, err := s.callStore.GetCall(ctx, created.UID)
	if err != nil {
		return created, nil
	}
	return fresh, nil
}

// GetCall retrieves one call.
func (s *CallService) GetCall(ctx context.Context, uid string) (*model.Call, error) {
	call, _, err := s.callStore.GetCall(ctx, uid)
	return call, err
}

// UpdateCall persists edits to a call, then reprices and re-derives its
// notice.
func (s *CallService) UpdateCall(ctx context.Context, call *model.Call) (*model.Call, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}

	_, revision, err := s.callStore.GetCall(ctx, call.UID)
	if err != nil {
		return nil, err
	}

	updated, err := s.callStore.UpdateCall(ctx, call, revision)
	if err != nil {
		return nil, err
	}

	s.refreshNotice(ctx, updated.NoticeUID)

	fresh, _, err := s.callStore.GetCall(ctx, updated.UID)
	if err != nil {
		return updated, nil
	}
	return fresh, nil
}

// DeleteCall removes a call, then reprices and re-derives its notice:
// removing a short call can move the minimum fee to another call and can
// change the notice's derived status.
func (s *CallService) DeleteCall(ctx context.Context, uid string) error {
	call, revision, err := s.callStore.GetCall(ctx, uid)
	if err != nil {
		return err
	}

	if err := s.callStore.DeleteCall(ctx, uid, revision); err != nil {
		return err
	}

	s.refreshNotice(ctx, call.NoticeUID)
	return nil
}

// ListCallsByNotice returns a notice's call log in chronological order.
func (s *CallService) ListCallsByNotice(ctx context.Context, noticeUID string) ([]*model.Call, error) {
	calls, err := s.callStore.ListCallsByNotice(ctx, noticeUID)
	if err != nil {
		return nil, err
	}
	sortCalls(calls)
	return calls, nil
}

// ListCallsByClient returns every call logged for one client in
// chronological order.
func (s *CallService) ListCallsByClient(ctx context.Context, clientUID string) ([]*model.Call, error) {
	calls, err := s.callStore.ListCallsByClient(ctx, clientUID)
	if err != nil {
		return nil, err
	}
	sortCalls(calls)
	return calls, nil
}

// refreshNotice reprices and re-derives after a call mutation. Failures are
// logged, not propagated: the mutation itself succeeded and the next
// reconciliation pass corrects any stale caches.
func (s *CallService) refreshNotice(ctx context.Context, noticeUID string) {
	if _, err := s.billingService.RepriceNotice(ctx, noticeUID); err != nil {
		slog.WarnContext(ctx, "reprice after call mutation failed, cached amounts stale until next pass",
			"error", err,
			"notice_uid", noticeUID,
		)
	}
	if _, err := s.reconciler.ReconcileOne(ctx, noticeUID); err != nil {
		slog.WarnContext(ctx, "reconciliation after call mutation failed, derived fields stale until next pass",
			"error", err,
			"notice_uid", noticeUID,
		)
	}
}

func sortCalls(calls []*model.Call) {
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].Date.Equal(calls[j].Date) {
			return calls[i].UID < calls[j].UID
		}
		return calls[i].Date.Before(calls[j].Date)
	})
}
