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

// DueSoonDefaultWindowDays is the dashboard's default "due soon" horizon.
const DueSoonDefaultWindowDays = 7

// DashboardStats summarizes the notice caseload for the dashboard screen.
type DashboardStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	Escalated  int `json:"escalated"`
	DueSoon    int `json:"due_soon"`
	MissingPOA int `json:"missing_poa"`
	Terminal   int `json:"terminal"`
}

// NoticeService implements the notice CRUD flows and the dashboard reads.
// Mutations trigger a POA coverage refresh and a reconciliation pass so the
// cached derived fields never outlive the facts they came from.
type NoticeService struct {
	noticeStore port.NoticeReaderWriter
	reconciler  Reconciler
	poaService  *POAService
}

// NewNoticeService creates a new notice service
func NewNoticeService(noticeStore port.NoticeReaderWriter, reconciler Reconciler, poaService *POAService) *NoticeService {
	return &NoticeService{
		noticeStore: noticeStore,
		reconciler:  reconciler,
		poaService:  poaService,
	}
}

// CreateNotice validates and persists a new notice, then runs the initial
// POA check and derivation so the caller reads back fully populated fields.
func (s *NoticeService) CreateNotice(ctx context.Context, notice *model.Notice) (*model.Notice, error) {
	if err := notice.Validate(); err != nil {
		return nil, err
	}

	if notice.UID == "" {
		notice.UID = uuid.NewString()
	}
	if notice.Status == "" {
		notice.Status = model.StatusOpen
	}

	created, err := s.noticeStore.CreateNotice(ctx, notice)
	if err != nil {
		return nil, err
	}

	// A failed POA check degrades to "no valid POA"; it never blocks creation.
	if _, err := s.poaService.CheckNotice(ctx, created.UID); err != nil {
		slog.WarnContext(ctx, "initial POA check failed",
			"error", err,
			"notice_uid", created.UID,
		)
	}

	if _, err := s.reconciler.ReconcileOne(ctx, created.UID); err != nil {
		slog.WarnContext(ctx, "initial reconciliation failed, derived fields stale until next pass",
			"error", err,
			"notice_uid", created.UID,
		)
	}

	fresh, _, err := s.noticeStore.GetNotice(ctx, created.UID)
	if err != nil {
		return created, nil
	}
	return fresh, nil
}

// GetNotice reconciles the notice's derived fields and returns the fresh
// record. A failed reconciliation falls back to the stored copy.
func (s *NoticeService) GetNotice(ctx context.Context, uid string) (*model.Notice, error) {
	if _, err := s.reconciler.ReconcileOne(ctx, uid); err != nil {
		slog.WarnContext(ctx, "reconciliation on view failed, serving stored fields",
			"error", err,
			"notice_uid", uid,
		)
	}

	notice, _, err := s.noticeStore.GetNotice(ctx, uid)
	return notice, err
}

// UpdateNotice persists staff edits and re-derives on top of them. A manual
// status edit is a new input state: the next derivation may keep it (a
// terminal edit sticks until reopen) or overwrite it from the call log.
func (s *NoticeService) UpdateNotice(ctx context.Context, notice *model.Notice) (*model.Notice, error) {
	if err := notice.Validate(); err != nil {
		return nil, err
	}

	_, revision, err := s.noticeStore.GetNotice(ctx, notice.UID)
	if err != nil {
		return nil, err
	}

	updated, err := s.noticeStore.UpdateNotice(ctx, notice, revision)
	if err != nil {
		return nil, err
	}

	if _, err := s.reconciler.ReconcileOne(ctx, updated.UID); err != nil {
		slog.WarnContext(ctx, "reconciliation after edit failed, derived fields stale until next pass",
			"error", err,
			"notice_uid", updated.UID,
		)
		return updated, nil
	}

	fresh, _, err := s.noticeStore.GetNotice(ctx, updated.UID)
	if err != nil {
		return updated, nil
	}
	return fresh, nil
}

// DeleteNotice removes a notice.
func (s *NoticeService) DeleteNotice(ctx context.Context, uid string) error {
	_, revision, err := s.noticeStore.GetNotice(ctx, uid)
	if err != nil {
		return err
	}
	return s.noticeStore.DeleteNotice(ctx, uid, revision)
}

// ListNotices returns all notices sorted by UID.
func (s *NoticeService) ListNotices(ctx context.Context) ([]*model.Notice, error) {
	notices, err := s.noticeStore.ListNotices(ctx)
	if err != nil {
		return nil, err
	}
	sortNotices(notices)
	return notices, nil
}

// ListNoticesByClient returns one client's notices sorted by UID.
func (s *NoticeService) ListNoticesByClient(ctx context.Context, clientUID string) ([]*model.Notice, error) {
	notices, err := s.noticeStore.ListNoticesByClient(ctx, clientUID)
	if err != nil {
		return nil, err
	}
	sortNotices(notices)
	return notices, nil
}

// ListEscalated returns the non-terminal escalated notices, most urgent
// first (fewest days remaining; notices without a deadline sort last).
func (s *NoticeService) ListEscalated(ctx context.Context) ([]*model.Notice, error) {
	notices, err := s.noticeStore.ListNotices(ctx)
	if err != nil {
		return nil, err
	}

	var escalated []*model.Notice
	for _, notice := range notices {
		if notice.Escalated && !notice.IsTerminal() {
			escalated = append(escalated, notice)
		}
	}

	sortByUrgency(escalated)
	return escalated, nil
}

// ListDueSoon returns the non-terminal notices due within the given number
// of days, including overdue ones, most urgent first. A non-positive window
// falls back to the default.
func (s *NoticeService) ListDueSoon(ctx context.Context, withinDays int) ([]*model.Notice, error) {
	if withinDays <= 0 {
		withinDays = DueSoonDefaultWindowDays
	}

	notices, err := s.noticeStore.ListNotices(ctx)
	if err != nil {
		return nil, err
	}

	var dueSoon []*model.Notice
	for _, notice := range notices {
		if notice.IsTerminal() || notice.DaysRemaining == nil {
			continue
		}
		if *notice.DaysRemaining <= withinDays {
			dueSoon = append(dueSoon, notice)
		}
	}

	sortByUrgency(dueSoon)
	return dueSoon, nil
}

// DashboardStats counts the caseload buckets shown on the dashboard.
func (s *NoticeService) DashboardStats(ctx context.Context) (DashboardStats, error) {
	notices, err := s.noticeStore.ListNotices(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{Total: len(notices)}
	for _, notice := range notices {
		switch {
		case notice.IsTerminal():
			stats.Terminal++
		case notice.Escalated:
			stats.Escalated++
		case notice.Status == model.StatusOpen:
			stats.Open++
		}
		if !notice.IsTerminal() && notice.DaysRemaining != nil && *notice.DaysRemaining <= DueSoonDefaultWindowDays {
			stats.DueSoon++
		}
		if !notice.IsTerminal() && !notice.POAOnFile {
			stats.MissingPOA++
		}
	}

	return stats, nil
}

func sortNotices(notices []*model.Notice) {
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].UID < notices[j].UID
	})
}

// sortByUrgency orders by days remaining ascending, nil deadlines last, UID
// as the tie-break.
func sortByUrgency(notices []*model.Notice) {
	sort.Slice(notices, func(i, j int) bool {
		a, b := notices[i].DaysRemaining, notices[j].DaysRemaining
		switch {
		case a == nil && b == nil:
			return notices[i].UID < notices[j].UID
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		default:
			return notices[i].UID < notices[j].UID
		}
	})
}
