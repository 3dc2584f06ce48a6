// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/poa"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/pkg/utils"
)

// POAService manages authorization records and runs coverage checks for
// notices, keeping the cached poa_on_file flag in sync with the latest
// result.
type POAService struct {
	noticeStore port.NoticeReaderWriter
	poaStore    port.POAReaderWriter
}

// NewPOAService creates a new POA coverage service
func NewPOAService(noticeStore port.NoticeReaderWriter, poaStore port.POAReaderWriter) *POAService {
	return &POAService{
		noticeStore: noticeStore,
		poaStore:    poaStore,
	}
}

// CheckNotice evaluates POA coverage for a notice and, when the result
// disagrees with the cached poa_on_file flag, issues exactly one conditional
// write to correct it. The check result is returned either way.
//
// A store failure while refreshing the flag degrades to a stale cache, not a
// failed check.
func (s *POAService) CheckNotice(ctx context.Context, noticeUID string) (poa.CheckResult, error) {
	notice, revision, err := s.noticeStore.GetNotice(ctx, noticeUID)
	if err != nil {
		return poa.CheckResult{}, err
	}

	records, err := s.poaStore.ListPOARecordsByClient(ctx, notice.ClientUID)
	if err != nil {
		return poa.CheckResult{}, fmt.Errorf("failed to list POA records for client %s: %w", notice.ClientUID, err)
	}

	result := poa.FindValidPOA(notice, records)

	if result.HasValidPOA != notice.POAOnFile {
		notice.POAOnFile = result.HasValidPOA
		notice.LastAutoUpdate = utils.NowPtr()
		if _, err := s.noticeStore.UpdateNotice(ctx, notice, revision); err != nil {
			slog.WarnContext(ctx, "failed to refresh cached POA flag, leaving stale until next check",
				"error", err,
				"notice_uid", noticeUID,
			)
		} else {
			slog.DebugContext(ctx, "cached POA flag refreshed",
				"notice_uid", noticeUID,
				"poa_on_file", result.HasValidPOA,
			)
		}
	}

	return result, nil
}

// CreatePOARecord validates and persists a new authorization record, then
// refreshes the cached POA flags of the client's notices.
func (s *POAService) CreatePOARecord(ctx context.Context, record *model.POARecord) (*model.POARecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if record.UID == "" {
		record.UID = uuid.NewString()
	}

	created, err := s.poaStore.CreatePOARecord(ctx, record)
	if err != nil {
		return nil, err
	}

	s.refreshClientNotices(ctx, created.ClientUID)
	return created, nil
}

// GetPOARecord retrieves one authorization record.
func (s *POAService) GetPOARecord(ctx context.Context, uid string) (*model.POARecord, error) {
	record, _, err := s.poaStore.GetPOARecord(ctx, uid)
	return record, err
}

// ListPOARecordsByClient returns one client's authorization records sorted
// by UID.
func (s *POAService) ListPOARecordsByClient(ctx context.Context, clientUID string) ([]*model.POARecord, error) {
	records, err := s.poaStore.ListPOARecordsByClient(ctx, clientUID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UID < records[j].UID
	})
	return records, nil
}

// UpdatePOARecord persists edits to an authorization record, then refreshes
// the cached POA flags of the client's notices.
func (s *POAService) UpdatePOARecord(ctx context.Context, record *model.POARecord) (*model.POARecord, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	_, revision, err := s.poaStore.GetPOARecord(ctx, record.UID)
	if err != nil {
		return nil, err
	}

	updated, err := s.poaStore.UpdatePOARecord(ctx, record, revision)
	if err != nil {
		return nil, err
	}

	s.refreshClientNotices(ctx, updated.ClientUID)
	return updated, nil
}

// DeletePOARecord removes an authorization record, then refreshes the cached
// POA flags of the client's notices: coverage can only shrink here.
func (s *POAService) DeletePOARecord(ctx context.Context, uid string) error {
	record, revision, err := s.poaStore.GetPOARecord(ctx, uid)
	if err != nil {
		return err
	}

	if err := s.poaStore.DeletePOARecord(ctx, uid, revision); err != nil {
		return err
	}

	s.refreshClientNotices(ctx, record.ClientUID)
	return nil
}

// refreshClientNotices re-checks coverage for every notice of one client
// after a POA mutation. Failures leave stale flags until the next check.
func (s *POAService) refreshClientNotices(ctx context.Context, clientUID string) {
	notices, err := s.noticeStore.ListNoticesByClient(ctx, clientUID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list notices for POA refresh",
			"error", err,
			"client_uid", clientUID,
		)
		return
	}

	for _, notice := range notices {
		if _, err := s.CheckNotice(ctx, notice.UID); err != nil {
			slog.WarnContext(ctx, "POA refresh failed for notice",
				"error", err,
				"notice_uid", notice.UID,
			)
		}
	}
}
