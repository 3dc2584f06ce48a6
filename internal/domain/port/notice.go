// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import (
	"context"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// NoticeReader defines the interface for reading notice data
type NoticeReader interface {
	// GetNotice retrieves a notice by UID along with its storage revision
	GetNotice(ctx context.Context, uid string) (*model.Notice, uint64, error)

	// ListNotices retrieves all notices
	ListNotices(ctx context.Context) ([]*model.Notice, error)

	// ListNoticesByClient retrieves the notices belonging to one client
	ListNoticesByClient(ctx context.Context, clientUID string) ([]*model.Notice, error)
}

// NoticeWriter defines the interface for writing notice data
type NoticeWriter interface {
	// CreateNotice persists a new notice
	CreateNotice(ctx context.Context, notice *model.Notice) (*model.Notice, error)

	// UpdateNotice updates a notice when the stored revision still matches
	UpdateNotice(ctx context.Context, notice *model.Notice, expectedRevision uint64) (*model.Notice, error)

	// DeleteNotice removes a notice when the stored revision still matches
	DeleteNotice(ctx context.Context, uid string, expectedRevision uint64) error
}

// NoticeReaderWriter combines read and write operations for notices
type NoticeReaderWriter interface {
	NoticeReader
	NoticeWriter
}
