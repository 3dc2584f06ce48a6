// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// CallReader defines the interface for reading response-log data
type CallReader interface {
	// GetCall retrieves a call by UID along with its storage revision
	GetCall(ctx context.Context, uid string) (*model.Call, uint64, error)

	// ListCallsByNotice retrieves the full call log for one notice
	ListCallsByNotice(ctx context.Context, noticeUID string) ([]*model.Call, error)

	// ListCallsByClient retrieves every call logged for one client
	ListCallsByClient(ctx context.Context, clientUID string) ([]*model.Call, error)
}

// CallWriter defines the interface for writing response-log data
type CallWriter interface {
	// CreateCall persists a new call
	CreateCall(ctx context.Context, call *model.Call) (*model.Call, error)

	// UpdateCall updates a call when the stored revision still matches
	UpdateCall(ctx context.Context, call *model.Call, expectedRevision uint64) (*model.Call, error)

	// DeleteCall removes a call when the stored revision still matches
	DeleteCall(ctx context.Context, uid string, expectedRevision uint64) error
}

// CallReaderWriter combines read and write operations for calls
type CallReaderWriter interface {
	CallReader
	CallWriter
}
