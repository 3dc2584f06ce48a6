// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// POAReader defines the interface for reading authorization records
type POAReader interface {
	// GetPOARecord retrieves a POA record by UID along with its storage revision
	GetPOARecord(ctx context.Context, uid string) (*model.POARecord, uint64, error)

	// ListPOARecordsByClient retrieves the POA records on file for one client
	ListPOARecordsByClient(ctx context.Context, clientUID string) ([]*model.POARecord, error)
}

// POAWriter defines the interface for writing authorization records
type POAWriter interface {
	// CreatePOARecord persists a new POA record
	CreatePOARecord(ctx context.Context, record *model.POARecord) (*model.POARecord, error)

	// UpdatePOARecord updates a POA record when the stored revision still matches
	UpdatePOARecord(ctx context.Context, record *model.POARecord, expectedRevision uint64) (*model.POARecord, error)

	// DeletePOARecord removes a POA record when the stored revision still matches
	DeletePOARecord(ctx context.Context, uid string, expectedRevision uint64) error
}

// POAReaderWriter combines read and write operations for POA records
type POAReaderWriter interface {
	POAReader
	POAWriter
}
