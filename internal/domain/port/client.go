// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// ClientReader defines the interface for reading client records
type ClientReader interface {
	// GetClient retrieves a client by UID along with its storage revision
	GetClient(ctx context.Context, uid string) (*model.Client, uint64, error)

	// ListClients retrieves all clients
	ListClients(ctx context.Context) ([]*model.Client, error)
}

// ClientWriter defines the interface for writing client records
type ClientWriter interface {
	// CreateClient persists a new client
	CreateClient(ctx context.Context, client *model.Client) (*model.Client, error)

	// UpdateClient updates a client when the stored revision still matches
	UpdateClient(ctx context.Context, client *model.Client, expectedRevision uint64) (*model.Client, error)

	// DeleteClient removes a client when the stored revision still matches
	DeleteClient(ctx context.Context, uid string, expectedRevision uint64) error
}

// ClientReaderWriter combines read and write operations for clients
type ClientReaderWriter interface {
	ClientReader
	ClientWriter
}
