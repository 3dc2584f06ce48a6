// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
)

// Repository combines all reader and writer operations backed by one store
type Repository interface {
	NoticeReaderWriter
	CallReaderWriter
	POAReaderWriter
	ClientReaderWriter

	// IsReady checks if the storage is ready by verifying the connection
	IsReady(ctx context.Context) error
}
