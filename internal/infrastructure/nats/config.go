// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package nats

import "time"

// Config holds the NATS connection settings.
type Config struct {
	// URL is the NATS server URL
	URL string
	// Timeout for NATS operations
	Timeout time.Duration
	// MaxReconnect attempts
	MaxReconnect int
	// ReconnectWait time between reconnection attempts
	ReconnectWait time.Duration
}
