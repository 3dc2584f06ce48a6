// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the notice tracker service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "notice-tracker"
)

// NATS messaging subjects
const (
	// ReconcileAllSubject triggers a full reconciliation pass over every
	// non-terminal notice. Sent by the external scheduler and the admin panel.
	ReconcileAllSubject = "practice.notice-tracker.reconcile_all"

	// ReconcileNoticeSubject triggers reconciliation of a single notice.
	// The message payload is the notice UID.
	ReconcileNoticeSubject = "practice.notice-tracker.reconcile_notice"

	// ReconcileClientSubject triggers reconciliation of every non-terminal
	// notice belonging to one client. The message payload is the client UID.
	ReconcileClientSubject = "practice.notice-tracker.reconcile_client"
)

// ReconcileQueue is the NATS queue group for reconcile trigger subscriptions
const ReconcileQueue = "practice-notice-tracker-api"

// Environment variables
const (
	// EnvNATSURL is the environment variable for NATS server URL
	EnvNATSURL = "NATS_URL"
	// EnvRepositorySource selects the repository implementation (nats or mock)
	EnvRepositorySource = "REPOSITORY_SOURCE"
)
