// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package constants

const (
	// KVBucketNameNotices is the name of the KV bucket for notices.
	KVBucketNameNotices = "notices"

	// KVBucketNameCalls is the name of the KV bucket for call (response) logs.
	KVBucketNameCalls = "calls"

	// KVBucketNameClients is the name of the KV bucket for client identity records.
	KVBucketNameClients = "clients"

	// KVBucketNamePOARecords is the name of the KV bucket for POA records.
	KVBucketNamePOARecords = "poa-records"
)
