// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package nats

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/pkg/constants"
	errs "github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// storage implements port.Repository over one KV bucket per collection.
// Client-scoped and notice-scoped list queries scan the bucket and filter in
// memory; the caseload of a single practice stays small enough that no
// secondary index is kept.
type storage struct {
	client *NATSClient
}

// NewStorage creates the NATS-backed repository
func NewStorage(client *NATSClient) port.Repository {
	return &storage{client: client}
}

// IsReady proxies the underlying connection check
func (s *storage) IsReady(ctx context.Context) error {
	return s.client.IsReady(ctx)
}

// ================== notices ==================

// GetNotice retrieves a single notice by UID and returns its revision
func (s *storage) GetNotice(ctx context.Context, uid string) (*model.Notice, uint64, error) {
	notice := &model.Notice{}
	rev, err := s.get(ctx, constants.KVBucketNameNotices, uid, notice)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "notice not found", "notice_uid", uid)
			return nil, 0, errs.NewNotFound("notice not found")
		}
		slog.ErrorContext(ctx, "failed to get notice", "error", err, "notice_uid", uid)
		return nil, 0, wrapStoreError("failed to get notice", err)
	}

	return notice, rev, nil
}

// ListNotices retrieves all notices
func (s *storage) ListNotices(ctx context.Context) ([]*model.Notice, error) {
	var notices []*model.Notice
	err := s.scan(ctx, constants.KVBucketNameNotices, func(data []byte) error {
		notice := &model.Notice{}
		if err := json.Unmarshal(data, notice); err != nil {
			return err
		}
		notices = append(notices, notice)
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list notices", "error", err)
		return nil, wrapStoreError("failed to list notices", err)
	}
	return notices, nil
}

// ListNoticesByClient retrieves the notices belonging to one client
func (s *storage) ListNoticesByClient(ctx context.Context, clientUID string) ([]*model.Notice, error) {
	all, err := s.ListNotices(ctx)
	if err != nil {
		return nil, err
	}

	var notices []*model.Notice
	for _, notice := range all {
		if notice.ClientUID == clientUID {
			notices = append(notices, notice)
		}
	}
	return notices, nil
}

// CreateNotice persists a new notice
func (s *storage) CreateNotice(ctx context.Context, notice *model.Notice) (*model.Notice, error) {
	if err := s.create(ctx, constants.KVBucketNameNotices, notice.UID, notice); err != nil {
		slog.ErrorContext(ctx, "failed to create notice", "error", err, "notice_uid", notice.UID)
		return nil, err
	}
	return notice, nil
}

// UpdateNotice updates a notice with revision checking
func (s *storage) UpdateNotice(ctx context.Context, notice *model.Notice, expectedRevision uint64) (*model.Notice, error) {
	if err := s.update(ctx, constants.KVBucketNameNotices, notice.UID, notice, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to update notice",
			"error", err,
			"notice_uid", notice.UID,
			"expected_revision", expectedRevision,
		)
		return nil, err
	}
	return notice, nil
}

// DeleteNotice deletes a notice with revision checking
func (s *storage) DeleteNotice(ctx context.Context, uid string, expectedRevision uint64) error {
	if err := s.delete(ctx, constants.KVBucketNameNotices, uid, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to delete notice", "error", err, "notice_uid", uid)
		return err
	}
	return nil
}

// ================== calls ==================

// GetCall retrieves a single call by UID and returns its revision
func (s *storage) GetCall(ctx context.Context, uid string) (*model.Call, uint64, error) {
	call := &model.Call{}
	rev, err := s.get(ctx, constants.KVBucketNameCalls, uid, call)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "call not found", "call_uid", uid)
			return nil, 0, errs.NewNotFound("call not found")
		}
		slog.ErrorContext(ctx, "failed to get call", "error", err, "call_uid", uid)
		return nil, 0, wrapStoreError("failed to get call", err)
	}

	return call, rev, nil
}

// ListCallsByNotice retrieves the full call log for one notice
func (s *storage) ListCallsByNotice(ctx context.Context, noticeUID string) ([]*model.Call, error) {
	return s.listCalls(ctx, func(call *model.Call) bool {
		return call.NoticeUID == noticeUID
	})
}

// ListCallsByClient retrieves every call logged for one client
func (s *storage) ListCallsByClient(ctx context.Context, clientUID string) ([]*model.Call, error) {
	return s.listCalls(ctx, func(call *model.Call) bool {
		return call.ClientUID == clientUID
	})
}

func (s *storage) listCalls(ctx context.Context, keep func(*model.Call) bool) ([]*model.Call, error) {
	var calls []*model.Call
	err := s.scan(ctx, constants.KVBucketNameCalls, func(data []byte) error {
		call := &model.Call{}
		if err := json.Unmarshal(data, call); err != nil {
			return err
		}
		if keep(call) {
			calls = append(calls, call)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list calls", "error", err)
		return nil, wrapStoreError("failed to list calls", err)
	}
	return calls, nil
}

// CreateCall persists a new call
func (s *storage) CreateCall(ctx context.Context, call *model.Call) (*model.Call, error) {
	if err := s.create(ctx, constants.KVBucketNameCalls, call.UID, call); err != nil {
		slog.ErrorContext(ctx, "failed to create call", "error", err, "call_uid", call.UID)
		return nil, err
	}
	return call, nil
}

// UpdateCall updates a call with revision checking
func (s *storage) UpdateCall(ctx context.Context, call *model.Call, expectedRevision uint64) (*model.Call, error) {
	if err := s.update(ctx, constants.KVBucketNameCalls, call.UID, call, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to update call",
			"error", err,
			"call_uid", call.UID,
			"expected_revision", expectedRevision,
		)
		return nil, err
	}
	return call, nil
}

// DeleteCall deletes a call with revision checking
func (s *storage) DeleteCall(ctx context.Context, uid string, expectedRevision uint64) error {
	if err := s.delete(ctx, constants.KVBucketNameCalls, uid, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to delete call", "error", err, "call_uid", uid)
		return err
	}
	return nil
}

// ================== POA records ==================

// GetPOARecord retrieves a single POA record by UID and returns its revision
func (s *storage) GetPOARecord(ctx context.Context, uid string) (*model.POARecord, uint64, error) {
	record := &model.POARecord{}
	rev, err := s.get(ctx, constants.KVBucketNamePOARecords, uid, record)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "POA record not found", "poa_uid", uid)
			return nil, 0, errs.NewNotFound("POA record not found")
		}
		slog.ErrorContext(ctx, "failed to get POA record", "error", err, "poa_uid", uid)
		return nil, 0, wrapStoreError("failed to get POA record", err)
	}

	return record, rev, nil
}

// ListPOARecordsByClient retrieves the POA records on file for one client
func (s *storage) ListPOARecordsByClient(ctx context.Context, clientUID string) ([]*model.POARecord, error) {
	var records []*model.POARecord
	err := s.scan(ctx, constants.KVBucketNamePOARecords, func(data []byte) error {
		record := &model.POARecord{}
		if err := json.Unmarshal(data, record); err != nil {
			return err
		}
		if record.ClientUID == clientUID {
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list POA records", "error", err, "client_uid", clientUID)
		return nil, wrapStoreError("failed to list POA records", err)
	}
	return records, nil
}

// CreatePOARecord persists a new POA record
func (s *storage) CreatePOARecord(ctx context.Context, record *model.POARecord) (*model.POARecord, error) {
	if err := s.create(ctx, constants.KVBucketNamePOARecords, record.UID, record); err != nil {
		slog.ErrorContext(ctx, "failed to create POA record", "error", err, "poa_uid", record.UID)
		return nil, err
	}
	return record, nil
}

// UpdatePOARecord updates a POA record with revision checking
func (s *storage) UpdatePOARecord(ctx context.Context, record *model.POARecord, expectedRevision uint64) (*model.POARecord, error) {
	if err := s.update(ctx, constants.KVBucketNamePOARecords, record.UID, record, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to update POA record",
			"error", err,
			"poa_uid", record.UID,
			"expected_revision", expectedRevision,
		)
		return nil, err
	}
	return record, nil
}

// DeletePOARecord deletes a POA record with revision checking
func (s *storage) DeletePOARecord(ctx context.Context, uid string, expectedRevision uint64) error {
	if err := s.delete(ctx, constants.KVBucketNamePOARecords, uid, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to delete POA record", "error", err, "poa_uid", uid)
		return err
	}
	return nil
}

// ================== clients ==================

// GetClient retrieves a single client by UID and returns its revision
func (s *storage) GetClient(ctx context.Context, uid string) (*model.Client, uint64, error) {
	client := &model.Client{}
	rev, err := s.get(ctx, constants.KVBucketNameClients, uid, client)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			slog.DebugContext(ctx, "client not found", "client_uid", uid)
			return nil, 0, errs.NewNotFound("client not found")
		}
		slog.ErrorContext(ctx, "failed to get client", "error", err, "client_uid", uid)
		return nil, 0, wrapStoreError("failed to get client", err)
	}

	return client, rev, nil
}

// ListClients retrieves all clients
func (s *storage) ListClients(ctx context.Context) ([]*model.Client, error) {
	var clients []*model.Client
	err := s.scan(ctx, constants.KVBucketNameClients, func(data []byte) error {
		client := &model.Client{}
		if err := json.Unmarshal(data, client); err != nil {
			return err
		}
		clients = append(clients, client)
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list clients", "error", err)
		return nil, wrapStoreError("failed to list clients", err)
	}
	return clients, nil
}

// CreateClient persists a new client
func (s *storage) CreateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := s.create(ctx, constants.KVBucketNameClients, client.UID, client); err != nil {
		slog.ErrorContext(ctx, "failed to create client", "error", err, "client_uid", client.UID)
		return nil, err
	}
	return client, nil
}

// UpdateClient updates a client with revision checking
func (s *storage) UpdateClient(ctx context.Context, client *model.Client, expectedRevision uint64) (*model.Client, error) {
	if err := s.update(ctx, constants.KVBucketNameClients, client.UID, client, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to update client",
			"error", err,
			"client_uid", client.UID,
			"expected_revision", expectedRevision,
		)
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client with revision checking
func (s *storage) DeleteClient(ctx context.Context, uid string, expectedRevision uint64) error {
	if err := s.delete(ctx, constants.KVBucketNameClients, uid, expectedRevision); err != nil {
		slog.ErrorContext(ctx, "failed to delete client", "error", err, "client_uid", uid)
		return err
	}
	return nil
}

// ================== generic KV helpers ==================

func (s *storage) bucket(name string) (jetstream.KeyValue, error) {
	kv, exists := s.client.kvStore[name]
	if !exists || kv == nil {
		return nil, errs.NewServiceUnavailable("KV bucket not available")
	}
	return kv, nil
}

// get retrieves a document from one bucket by UID, unmarshals it into target
// and returns the revision.
func (s *storage) get(ctx context.Context, bucketName, uid string, target any) (uint64, error) {
	if uid == "" {
		return 0, errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.bucket(bucketName)
	if err != nil {
		return 0, err
	}

	data, err := kv.Get(ctx, uid)
	if err != nil {
		return 0, err
	}

	if err := json.Unmarshal(data.Value(), target); err != nil {
		return 0, err
	}

	return data.Revision(), nil
}

// create stores a new document, failing on an existing key.
func (s *storage) create(ctx context.Context, bucketName, uid string, document any) error {
	if uid == "" {
		return errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.bucket(bucketName)
	if err != nil {
		return err
	}

	data, err := json.Marshal(document)
	if err != nil {
		return err
	}

	if _, err := kv.Create(ctx, uid, data); err != nil {
		if stderrors.Is(err, jetstream.ErrKeyExists) {
			return errs.NewConflict("document already exists", err)
		}
		return wrapStoreError("failed to create document", err)
	}
	return nil
}

// update stores a document conditionally on the expected revision.
func (s *storage) update(ctx context.Context, bucketName, uid string, document any, expectedRevision uint64) error {
	if uid == "" {
		return errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.bucket(bucketName)
	if err != nil {
		return err
	}

	data, err := json.Marshal(document)
	if err != nil {
		return err
	}

	if _, err := kv.Update(ctx, uid, data, expectedRevision); err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return errs.NewNotFound("document not found", err)
		}
		if isWrongRevision(err) {
			return errs.NewConflict("revision mismatch", err)
		}
		return wrapStoreError("failed to update document", err)
	}
	return nil
}

// delete removes a document conditionally on the expected revision.
func (s *storage) delete(ctx context.Context, bucketName, uid string, expectedRevision uint64) error {
	if uid == "" {
		return errs.NewValidation("UID cannot be empty")
	}

	kv, err := s.bucket(bucketName)
	if err != nil {
		return err
	}

	if err := kv.Delete(ctx, uid, jetstream.LastRevision(expectedRevision)); err != nil {
		if stderrors.Is(err, jetstream.ErrKeyNotFound) {
			return errs.NewNotFound("document not found", err)
		}
		if isWrongRevision(err) {
			return errs.NewConflict("revision mismatch", err)
		}
		return wrapStoreError("failed to delete document", err)
	}
	return nil
}

// scan visits every document in one bucket. An empty bucket is not an error.
func (s *storage) scan(ctx context.Context, bucketName string, visit func(data []byte) error) error {
	kv, err := s.bucket(bucketName)
	if err != nil {
		return err
	}

	keys, err := kv.Keys(ctx)
	if err != nil {
		if stderrors.Is(err, jetstream.ErrNoKeysFound) {
			return nil
		}
		return err
	}

	for _, key := range keys {
		data, err := kv.Get(ctx, key)
		if err != nil {
			// Deleted between listing and fetch
			if stderrors.Is(err, jetstream.ErrKeyNotFound) {
				continue
			}
			return err
		}
		if err := visit(data.Value()); err != nil {
			return err
		}
	}
	return nil
}

// isWrongRevision reports whether a KV write failed the last-revision check.
func isWrongRevision(err error) bool {
	var apiErr *jetstream.APIError
	return stderrors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}

func wrapStoreError(message string, err error) error {
	return errs.NewServiceUnavailable(message, err)
}
