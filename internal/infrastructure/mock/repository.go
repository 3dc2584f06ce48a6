// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package mock provides an in-memory repository implementation for testing.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// MockRepository implements port.Repository with in-memory maps. It tracks
// per-entity revisions the same way the KV store does, so revision-mismatch
// paths and write counts are testable without a broker.
type MockRepository struct {
	notices          map[string]*model.Notice
	noticeRevisions  map[string]uint64
	calls            map[string]*model.Call
	callRevisions    map[string]uint64
	poaRecords       map[string]*model.POARecord
	poaRevisions     map[string]uint64
	clients          map[string]*model.Client
	clientRevisions  map[string]uint64
	noticeWriteCount int
	mu               sync.RWMutex
}

// NewMockRepository creates an empty mock repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		notices:         make(map[string]*model.Notice),
		noticeRevisions: make(map[string]uint64),
		calls:           make(map[string]*model.Call),
		callRevisions:   make(map[string]uint64),
		poaRecords:      make(map[string]*model.POARecord),
		poaRevisions:    make(map[string]uint64),
		clients:         make(map[string]*model.Client),
		clientRevisions: make(map[string]uint64),
	}
}

// ClearAll removes every stored entity and resets counters.
func (m *MockRepository) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notices = make(map[string]*model.Notice)
	m.noticeRevisions = make(map[string]uint64)
	m.calls = make(map[string]*model.Call)
	m.callRevisions = make(map[string]uint64)
	m.poaRecords = make(map[string]*model.POARecord)
	m.poaRevisions = make(map[string]uint64)
	m.clients = make(map[string]*model.Client)
	m.clientRevisions = make(map[string]uint64)
	m.noticeWriteCount = 0
}

// NoticeWriteCount reports how many notice create/update writes occurred,
// used by idempotence tests.
func (m *MockRepository) NoticeWriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.noticeWriteCount
}

// AddNotice seeds a notice at revision 1.
func (m *MockRepository) AddNotice(notice *model.Notice) {
	m.mu.Lock()
	defer m.mu.Unlock()

	noticeCopy := *notice
	m.notices[notice.UID] = &noticeCopy
	m.noticeRevisions[notice.UID] = 1
}

// AddCall seeds a call at revision 1.
func (m *MockRepository) AddCall(call *model.Call) {
	m.mu.Lock()
	defer m.mu.Unlock()

	callCopy := *call
	m.calls[call.UID] = &callCopy
	m.callRevisions[call.UID] = 1
}

// AddPOARecord seeds a POA record at revision 1.
func (m *MockRepository) AddPOARecord(record *model.POARecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recordCopy := *record
	m.poaRecords[record.UID] = &recordCopy
	m.poaRevisions[record.UID] = 1
}

// AddClient seeds a client at revision 1.
func (m *MockRepository) AddClient(client *model.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clientCopy := *client
	m.clients[client.UID] = &clientCopy
	m.clientRevisions[client.UID] = 1
}

// ================== NoticeReaderWriter implementation ==================

// GetNotice retrieves a notice by UID along with its revision.
func (m *MockRepository) GetNotice(_ context.Context, uid string) (*model.Notice, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notice, exists := m.notices[uid]
	if !exists {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("notice with UID %s not found", uid))
	}

	noticeCopy := *notice
	return &noticeCopy, m.noticeRevisions[uid], nil
}

// ListNotices retrieves all notices.
func (m *MockRepository) ListNotices(_ context.Context) ([]*model.Notice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notices := make([]*model.Notice, 0, len(m.notices))
	for _, notice := range m.notices {
		noticeCopy := *notice
		notices = append(notices, &noticeCopy)
	}
	return notices, nil
}

// ListNoticesByClient retrieves the notices belonging to one client.
func (m *MockRepository) ListNoticesByClient(_ context.Context, clientUID string) ([]*model.Notice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var notices []*model.Notice
	for _, notice := range m.notices {
		if notice.ClientUID == clientUID {
			noticeCopy := *notice
			notices = append(notices, &noticeCopy)
		}
	}
	return notices, nil
}

// CreateNotice persists a new notice at revision 1.
func (m *MockRepository) CreateNotice(_ context.Context, notice *model.Notice) (*model.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notices[notice.UID]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("notice with UID %s already exists", notice.UID))
	}

	now := time.Now()
	noticeCopy := *notice
	noticeCopy.CreatedAt = now
	noticeCopy.UpdatedAt = now

	m.notices[notice.UID] = &noticeCopy
	m.noticeRevisions[notice.UID] = 1
	m.noticeWriteCount++

	resultCopy := noticeCopy
	return &resultCopy, nil
}

// UpdateNotice updates a notice when the revision still matches.
func (m *MockRepository) UpdateNotice(_ context.Context, notice *model.Notice, expectedRevision uint64) (*model.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.notices[notice.UID]
	if !exists {
		return nil, errors.NewNotFound(fmt.Sprintf("notice with UID %s not found", notice.UID))
	}

	currentRevision := m.noticeRevisions[notice.UID]
	if expectedRevision != currentRevision {
		return nil, errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	noticeCopy := *notice
	noticeCopy.CreatedAt = existing.CreatedAt
	noticeCopy.UpdatedAt = time.Now()

	m.notices[notice.UID] = &noticeCopy
	m.noticeRevisions[notice.UID] = currentRevision + 1
	m.noticeWriteCount++

	resultCopy := noticeCopy
	return &resultCopy, nil
}

// DeleteNotice removes a notice when the revision still matches.
func (m *MockRepository) DeleteNotice(_ context.Context, uid string, expectedRevision uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notices[uid]; !exists {
		return errors.NewNotFound(fmt.Sprintf("notice with UID %s not found", uid))
	}

	currentRevision := m.noticeRevisions[uid]
	if expectedRevision != currentRevision {
		return errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	delete(m.notices, uid)
	delete(m.noticeRevisions, uid)
	return nil
}

// ================== CallReaderWriter implementation ==================

// GetCall retrieves a call by UID along with its revision.
func (m *MockRepository) GetCall(_ context.Context, uid string) (*model.Call, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	call, exists := m.calls[uid]
	if !exists {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("call with UID %s not found", uid))
	}

	callCopy := *call
	return &callCopy, m.callRevisions[uid], nil
}

// ListCallsByNotice retrieves the full call log for one notice.
func (m *MockRepository) ListCallsByNotice(_ context.Context, noticeUID string) ([]*model.Call, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var calls []*model.Call
	for _, call := range m.calls {
		if call.NoticeUID == noticeUID {
			callCopy := *call
			calls = append(calls, &callCopy)
		}
	}
	return calls, nil
}

// ListCallsByClient retrieves every call logged for one client.
func (m *MockRepository) ListCallsByClient(_ context.Context, clientUID string) ([]*model.Call, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var calls []*model.Call
	for _, call := range m.calls {
		if call.ClientUID == clientUID {
			callCopy := *call
			calls = append(calls, &callCopy)
		}
	}
	return calls, nil
}

// CreateCall persists a new call at revision 1.
func (m *MockRepository) CreateCall(_ context.Context, call *model.Call) (*model.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.calls[call.UID]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("call with UID %s already exists", call.UID))
	}

	now := time.Now()
	callCopy := *call
	callCopy.CreatedAt = now
	callCopy.UpdatedAt = now

	m.calls[call.UID] = &callCopy
	m.callRevisions[call.UID] = 1

	resultCopy := callCopy
	return &resultCopy, nil
}

// UpdateCall updates a call when the revision still matches.
func (m *MockRepository) UpdateCall(_ context.Context, call *model.Call, expectedRevision uint64) (*model.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.calls[call.UID]
	if !exists {
		return nil, errors.NewNotFound(fmt.Sprintf("call with UID %s not found", call.UID))
	}

	currentRevision := m.callRevisions[call.UID]
	if expectedRevision != currentRevision {
		return nil, errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	callCopy := *call
	callCopy.CreatedAt = existing.CreatedAt
	callCopy.UpdatedAt = time.Now()

	m.calls[call.UID] = &callCopy
	m.callRevisions[call.UID] = currentRevision + 1

	resultCopy := callCopy
	return &resultCopy, nil
}

// DeleteCall removes a call when the revision still matches.
func (m *MockRepository) DeleteCall(_ context.Context, uid string, expectedRevision uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.calls[uid]; !exists {
		return errors.NewNotFound(fmt.Sprintf("call with UID %s not found", uid))
	}

	currentRevision := m.callRevisions[uid]
	if expectedRevision != currentRevision {
		return errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	delete(m.calls, uid)
	delete(m.callRevisions, uid)
	return nil
}

// ================== POAReaderWriter implementation ==================

// GetPOARecord retrieves a POA record by UID along with its revision.
func (m *MockRepository) GetPOARecord(_ context.Context, uid string) (*model.POARecord, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.poaRecords[uid]
	if !exists {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("POA record with UID %s not found", uid))
	}

	recordCopy := *record
	return &recordCopy, m.poaRevisions[uid], nil
}

// ListPOARecordsByClient retrieves the POA records on file for one client.
func (m *MockRepository) ListPOARecordsByClient(_ context.Context, clientUID string) ([]*model.POARecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []*model.POARecord
	for _, record := range m.poaRecords {
		if record.ClientUID == clientUID {
			recordCopy := *record
			records = append(records, &recordCopy)
		}
	}
	return records, nil
}

// CreatePOARecord persists a new POA record at revision 1.
func (m *MockRepository) CreatePOARecord(_ context.Context, record *model.POARecord) (*model.POARecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.poaRecords[record.UID]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("POA record with UID %s already exists", record.UID))
	}

	now := time.Now()
	recordCopy := *record
	recordCopy.CreatedAt = now
	recordCopy.UpdatedAt = now

	m.poaRecords[record.UID] = &recordCopy
	m.poaRevisions[record.UID] = 1

	resultCopy := recordCopy
	return &resultCopy, nil
}

// UpdatePOARecord updates a POA record when the revision still matches.
func (m *MockRepository) UpdatePOARecord(_ context.Context, record *model.POARecord, expectedRevision uint64) (*model.POARecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.poaRecords[record.UID]
	if !exists {
		return nil, errors.NewNotFound(fmt.Sprintf("POA record with UID %s not found", record.UID))
	}

	currentRevision := m.poaRevisions[record.UID]
	if expectedRevision != currentRevision {
		return nil, errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	recordCopy := *record
	recordCopy.CreatedAt = existing.CreatedAt
	recordCopy.UpdatedAt = time.Now()

	m.poaRecords[record.UID] = &recordCopy
	m.poaRevisions[record.UID] = currentRevision + 1

	resultCopy := recordCopy
	return &resultCopy, nil
}

// DeletePOARecord removes a POA record when the revision still matches.
func (m *MockRepository) DeletePOARecord(_ context.Context, uid string, expectedRevision uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.poaRecords[uid]; !exists {
		return errors.NewNotFound(fmt.Sprintf("POA record with UID %s not found", uid))
	}

	currentRevision := m.poaRevisions[uid]
	if expectedRevision != currentRevision {
		return errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	delete(m.poaRecords, uid)
	delete(m.poaRevisions, uid)
	return nil
}

// ================== ClientReaderWriter implementation ==================

// GetClient retrieves a client by UID along with its revision.
func (m *MockRepository) GetClient(_ context.Context, uid string) (*model.Client, uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, exists := m.clients[uid]
	if !exists {
		return nil, 0, errors.NewNotFound(fmt.Sprintf("client with UID %s not found", uid))
	}

	clientCopy := *client
	return &clientCopy, m.clientRevisions[uid], nil
}

// ListClients retrieves all clients.
func (m *MockRepository) ListClients(_ context.Context) ([]*model.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := make([]*model.Client, 0, len(m.clients))
	for _, client := range m.clients {
		clientCopy := *client
		clients = append(clients, &clientCopy)
	}
	return clients, nil
}

// CreateClient persists a new client at revision 1.
func (m *MockRepository) CreateClient(_ context.Context, client *model.Client) (*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[client.UID]; exists {
		return nil, errors.NewConflict(fmt.Sprintf("client with UID %s already exists", client.UID))
	}

	now := time.Now()
	clientCopy := *client
	clientCopy.CreatedAt = now
	clientCopy.UpdatedAt = now

	m.clients[client.UID] = &clientCopy
	m.clientRevisions[client.UID] = 1

	resultCopy := clientCopy
	return &resultCopy, nil
}

// UpdateClient updates a client when the revision still matches.
func (m *MockRepository) UpdateClient(_ context.Context, client *model.Client, expectedRevision uint64) (*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.clients[client.UID]
	if !exists {
		return nil, errors.NewNotFound(fmt.Sprintf("client with UID %s not found", client.UID))
	}

	currentRevision := m.clientRevisions[client.UID]
	if expectedRevision != currentRevision {
		return nil, errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	clientCopy := *client
	clientCopy.CreatedAt = existing.CreatedAt
	clientCopy.UpdatedAt = time.Now()

	m.clients[client.UID] = &clientCopy
	m.clientRevisions[client.UID] = currentRevision + 1

	resultCopy := clientCopy
	return &resultCopy, nil
}

// DeleteClient removes a client when the revision still matches.
func (m *MockRepository) DeleteClient(_ context.Context, uid string, expectedRevision uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[uid]; !exists {
		return errors.NewNotFound(fmt.Sprintf("client with UID %s not found", uid))
	}

	currentRevision := m.clientRevisions[uid]
	if expectedRevision != currentRevision {
		return errors.NewConflict(fmt.Sprintf("revision mismatch: expected %d, got %d", expectedRevision, currentRevision))
	}

	delete(m.clients, uid)
	delete(m.clientRevisions, uid)
	return nil
}

// IsReady always reports ready.
func (m *MockRepository) IsReady(_ context.Context) error {
	return nil
}

// interface compliance check
var _ port.Repository = (*MockRepository)(nil)
