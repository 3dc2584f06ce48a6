// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// ClientService implements the client CRUD flows.
type ClientService struct {
	clientStore port.ClientReaderWriter
	noticeStore port.NoticeReader
}

// NewClientService creates a new client service
func NewClientService(clientStore port.ClientReaderWriter, noticeStore port.NoticeReader) *ClientService {
	return &ClientService{
		clientStore: clientStore,
		noticeStore: noticeStore,
	}
}

// CreateClient validates and persists a new client.
func (s *ClientService) CreateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := client.Validate(); err != nil {
		return nil, err
	}

	if client.UID == "" {
		client.UID = uuid.NewString()
	}

	return s.clientStore.CreateClient(ctx, client)
}

// GetClient retrieves one client.
func (s *ClientService) GetClient(ctx context.Context, uid string) (*model.Client, error) {
	client, _, err := s.clientStore.GetClient(ctx, uid)
	return client, err
}

// ListClients returns all clients sorted by name, UID as tie-break.
func (s *ClientService) ListClients(ctx context.Context) ([]*model.Client, error) {
	clients, err := s.clientStore.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(clients, func(i, j int) bool {
		if clients[i].Name == clients[j].Name {
			return clients[i].UID < clients[j].UID
		}
		return clients[i].Name < clients[j].Name
	})
	return clients, nil
}

// UpdateClient persists edits to a client.
func (s *ClientService) UpdateClient(ctx context.Context, client *model.Client) (*model.Client, error) {
	if err := client.Validate(); err != nil {
		return nil, err
	}

	_, revision, err := s.clientStore.GetClient(ctx, client.UID)
	if err != nil {
		return nil, err
	}

	return s.clientStore.UpdateClient(ctx, client, revision)
}

// DeleteClient removes a client. Clients with notices on file are kept:
// notices reference the client by UID and must not dangle.
func (s *ClientService) DeleteClient(ctx context.Context, uid string) error {
	notices, err := s.noticeStore.ListNoticesByClient(ctx, uid)
	if err != nil {
		return err
	}
	if len(notices) > 0 {
		return errors.NewConflict("client has notices on file and cannot be deleted")
	}

	_, revision, err := s.clientStore.GetClient(ctx, uid)
	if err != nil {
		return err
	}
	return s.clientStore.DeleteClient(ctx, uid, revision)
}
