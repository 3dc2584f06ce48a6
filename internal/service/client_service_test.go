// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/infrastructure/mock"
	errs "github.com/practicedesk/notice-tracker-service/pkg/errors"
)

func TestClientServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("create get update delete", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		clientService := NewClientService(mockRepo, mockRepo)

		created, err := clientService.CreateClient(ctx, &model.Client{
			Name:  "Acme Manufacturing",
			Email: "office@acme.example",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.UID)

		fetched, err := clientService.GetClient(ctx, created.UID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Manufacturing", fetched.Name)

		fetched.Phone = "555-0100"
		updated, err := clientService.UpdateClient(ctx, fetched)
		require.NoError(t, err)
		assert.Equal(t, "555-0100", updated.Phone)

		require.NoError(t, clientService.DeleteClient(ctx, created.UID))

		_, err = clientService.GetClient(ctx, created.UID)
		require.Error(t, err)
	})

	t.Run("name is required", func(t *testing.T) {
		clientService := NewClientService(mock.NewMockRepository(), mock.NewMockRepository())

		_, err := clientService.CreateClient(ctx, &model.Client{Email: "x@example.com"})
		require.Error(t, err)

		var validation errs.Validation
		assert.True(t, stderrors.As(err, &validation))
	})

	t.Run("clients with notices cannot be deleted", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddClient(&model.Client{UID: "client-1", Name: "Acme"})
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})

		clientService := NewClientService(mockRepo, mockRepo)

		err := clientService.DeleteClient(ctx, "client-1")
		require.Error(t, err)

		var conflict errs.Conflict
		assert.True(t, stderrors.As(err, &conflict))

		_, err = clientService.GetClient(ctx, "client-1")
		require.NoError(t, err)
	})

	t.Run("list sorted by name", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddClient(&model.Client{UID: "client-2", Name: "Zenith LLC"})
		mockRepo.AddClient(&model.Client{UID: "client-1", Name: "Acme"})

		clientService := NewClientService(mockRepo, mockRepo)

		clients, err := clientService.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		assert.Equal(t, "Acme", clients[0].Name)
		assert.Equal(t, "Zenith LLC", clients[1].Name)
	})
}
