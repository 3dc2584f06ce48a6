// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicedesk/notice-tracker-service/internal/domain/billing"
	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/infrastructure/mock"
)

func newTestCallService(mockRepo *mock.MockRepository) *CallService {
	billingService := NewBillingService(mockRepo, billing.NewCalculator(billing.DefaultConfig()))
	reconciler := newTestReconciler(mockRepo)
	return NewCallService(mockRepo, mockRepo, billingService, reconciler)
}

func TestCallServiceCreateCall(t *testing.T) {
	ctx := context.Background()

	t.Run("creates, backfills client, prices and re-derives", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})

		callService := newTestCallService(mockRepo)

		created, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:       "notice-1",
			Date:            reconcilerTestNow,
			ResponseMethod:  model.ResponseMethodPhoneCall,
			DurationMinutes: 20,
			Billable:        true,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.UID)
		assert.Equal(t, "client-1", created.ClientUID)
		assert.Equal(t, model.BillingStatusUnbilled, created.BillingStatus)
		assert.Equal(t, 250.0, created.BillableAmount) // alone in pool, minimum applies

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, notice.Status)
	})

	t.Run("second short call moves nothing but bills zero", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})

		callService := newTestCallService(mockRepo)

		first, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:       "notice-1",
			Date:            reconcilerTestNow,
			ResponseMethod:  model.ResponseMethodPhoneCall,
			DurationMinutes: 20,
			Billable:        true,
		})
		require.NoError(t, err)

		second, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:       "notice-1",
			Date:            reconcilerTestNow.Add(24 * time.Hour),
			ResponseMethod:  model.ResponseMethodPhoneCall,
			DurationMinutes: 25,
			Billable:        true,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, second.BillableAmount)

		stored, _, err := mockRepo.GetCall(ctx, first.UID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, stored.BillableAmount)
	})

	t.Run("missing parent notice rejects the call", func(t *testing.T) {
		callService := newTestCallService(mock.NewMockRepository())

		_, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID: "absent",
			Date:      reconcilerTestNow,
		})
		require.Error(t, err)
	})

	t.Run("validation failures block the write", func(t *testing.T) {
		callService := newTestCallService(mock.NewMockRepository())

		_, err := callService.CreateCall(ctx, &model.Call{Date: reconcilerTestNow})
		require.Error(t, err)
	})
}

func TestCallServiceUpdateCall(t *testing.T) {
	ctx := context.Background()

	t.Run("resolved outcome closes the notice", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusInProgress,
		})

		callService := newTestCallService(mockRepo)

		created, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:      "notice-1",
			Date:           reconcilerTestNow,
			ResponseMethod: model.ResponseMethodPhoneCall,
			Outcome:        model.OutcomeWaitingOnClient,
		})
		require.NoError(t, err)

		created.Outcome = model.OutcomeResolved
		_, err = callService.UpdateCall(ctx, created)
		require.NoError(t, err)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusClosed, notice.Status)
		assert.False(t, notice.Escalated)
	})
}

func TestCallServiceDeleteCall(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting the fee-bearing call moves the minimum", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})

		callService := newTestCallService(mockRepo)

		first, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:       "notice-1",
			Date:            reconcilerTestNow,
			ResponseMethod:  model.ResponseMethodPhoneCall,
			DurationMinutes: 20,
			Billable:        true,
		})
		require.NoError(t, err)

		second, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:       "notice-1",
			Date:            reconcilerTestNow.Add(24 * time.Hour),
			ResponseMethod:  model.ResponseMethodPhoneCall,
			DurationMinutes: 25,
			Billable:        true,
		})
		require.NoError(t, err)
		assert.Equal(t, 0.0, second.BillableAmount)

		require.NoError(t, callService.DeleteCall(ctx, first.UID))

		remaining, _, err := mockRepo.GetCall(ctx, second.UID)
		require.NoError(t, err)
		assert.Equal(t, 250.0, remaining.BillableAmount)
	})

	t.Run("deleting the last call reopens the status derivation", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})

		callService := newTestCallService(mockRepo)

		created, err := callService.CreateCall(ctx, &model.Call{
			NoticeUID:      "notice-1",
			Date:           reconcilerTestNow,
			ResponseMethod: model.ResponseMethodPhoneCall,
		})
		require.NoError(t, err)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, notice.Status)

		require.NoError(t, callService.DeleteCall(ctx, created.UID))

		notice, _, err = mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusOpen, notice.Status)
	})
}

func TestCallServiceLists(t *testing.T) {
	ctx := context.Background()

	mockRepo := mock.NewMockRepository()
	mockRepo.AddCall(&model.Call{
		UID:       "call-late",
		NoticeUID: "notice-1",
		ClientUID: "client-1",
		Date:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	mockRepo.AddCall(&model.Call{
		UID:       "call-early",
		NoticeUID: "notice-1",
		ClientUID: "client-1",
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	mockRepo.AddCall(&model.Call{
		UID:       "call-other",
		NoticeUID: "notice-2",
		ClientUID: "client-2",
		Date:      time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	callService := newTestCallService(mockRepo)

	byNotice, err := callService.ListCallsByNotice(ctx, "notice-1")
	require.NoError(t, err)
	require.Len(t, byNotice, 2)
	assert.Equal(t, "call-early", byNotice[0].UID)
	assert.Equal(t, "call-late", byNotice[1].UID)

	byClient, err := callService.ListCallsByClient(ctx, "client-2")
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, "call-other", byClient[0].UID)
}
