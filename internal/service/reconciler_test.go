// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicedesk/notice-tracker-service/internal/domain/derive"
	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/infrastructure/mock"
)

var reconcilerTestNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)

func newTestReconciler(mockRepo *mock.MockRepository) Reconciler {
	engine := derive.NewEngine(derive.WithClock(func() time.Time { return reconcilerTestNow }))
	return NewReconciler(
		WithNoticeStore(mockRepo),
		WithCallStore(mockRepo),
		WithDeriveEngine(engine),
		WithReconcileConcurrency(2),
	)
}

func testDatePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	return &d
}

func TestReconcileOne(t *testing.T) {
	ctx := context.Background()

	t.Run("stale derived fields are rewritten", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})
		mockRepo.AddCall(&model.Call{
			UID:       "call-1",
			NoticeUID: "notice-1",
			Date:      reconcilerTestNow,
			Outcome:   model.OutcomeWaitingOnClient,
		})

		reconciler := newTestReconciler(mockRepo)

		updated, err := reconciler.ReconcileOne(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, updated)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusWaitingOnClient, notice.Status)
		assert.False(t, notice.Escalated)
		assert.NotNil(t, notice.LastAutoUpdate)
	})

	t.Run("second run with unchanged inputs writes nothing", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:         "notice-1",
			ClientUID:   "client-1",
			Status:      model.StatusOpen,
			NoticeIssue: "Final Notice of Intent to Levy",
		})

		reconciler := newTestReconciler(mockRepo)

		updated, err := reconciler.ReconcileOne(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, updated)
		writesAfterFirst := mockRepo.NoticeWriteCount()

		updated, err = reconciler.ReconcileOne(ctx, "notice-1")
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Equal(t, writesAfterFirst, mockRepo.NoticeWriteCount())
	})

	t.Run("terminal notice is skipped without a write", func(t *testing.T) {
		for _, status := range []string{model.StatusClosed, model.StatusResolved} {
			mockRepo := mock.NewMockRepository()
			mockRepo.AddNotice(&model.Notice{
				UID:       "notice-1",
				ClientUID: "client-1",
				Status:    status,
				Escalated: false,
			})
			mockRepo.AddCall(&model.Call{
				UID:       "call-1",
				NoticeUID: "notice-1",
				Date:      reconcilerTestNow,
				Outcome:   model.OutcomeWaitingOnClient,
			})

			reconciler := newTestReconciler(mockRepo)

			updated, err := reconciler.ReconcileOne(ctx, "notice-1")
			require.NoError(t, err)
			assert.False(t, updated, "status %s", status)
			assert.Equal(t, 0, mockRepo.NoticeWriteCount())
		}
	})

	t.Run("derived closed status clears the escalated flag", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:         "notice-1",
			ClientUID:   "client-1",
			Status:      model.StatusEscalated,
			Escalated:   true,
			NoticeIssue: "Intent to Levy",
		})
		mockRepo.AddCall(&model.Call{
			UID:       "call-1",
			NoticeUID: "notice-1",
			Date:      reconcilerTestNow,
			Outcome:   model.OutcomeResolved,
		})

		reconciler := newTestReconciler(mockRepo)

		updated, err := reconciler.ReconcileOne(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, updated)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, model.StatusClosed, notice.Status)
		assert.False(t, notice.Escalated)
	})

	t.Run("missing notice propagates the error", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		reconciler := newTestReconciler(mockRepo)

		_, err := reconciler.ReconcileOne(ctx, "absent")
		require.Error(t, err)
	})

	t.Run("deadline fields are derived from the notice dates", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:           "notice-1",
			ClientUID:     "client-1",
			Status:        model.StatusOpen,
			DateReceived:  testDatePtr(2024, 3, 1),
			DaysToRespond: 30,
		})

		reconciler := newTestReconciler(mockRepo)

		updated, err := reconciler.ReconcileOne(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, updated)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		require.NotNil(t, notice.ResponseDeadline)
		assert.True(t, notice.ResponseDeadline.Equal(*testDatePtr(2024, 3, 31)))
		require.NotNil(t, notice.DaysRemaining)
		assert.Equal(t, 16, *notice.DaysRemaining)
	})
}

func TestReconcileAll(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only drifted notices and skips terminal ones", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-1",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-2",
			ClientUID: "client-1",
			Status:    model.StatusOpen,
		})
		mockRepo.AddNotice(&model.Notice{
			UID:       "notice-3",
			ClientUID: "client-2",
			Status:    model.StatusClosed,
		})
		mockRepo.AddCall(&model.Call{
			UID:       "call-1",
			NoticeUID: "notice-2",
			Date:      reconcilerTestNow,
			Outcome:   model.OutcomeWaitingOnClient,
		})

		reconciler := newTestReconciler(mockRepo)

		count, err := reconciler.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		// A second pass sees no drift anywhere.
		count, err = reconciler.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("empty store reconciles zero notices", func(t *testing.T) {
		reconciler := newTestReconciler(mock.NewMockRepository())

		count, err := reconciler.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestReconcileForClient(t *testing.T) {
	ctx := context.Background()

	mockRepo := mock.NewMockRepository()
	mockRepo.AddNotice(&model.Notice{
		UID:       "notice-1",
		ClientUID: "client-1",
		Status:    model.StatusOpen,
	})
	mockRepo.AddNotice(&model.Notice{
		UID:       "notice-2",
		ClientUID: "client-2",
		Status:    model.StatusOpen,
	})
	mockRepo.AddCall(&model.Call{
		UID:       "call-1",
		NoticeUID: "notice-1",
		Date:      reconcilerTestNow,
		Outcome:   model.OutcomeWaitingOnIRS,
	})
	mockRepo.AddCall(&model.Call{
		UID:       "call-2",
		NoticeUID: "notice-2",
		Date:      reconcilerTestNow,
		Outcome:   model.OutcomeWaitingOnIRS,
	})

	reconciler := newTestReconciler(mockRepo)

	count, err := reconciler.ReconcileForClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAwaitingIRS, notice.Status)

	// The other client's notice was left alone.
	other, _, err := mockRepo.GetNotice(ctx, "notice-2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, other.Status)
}
