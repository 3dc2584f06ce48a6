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

func seedBillableCall(mockRepo *mock.MockRepository, uid string, day int, minutes int) {
	mockRepo.AddCall(&model.Call{
		UID:             uid,
		NoticeUID:       "notice-1",
		ClientUID:       "client-1",
		Date:            time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC),
		ResponseMethod:  model.ResponseMethodPhoneCall,
		DurationMinutes: minutes,
		Billable:        true,
		BillingStatus:   model.BillingStatusUnbilled,
	})
}

func TestBillingServiceRepriceNotice(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the pooled minimum on the first call", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		seedBillableCall(mockRepo, "call-1", 1, 20)
		seedBillableCall(mockRepo, "call-2", 2, 25)

		billingService := NewBillingService(mockRepo, billing.NewCalculator(billing.DefaultConfig()))

		updated, err := billingService.RepriceNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, 1, updated) // call-2 stays at its zero default

		first, _, err := mockRepo.GetCall(ctx, "call-1")
		require.NoError(t, err)
		assert.Equal(t, 250.0, first.BillableAmount)

		second, _, err := mockRepo.GetCall(ctx, "call-2")
		require.NoError(t, err)
		assert.Equal(t, 0.0, second.BillableAmount)
	})

	t.Run("adding a call past the hour re-attributes every cached amount", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		seedBillableCall(mockRepo, "call-1", 1, 20)
		seedBillableCall(mockRepo, "call-2", 2, 25)

		billingService := NewBillingService(mockRepo, billing.NewCalculator(billing.DefaultConfig()))

		_, err := billingService.RepriceNotice(ctx, "notice-1")
		require.NoError(t, err)

		seedBillableCall(mockRepo, "call-3", 3, 20)

		_, err = billingService.RepriceNotice(ctx, "notice-1")
		require.NoError(t, err)

		expected := map[string]float64{"call-1": 85, "call-2": 105, "call-3": 85}
		for uid, amount := range expected {
			call, _, err := mockRepo.GetCall(ctx, uid)
			require.NoError(t, err)
			assert.Equal(t, amount, call.BillableAmount, uid)
		}
	})

	t.Run("reprice is idempotent", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		seedBillableCall(mockRepo, "call-1", 1, 20)

		billingService := NewBillingService(mockRepo, billing.NewCalculator(billing.DefaultConfig()))

		updated, err := billingService.RepriceNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		updated, err = billingService.RepriceNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, 0, updated)
	})
}

func TestBillingServiceReads(t *testing.T) {
	ctx := context.Background()

	mockRepo := mock.NewMockRepository()
	seedBillableCall(mockRepo, "call-1", 1, 20)
	seedBillableCall(mockRepo, "call-2", 2, 25)

	billingService := NewBillingService(mockRepo, billing.NewCalculator(billing.DefaultConfig()))

	amounts, err := billingService.CallAmounts(ctx, "notice-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"call-1": 250, "call-2": 0}, amounts)

	total, err := billingService.NoticeTotal(ctx, "notice-1")
	require.NoError(t, err)
	assert.Equal(t, 250.0, total)

	// Unknown notice simply has no calls and no total.
	total, err = billingService.NoticeTotal(ctx, "notice-9")
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}
