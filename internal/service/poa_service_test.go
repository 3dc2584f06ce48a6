// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/infrastructure/mock"
)

func TestPOAServiceCheckNotice(t *testing.T) {
	ctx := context.Background()

	t.Run("coverage found refreshes the cached flag once", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:        "notice-1",
			ClientUID:  "client-1",
			Status:     model.StatusOpen,
			FormNumber: "2848",
			TaxPeriod:  "202306",
		})
		mockRepo.AddPOARecord(&model.POARecord{
			UID:         "poa-1",
			ClientUID:   "client-1",
			Form:        "2848",
			PeriodStart: "202301",
			PeriodEnd:   "202312",
		})

		poaService := NewPOAService(mockRepo, mockRepo)

		result, err := poaService.CheckNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, result.HasValidPOA)
		require.NotNil(t, result.MatchingPOA)
		assert.Equal(t, "poa-1", result.MatchingPOA.UID)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, notice.POAOnFile)
		writesAfterFirst := mockRepo.NoticeWriteCount()

		// Flag already agrees, no further write.
		_, err = poaService.CheckNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.Equal(t, writesAfterFirst, mockRepo.NoticeWriteCount())
	})

	t.Run("no coverage reports a reason and leaves the flag false", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:        "notice-1",
			ClientUID:  "client-1",
			Status:     model.StatusOpen,
			FormNumber: "2848",
			TaxPeriod:  "202401",
		})
		mockRepo.AddPOARecord(&model.POARecord{
			UID:         "poa-1",
			ClientUID:   "client-1",
			Form:        "2848",
			PeriodStart: "202301",
			PeriodEnd:   "202312",
		})

		poaService := NewPOAService(mockRepo, mockRepo)

		result, err := poaService.CheckNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.False(t, result.HasValidPOA)
		assert.NotEmpty(t, result.Reason)
		assert.Equal(t, 0, mockRepo.NoticeWriteCount())
	})

	t.Run("missing notice propagates the error", func(t *testing.T) {
		poaService := NewPOAService(mock.NewMockRepository(), mock.NewMockRepository())

		_, err := poaService.CheckNotice(ctx, "absent")
		require.Error(t, err)
	})
}

func TestPOAServiceRecordLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("creating a record flips coverage for the client's notices", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:        "notice-1",
			ClientUID:  "client-1",
			Status:     model.StatusOpen,
			FormNumber: "941",
			TaxPeriod:  "202305",
		})

		poaService := NewPOAService(mockRepo, mockRepo)

		created, err := poaService.CreatePOARecord(ctx, &model.POARecord{
			ClientUID:   "client-1",
			Form:        "941",
			PeriodStart: "Q1/2023",
			PeriodEnd:   "Q2/2023",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.UID)

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.True(t, notice.POAOnFile)
	})

	t.Run("deleting the only covering record clears the flag", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddNotice(&model.Notice{
			UID:        "notice-1",
			ClientUID:  "client-1",
			Status:     model.StatusOpen,
			FormNumber: "2848",
			TaxPeriod:  "202306",
			POAOnFile:  true,
		})
		mockRepo.AddPOARecord(&model.POARecord{
			UID:         "poa-1",
			ClientUID:   "client-1",
			Form:        "2848",
			PeriodStart: "202301",
			PeriodEnd:   "202312",
		})

		poaService := NewPOAService(mockRepo, mockRepo)

		require.NoError(t, poaService.DeletePOARecord(ctx, "poa-1"))

		notice, _, err := mockRepo.GetNotice(ctx, "notice-1")
		require.NoError(t, err)
		assert.False(t, notice.POAOnFile)
	})

	t.Run("records list sorted by UID", func(t *testing.T) {
		mockRepo := mock.NewMockRepository()
		mockRepo.AddPOARecord(&model.POARecord{UID: "poa-b", ClientUID: "client-1", Form: "2848"})
		mockRepo.AddPOARecord(&model.POARecord{UID: "poa-a", ClientUID: "client-1", Form: "1040"})
		mockRepo.AddPOARecord(&model.POARecord{UID: "poa-c", ClientUID: "client-2", Form: "941"})

		poaService := NewPOAService(mockRepo, mockRepo)

		records, err := poaService.ListPOARecordsByClient(ctx, "client-1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "poa-a", records[0].UID)
		assert.Equal(t, "poa-b", records[1].UID)
	})

	t.Run("record validation is enforced", func(t *testing.T) {
		poaService := NewPOAService(mock.NewMockRepository(), mock.NewMockRepository())

		_, err := poaService.CreatePOARecord(ctx, &model.POARecord{Form: "2848"})
		require.Error(t, err)
	})
}
