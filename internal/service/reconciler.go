// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package service implements the use-case orchestration for the notice
// tracker: reconciliation, POA coverage refresh, billing reprice and the
// CRUD flows that trigger them.
package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/practicedesk/notice-tracker-service/internal/domain/derive"
	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
	"github.com/practicedesk/notice-tracker-service/internal/domain/port"
	"github.com/practicedesk/notice-tracker-service/pkg/errors"
	"github.com/practicedesk/notice-tracker-service/pkg/log"
	"github.com/practicedesk/notice-tracker-service/pkg/utils"
)

// defaultReconcileConcurrency bounds how many notices a batch pass derives
// and writes at once.
const defaultReconcileConcurrency = 8

// Reconciler recomputes derived notice fields and persists only the notices
// whose fields drifted.
type Reconciler interface {
	// ReconcileOne re-derives one notice and reports whether a write occurred
	ReconcileOne(ctx context.Context, noticeUID string) (bool, error)

	// ReconcileAll re-derives every non-terminal notice and returns the
	// count of notices actually updated
	ReconcileAll(ctx context.Context) (int, error)

	// ReconcileForClient re-derives the non-terminal notices of one client
	ReconcileForClient(ctx context.Context, clientUID string) (int, error)
}

// reconcilerOrchestratorOption defines a function type for setting options
// on the reconciler orchestrator
type reconcilerOrchestratorOption func(*reconcilerOrchestrator)

// WithNoticeStore sets the notice reader/writer
func WithNoticeStore(store port.NoticeReaderWriter) reconcilerOrchestratorOption {
	return func(r *reconcilerOrchestrator) {
		r.noticeStore = store
	}
}

// WithCallStore sets the call reader
func WithCallStore(store port.CallReader) reconcilerOrchestratorOption {
	return func(r *reconcilerOrchestrator) {
		r.callStore = store
	}
}

// WithDeriveEngine sets the derivation engine
func WithDeriveEngine(engine *derive.Engine) reconcilerOrchestratorOption {
	return func(r *reconcilerOrchestrator) {
		r.engine = engine
	}
}

// WithReconcileConcurrency bounds the batch worker count
func WithReconcileConcurrency(n int) reconcilerOrchestratorOption {
	return func(r *reconcilerOrchestrator) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

type reconcilerOrchestrator struct {
	noticeStore port.NoticeReaderWriter
	callStore   port.CallReader
	engine      *derive.Engine
	concurrency int
	retry       utils.RetryConfig
}

// NewReconciler creates a reconciler orchestrator using the option pattern
func NewReconciler(opts ...reconcilerOrchestratorOption) Reconciler {
	rc := &reconcilerOrchestrator{
		engine:      derive.NewEngine(),
		concurrency: defaultReconcileConcurrency,
		retry:       utils.NewRetryConfig(3, 50*time.Millisecond, 500*time.Millisecond),
	}
	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// ReconcileOne loads the notice and its call log, re-derives the four cached
// fields and issues at most one conditional write.
//
// Terminal notices are skipped outright: a closed or resolved notice is
// never auto-recomputed until someone reopens it. Re-running with unchanged
// inputs produces no write, so the operation is idempotent.
func (r *reconcilerOrchestrator) ReconcileOne(ctx context.Context, noticeUID string) (bool, error) {
	updated := false

	reconcile := func() error {
		notice, revision, err := r.noticeStore.GetNotice(ctx, noticeUID)
		if err != nil {
			return err
		}

		if notice.IsTerminal() {
			slog.DebugContext(ctx, "skipping terminal notice",
				"notice_uid", noticeUID,
				"status", notice.Status,
			)
			updated = false
			return nil
		}

		calls, err := r.callStore.ListCallsByNotice(ctx, noticeUID)
		if err != nil {
			return fmt.Errorf("failed to list calls for notice %s: %w", noticeUID, err)
		}

		fields := r.engine.Derive(notice, calls)
		if !derivedFieldsDiffer(notice, fields) {
			updated = false
			return nil
		}

		notice.Status = fields.Status
		notice.Escalated = fields.Escalated
		notice.DaysRemaining = fields.DaysRemaining
		notice.ResponseDeadline = fields.ResponseDeadline
		notice.LastAutoUpdate = utils.NowPtr()

		if _, err := r.noticeStore.UpdateNotice(ctx, notice, revision); err != nil {
			return err
		}

		slog.DebugContext(ctx, "notice derived fields updated",
			"notice_uid", noticeUID,
			"status", fields.Status,
			"escalated", fields.Escalated,
			"days_remaining", log.OptionalInt(fields.DaysRemaining),
		)
		updated = true
		return nil
	}

	// A conflict means a concurrent writer bumped the revision between our
	// read and write. Re-read and re-derive with backoff; the retry converges
	// because both writers compute from the same call log.
	err := reconcile()
	if isConflict(err) {
		slog.WarnContext(ctx, "revision conflict during reconcile, retrying",
			"notice_uid", noticeUID,
		)
		err = utils.RetryWithExponentialBackoff(ctx, r.retry, reconcile)
	}
	if err != nil {
		return false, err
	}

	return updated, nil
}

// ReconcileAll runs ReconcileOne over every non-terminal notice with bounded
// concurrency. Per-notice failures are collected, not fatal: the pass keeps
// going and returns the count of notices actually updated alongside an
// aggregate error.
func (r *reconcilerOrchestrator) ReconcileAll(ctx context.Context) (int, error) {
	notices, err := r.noticeStore.ListNotices(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list notices: %w", err)
	}

	return r.reconcileBatch(ctx, notices)
}

// ReconcileForClient runs the batch pass over one client's notices.
func (r *reconcilerOrchestrator) ReconcileForClient(ctx context.Context, clientUID string) (int, error) {
	notices, err := r.noticeStore.ListNoticesByClient(ctx, clientUID)
	if err != nil {
		return 0, fmt.Errorf("failed to list notices for client %s: %w", clientUID, err)
	}

	return r.reconcileBatch(ctx, notices)
}

func (r *reconcilerOrchestrator) reconcileBatch(ctx context.Context, notices []*model.Notice) (int, error) {
	updates := make(chan struct{}, len(notices))
	failures := make(chan error, len(notices))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for _, notice := range notices {
		if notice.IsTerminal() {
			continue
		}

		noticeUID := notice.UID
		group.Go(func() error {
			changed, err := r.ReconcileOne(groupCtx, noticeUID)
			if err != nil {
				slog.ErrorContext(groupCtx, "failed to reconcile notice",
					"error", err,
					"notice_uid", noticeUID,
				)
				failures <- fmt.Errorf("notice %s: %w", noticeUID, err)
				return nil
			}
			if changed {
				updates <- struct{}{}
			}
			return nil
		})
	}

	// group.Go callbacks never return errors, Wait only flushes the pool
	_ = group.Wait()
	close(updates)
	close(failures)

	var errs []error
	for err := range failures {
		errs = append(errs, err)
	}

	updatedCount := len(updates)
	slog.InfoContext(ctx, "reconciliation pass finished",
		"total", len(notices),
		"updated", updatedCount,
		"failed", len(errs),
	)

	return updatedCount, stderrors.Join(errs...)
}

// derivedFieldsDiffer reports whether any of the four cached fields would
// change under the freshly derived values.
func derivedFieldsDiffer(notice *model.Notice, fields model.DerivedFields) bool {
	if notice.Status != fields.Status {
		return true
	}
	if notice.Escalated != fields.Escalated {
		return true
	}
	if !utils.IntPtrEqual(notice.DaysRemaining, fields.DaysRemaining) {
		return true
	}
	return !timePtrEqual(notice.ResponseDeadline, fields.ResponseDeadline)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func isConflict(err error) bool {
	if err == nil {
		return false
	}
	var conflict errors.Conflict
	return stderrors.As(err, &conflict)
}
