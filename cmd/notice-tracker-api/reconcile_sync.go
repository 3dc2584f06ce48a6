// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/practicedesk/notice-tracker-service/cmd/notice-tracker-api/service"
	internalService "github.com/practicedesk/notice-tracker-service/internal/service"
	"github.com/practicedesk/notice-tracker-service/pkg/constants"
)

const reconcileMessageTimeout = 30 * time.Second

// handleReconcileSync sets up the NATS subscriptions that let the external
// scheduler and the admin panel trigger reconciliation passes.
func handleReconcileSync(ctx context.Context, wg *sync.WaitGroup) error {
	natsClient := service.NATSClient(ctx)
	if natsClient == nil {
		// Mock repository mode has no broker to subscribe on.
		slog.InfoContext(ctx, "skipping reconcile subscriptions, no NATS client configured")
		return nil
	}

	slog.InfoContext(ctx, "starting reconcile trigger subscriptions")

	reconciler := service.Reconciler(ctx)

	subjects := []string{
		constants.ReconcileAllSubject,
		constants.ReconcileNoticeSubject,
		constants.ReconcileClientSubject,
	}

	for _, subject := range subjects {
		subject := subject
		_, subErr := natsClient.QueueSubscribe(
			subject,
			constants.ReconcileQueue,
			func(msg *nats.Msg) {
				// Check if service is shutting down
				select {
				case <-ctx.Done():
					slog.InfoContext(ctx, "rejecting message - service shutting down",
						"subject", msg.Subject)
					if msg.Reply != "" {
						if nakErr := msg.Nak(); nakErr != nil {
							slog.ErrorContext(ctx, "failed to nak message during shutdown", "error", nakErr)
						}
					}
					return
				default:
					// Continue processing
				}

				// Fresh context with timeout for this message, not derived
				// from the shutdown context to avoid cancellation issues
				msgCtx, cancel := context.WithTimeout(context.Background(), reconcileMessageTimeout)
				defer cancel()

				if handleErr := handleReconcileMessage(msgCtx, reconciler, msg); handleErr != nil {
					slog.ErrorContext(msgCtx, "failed to process reconcile trigger, will retry",
						"error", handleErr,
						"subject", msg.Subject)
					if msg.Reply != "" {
						if nakErr := msg.Nak(); nakErr != nil {
							slog.ErrorContext(msgCtx, "failed to nak message", "error", nakErr)
						}
					}
				} else if msg.Reply != "" {
					if ackErr := msg.Ack(); ackErr != nil {
						slog.ErrorContext(msgCtx, "failed to ack message", "error", ackErr)
					}
				}
			},
		)
		if subErr != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, subErr)
		}
		slog.InfoContext(ctx, "subscribed to reconcile trigger",
			"subject", subject,
			"queue", constants.ReconcileQueue)
	}

	slog.InfoContext(ctx, "reconcile trigger subscriptions started successfully")

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down reconcile trigger subscriptions")
		// NATS client cleanup handled by existing Close() in main shutdown
	}()

	return nil
}

// handleReconcileMessage dispatches one trigger message. The payload is the
// notice or client UID for the scoped subjects and ignored for the full pass.
func handleReconcileMessage(ctx context.Context, reconciler internalService.Reconciler, msg *nats.Msg) error {
	switch msg.Subject {
	case constants.ReconcileAllSubject:
		count, err := reconciler.ReconcileAll(ctx)
		if err != nil {
			return fmt.Errorf("full reconciliation pass failed after %d updates: %w", count, err)
		}
		slog.DebugContext(ctx, "full reconciliation pass completed", "updated", count)
		return nil

	case constants.ReconcileNoticeSubject:
		uid := string(msg.Data)
		if uid == "" {
			return fmt.Errorf("reconcile notice trigger is missing the notice UID payload")
		}
		updated, err := reconciler.ReconcileOne(ctx, uid)
		if err != nil {
			return fmt.Errorf("notice reconciliation failed for %s: %w", uid, err)
		}
		slog.DebugContext(ctx, "notice reconciliation completed",
			"notice_uid", uid,
			"updated", updated)
		return nil

	case constants.ReconcileClientSubject:
		uid := string(msg.Data)
		if uid == "" {
			return fmt.Errorf("reconcile client trigger is missing the client UID payload")
		}
		count, err := reconciler.ReconcileForClient(ctx, uid)
		if err != nil {
			return fmt.Errorf("client reconciliation failed for %s after %d updates: %w", uid, count, err)
		}
		slog.DebugContext(ctx, "client reconciliation completed",
			"client_uid", uid,
			"updated", count)
		return nil

	default:
		return fmt.Errorf("unexpected reconcile subject: %s", msg.Subject)
	}
}
