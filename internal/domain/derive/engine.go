// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package derive recomputes a notice's lifecycle fields from its call log.
//
// Status is a label function over raw facts, not a state machine: every
// derivation starts from scratch with the notice and its full call history,
// so a stale cached status can always be corrected by re-deriving.
package derive

import (
	"math"
	"strings"
	"time"

	"github.com/practicedesk/notice-tracker-service/internal/domain/model"
)

// EscalationThresholdDays is the days-remaining cutoff at or below which a
// notice escalates.
const EscalationThresholdDays = 3

// escalationKeywords flag a notice as urgent from its issue text alone, even
// with no deadline on record.
var escalationKeywords = []string{
	"final",
	"levy",
	"lien",
	"intent to levy",
	"final notice",
}

// Engine computes derived notice fields. The clock is injected so tests can
// pin "today".
type Engine struct {
	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an Engine with the real clock unless overridden.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Derive computes the notice's status, escalation flag, days remaining and
// response deadline from the notice record and its full call log.
//
// A derived terminal status forces escalated to false so the two never
// coexist in a write.
func (e *Engine) Derive(notice *model.Notice, calls []*model.Call) model.DerivedFields {
	deadline := responseDeadline(notice, calls)
	daysRemaining := e.daysRemaining(deadline)
	escalated := isEscalated(notice, daysRemaining)
	status := deriveStatus(calls, escalated)

	if model.IsTerminalStatus(status) {
		escalated = false
	}

	return model.DerivedFields{
		Status:           status,
		Escalated:        escalated,
		DaysRemaining:    daysRemaining,
		ResponseDeadline: deadline,
	}
}

// responseDeadline picks the earliest follow-up date among calls that carry
// an outcome. With no such calls it falls back to the notice's received date
// plus its response window, or nil when neither source is usable.
func responseDeadline(notice *model.Notice, calls []*model.Call) *time.Time {
	var earliest *time.Time
	for _, call := range calls {
		if !call.HasOutcome() || call.FollowUpDate == nil {
			continue
		}
		if earliest == nil || call.FollowUpDate.Before(*earliest) {
			followUp := *call.FollowUpDate
			earliest = &followUp
		}
	}
	if earliest != nil {
		return earliest
	}

	if notice.DateReceived != nil && notice.DaysToRespond > 0 {
		deadline := notice.DateReceived.AddDate(0, 0, notice.DaysToRespond)
		return &deadline
	}

	return nil
}

// daysRemaining is the whole-day distance from today to the deadline, both
// normalized to local midnight. Zero means due today, negative means overdue.
func (e *Engine) daysRemaining(deadline *time.Time) *int {
	if deadline == nil {
		return nil
	}

	today := midnight(e.now().Local())
	due := midnight(deadline.Local())

	days := int(math.Ceil(due.Sub(today).Hours() / 24))
	return &days
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// isEscalated applies the urgency rules. Notices without a client and
// notices already in a terminal stored status never escalate.
func isEscalated(notice *model.Notice, daysRemaining *int) bool {
	if notice.ClientUID == "" {
		return false
	}
	if notice.IsTerminal() {
		return false
	}

	if daysRemaining != nil && *daysRemaining <= EscalationThresholdDays {
		return true
	}

	issue := strings.ToLower(notice.NoticeIssue)
	for _, keyword := range escalationKeywords {
		if strings.Contains(issue, keyword) {
			return true
		}
	}

	return false
}

// deriveStatus labels the notice from its call outcomes, first rule wins:
// a resolved call closes the notice, then escalation, then the waiting
// outcomes, then the bare presence of calls.
func deriveStatus(calls []*model.Call, escalated bool) string {
	for _, call := range calls {
		if call.OutcomeIs(model.OutcomeResolved) {
			return model.StatusClosed
		}
	}

	if escalated {
		return model.StatusEscalated
	}

	for _, call := range calls {
		if call.OutcomeIs(model.OutcomeWaitingOnClient) {
			return model.StatusWaitingOnClient
		}
	}

	for _, call := range calls {
		if call.OutcomeIs(model.OutcomeAwaitingIRS) || call.OutcomeIs(model.OutcomeWaitingOnIRS) {
			return model.StatusAwaitingIRS
		}
	}

	if len(calls) > 0 {
		return model.StatusInProgress
	}

	return model.StatusOpen
}
