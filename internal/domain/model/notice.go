// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the notice tracker service.
package model

import (
	"time"

	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// Notice represents one IRS correspondence case tracked for a client.
//
// Status, Escalated, DaysRemaining and ResponseDeadline are derived cache
// fields: the derivation engine recomputes them from the call log and the
// reconciler overwrites them whenever they drift. No code path may treat the
// persisted copies as a source of truth.
type Notice struct {
	UID           string     `json:"uid"`
	ClientUID     string     `json:"client_uid"`
	NoticeNumber  string     `json:"notice_number"`
	NoticeIssue   string     `json:"notice_issue,omitempty"`
	FormNumber    string     `json:"form_number,omitempty"`
	TaxPeriod     string     `json:"tax_period,omitempty"`
	DateReceived  *time.Time `json:"date_received,omitempty"`
	DaysToRespond int        `json:"days_to_respond,omitempty"`

	// Derived cache fields, owned by the reconciler.
	Status           string     `json:"status"`
	Escalated        bool       `json:"escalated"`
	DaysRemaining    *int       `json:"days_remaining"`
	ResponseDeadline *time.Time `json:"response_deadline"`
	LastAutoUpdate   *time.Time `json:"last_auto_update,omitempty"`

	// POAOnFile is a cached coverage result, rewritten by the POA service
	// whenever a fresh check disagrees with it.
	POAOnFile bool `json:"poa_on_file"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notice lifecycle statuses
const (
	StatusOpen            = "Open"
	StatusInProgress      = "In Progress"
	StatusWaitingOnClient = "Waiting on Client"
	StatusAwaitingIRS     = "Awaiting IRS Response"
	StatusEscalated       = "Escalated"
	StatusClosed          = "Closed"
	StatusResolved        = "Resolved"
)

// ValidNoticeStatuses returns all valid notice status values.
// StatusResolved is only ever set by a manual edit; the engine derives
// StatusClosed from a resolved call outcome.
func ValidNoticeStatuses() []string {
	return []string{
		StatusOpen,
		StatusInProgress,
		StatusWaitingOnClient,
		StatusAwaitingIRS,
		StatusEscalated,
		StatusClosed,
		StatusResolved,
	}
}

// IsTerminalStatus reports whether a status ends the notice lifecycle.
// Terminal notices are never auto-recomputed and must not be escalated.
func IsTerminalStatus(status string) bool {
	return status == StatusClosed || status == StatusResolved
}

// IsTerminal reports whether the notice's stored status is terminal.
func (n *Notice) IsTerminal() bool {
	return IsTerminalStatus(n.Status)
}

// DerivedFields holds the values the derivation engine computes for a notice.
type DerivedFields struct {
	Status           string     `json:"status"`
	Escalated        bool       `json:"escalated"`
	DaysRemaining    *int       `json:"days_remaining"`
	ResponseDeadline *time.Time `json:"response_deadline"`
}

// Validate checks the fields staff must supply when logging a notice.
func (n *Notice) Validate() error {
	if n.ClientUID == "" {
		return errors.NewValidation("client_uid is required")
	}
	if n.NoticeNumber == "" {
		return errors.NewValidation("notice_number is required")
	}
	if n.DaysToRespond < 0 {
		return errors.NewValidation("days_to_respond cannot be negative")
	}
	if n.Status != "" {
		valid := false
		for _, status := range ValidNoticeStatuses() {
			if n.Status == status {
				valid = true
				break
			}
		}
		if !valid {
			return errors.NewValidation("invalid notice status: " + n.Status)
		}
	}
	return nil
}
