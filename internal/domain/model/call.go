// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package model

import (
	"strings"
	"time"

	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// Call represents one logged contact attempt or research action tied to a
// notice. The call log is append-only per notice; ordering by Date matters
// for the billing minimum-fee tie-break.
type Call struct {
	UID             string     `json:"uid"`
	NoticeUID       string     `json:"notice_uid"`
	ClientUID       string     `json:"client_uid,omitempty"`
	Date            time.Time  `json:"date"`
	ResponseMethod  string     `json:"response_method,omitempty"`
	IRSLine         string     `json:"irs_line,omitempty"`
	AgentID         string     `json:"agent_id,omitempty"`
	Outcome         string     `json:"outcome,omitempty"`
	FollowUpDate    *time.Time `json:"follow_up_date,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	HourlyRate      float64    `json:"hourly_rate,omitempty"`
	Billable        bool       `json:"billable"`
	BillingStatus   string     `json:"billing_status"`

	// BillableAmount is a display cache written after each reprice; read
	// paths recompute it from the full per-notice call set.
	BillableAmount float64 `json:"billable_amount"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Billing statuses for a call
const (
	BillingStatusBilled   = "Billed"
	BillingStatusUnbilled = "Unbilled"
)

// Call outcomes recognized by the derivation engine. Free-text outcomes are
// allowed; these are the values the status rules match on.
const (
	OutcomeResolved        = "Resolved"
	OutcomeWaitingOnClient = "Waiting on Client"
	OutcomeWaitingOnIRS    = "Waiting on IRS"
	OutcomeAwaitingIRS     = "Awaiting IRS Response"
	OutcomeMonitorAccount  = "Monitor Account"
	OutcomeSubmitDocs      = "Submit Documentation"
	OutcomeFollowUpCall    = "Follow-Up Call"
)

// Response methods offered by the response log screens
const (
	ResponseMethodPhoneCall = "Phone Call"
	ResponseMethodFax       = "Fax"
	ResponseMethodMail      = "Mail"
	ResponseMethodEServices = "e-services"
	ResponseMethodResearch  = "Research"
)

// HasOutcome reports whether the call carries a non-empty outcome.
func (c *Call) HasOutcome() bool {
	return strings.TrimSpace(c.Outcome) != ""
}

// OutcomeIs compares the call outcome case-insensitively.
func (c *Call) OutcomeIs(outcome string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Outcome), outcome)
}

// IsResearch reports whether the response method marks this call as research
// work. Empty or unknown methods are non-research.
func (c *Call) IsResearch() bool {
	return strings.Contains(strings.ToLower(c.ResponseMethod), "research")
}

// Validate checks the fields staff must supply when logging a call.
func (c *Call) Validate() error {
	if c.NoticeUID == "" {
		return errors.NewValidation("notice_uid is required")
	}
	if c.Date.IsZero() {
		return errors.NewValidation("date is required")
	}
	if c.BillingStatus != "" && c.BillingStatus != BillingStatusBilled && c.BillingStatus != BillingStatusUnbilled {
		return errors.NewValidation("invalid billing status: " + c.BillingStatus)
	}
	if c.HourlyRate < 0 {
		return errors.NewValidation("hourly_rate cannot be negative")
	}
	return nil
}
