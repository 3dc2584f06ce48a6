// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// POARecord represents a Power of Attorney / Tax Information Authorization
// covering one form type over a contiguous period range for one client.
// Records are created and edited by staff and read-only to the derivation
// side; coverage is a computed relation, never stored as a foreign key.
type POARecord struct {
	UID            string     `json:"uid"`
	ClientUID      string     `json:"client_uid"`
	Form           string     `json:"form"`
	PeriodStart    string     `json:"period_start"`
	PeriodEnd      string     `json:"period_end"`
	ElectronicCopy bool       `json:"electronic_copy"`
	CAFVerified    bool       `json:"caf_verified"`
	PaperCopy      bool       `json:"paper_copy"`
	DateReceived   *time.Time `json:"date_received,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields staff must supply when filing a POA record.
func (p *POARecord) Validate() error {
	if p.ClientUID == "" {
		return errors.NewValidation("client_uid is required")
	}
	if p.Form == "" {
		return errors.NewValidation("form is required")
	}
	if p.PeriodStart == "" {
		return errors.NewValidation("period_start is required")
	}
	if p.PeriodEnd == "" {
		return errors.NewValidation("period_end is required")
	}
	return nil
}
