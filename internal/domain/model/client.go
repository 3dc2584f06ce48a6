// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/practicedesk/notice-tracker-service/pkg/errors"
)

// Client is the identity record notices, calls and POA records reference by
// UID. Immutable identity; no lifecycle logic attaches to it.
type Client struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Notes   string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields staff must supply when creating a client.
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.NewValidation("name is required")
	}
	return nil
}
