// Package domain holds the api key and usage contracts
package domain

import "time"

// Key is one issued api key record
// MonthlyLimit of -1 means unlimited
type Key struct {
	ID           string     `json:"id"`
	ClientName   string     `json:"client_name"`
	APIKey       string     `json:"api_key"`
	IsActive     bool       `json:"is_active"`
	MonthlyLimit int        `json:"monthly_limit"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
}

// UsageEvent is one append-only usage record
// quota consumption is the count of events in the current calendar month
type UsageEvent struct {
	KeyID       string    `json:"api_key_id"`
	Path        string    `json:"path_invoked"`
	StatusCode  int       `json:"status_code"`
	VideoID     string    `json:"video_id,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// CreateInput is the admin payload for minting a key
type CreateInput struct {
	ClientName   string `json:"client_name" validate:"required,min=1,max=200"`
	MonthlyLimit *int   `json:"monthly_limit,omitempty" validate:"omitempty,min=-1"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateInput is the admin payload for mutating a key
// nil fields are left untouched
type UpdateInput struct {
	ClientName   *string `json:"client_name,omitempty" validate:"omitempty,min=1,max=200"`
	IsActive     *bool   `json:"is_active,omitempty"`
	MonthlyLimit *int    `json:"monthly_limit,omitempty" validate:"omitempty,min=-1"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
