package models

import "time"

// AccountStatus lifecycle of a linked messaging-platform account
type AccountStatus string

const (
	AccountPending      AccountStatus = "pending"
	AccountActive       AccountStatus = "active"
	AccountDisconnected AccountStatus = "disconnected"
	AccountError        AccountStatus = "error"
)

// LinkedAccount represents a messaging-platform account linked by a user
type LinkedAccount struct {
	ID              string        `db:"id"`
	UserID          string        `db:"user_id"`
	RemoteAccountID string        `db:"remote_account_id"` // account id on the messaging platform
	ProfileID       string        `db:"profile_id"`        // the account holder's own provider id
	ProfileURL      string        `db:"profile_url"`
	DisplayName     string        `db:"display_name"`
	Email           string        `db:"email"`
	Status          AccountStatus `db:"status"`
	CheckpointType  string        `db:"checkpoint_type"` // set when the platform raised a verification challenge
	LastSyncedAt    *time.Time    `db:"last_synced_at"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

// RequiresCheckpoint reports whether the account is blocked on a verification challenge
func (a *LinkedAccount) RequiresCheckpoint() bool {
	return a.CheckpointType != ""
}

// IsActive reports whether the account can be used for sending
func (a *LinkedAccount) IsActive() bool {
	return a.Status == AccountActive
}
