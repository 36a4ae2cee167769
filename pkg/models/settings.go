package models

import "time"

// UserSettings holds per-user engine configuration. With autopilot enabled
// outreach writes execute immediately; otherwise they are deferred as
// pending actions awaiting approval.
type UserSettings struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	AutopilotEnabled bool      `db:"autopilot_enabled"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
