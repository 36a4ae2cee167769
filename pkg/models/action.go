package models

import "time"

// ActionType of a deferred outreach write
type ActionType string

const (
	ActionSendConnection ActionType = "send_connection"
	ActionSendMessage    ActionType = "send_message"
	ActionSendFollowUp   ActionType = "send_follow_up"
)

// ActionStatus lifecycle of a pending action
type ActionStatus string

const (
	ActionPending  ActionStatus = "pending"
	ActionApproved ActionStatus = "approved"
	ActionDenied   ActionStatus = "denied"
	ActionExpired  ActionStatus = "expired"
	ActionExecuted ActionStatus = "executed"
)

// PendingActionTTL is how long an action waits for approval before expiring
const PendingActionTTL = 7 * 24 * time.Hour

// PendingAction is a deferred outreach write awaiting human approval.
// Denied and expired actions are terminal and are never executed.
type PendingAction struct {
	ID             string       `db:"id"`
	UserID         string       `db:"user_id"`
	CampaignID     string       `db:"campaign_id"` // empty when not campaign-scoped
	ProspectID     string       `db:"prospect_id"`
	ActionType     ActionType   `db:"action_type"`
	Status         ActionStatus `db:"status"`
	MessageContent string       `db:"message_content"`
	CampaignName   string       `db:"campaign_name"`
	ProspectName   string       `db:"prospect_name"`
	FollowUpNumber int          `db:"follow_up_number"` // 1-based, follow-up actions only
	ExpiresAt      time.Time    `db:"expires_at"`
	ApprovedAt     *time.Time   `db:"approved_at"`
	ExecutedAt     *time.Time   `db:"executed_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// IsPending reports whether the action still awaits a decision
func (a *PendingAction) IsPending() bool {
	return a.Status == ActionPending
}

// IsExpired reports whether the approval window has passed
func (a *PendingAction) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && a.ExpiresAt.Before(now)
}
