package models

import "time"

// Activity types recorded in the audit trail
const (
	ActivityConnectionSent      = "connection_sent"
	ActivityConnectionAccepted  = "connection_accepted"
	ActivityFollowUpSent        = "follow_up_sent"
	ActivityMessageSent         = "message_sent"
	ActivityReplyReceived       = "reply_received"
	ActivityProspectsDiscovered = "prospects_discovered"
	ActivityActionDenied        = "action_denied"
	ActivityCampaignCompleted   = "campaign_completed"
	ActivityAccountLinked       = "account_linked"
	ActivityAccountUnlinked     = "account_unlinked"
)

// ActivityEntry is one append-only audit record of a state transition
type ActivityEntry struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	CampaignID   string    `db:"campaign_id"` // empty when not campaign-scoped
	ProspectID   string    `db:"prospect_id"`
	ActivityType string    `db:"activity_type"`
	Description  string    `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
}
