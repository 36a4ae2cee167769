package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// CampaignStatus lifecycle of a campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

// Campaign is a configured outreach effort: targeting criteria, message
// templates and daily caps, plus running counters
type Campaign struct {
	ID     string         `db:"id"`
	UserID string         `db:"user_id"`
	Name   string         `db:"name"`
	Status CampaignStatus `db:"status"`

	// Targeting criteria, stored as JSON arrays
	JobTitles  StringList `db:"job_titles"`
	Locations  StringList `db:"locations"`
	Keywords   StringList `db:"keywords"`
	Industries StringList `db:"industries"`

	ConnectionMessage string `db:"connection_message"`
	FollowUpMessage1  string `db:"follow_up_message_1"`
	FollowUpMessage2  string `db:"follow_up_message_2"`
	FollowUpMessage3  string `db:"follow_up_message_3"`

	FollowUpDelayDays1 int `db:"follow_up_delay_days_1"`
	FollowUpDelayDays2 int `db:"follow_up_delay_days_2"`
	FollowUpDelayDays3 int `db:"follow_up_delay_days_3"`

	DailyConnectionLimit int `db:"daily_connection_limit"`
	DailyMessageLimit    int `db:"daily_message_limit"`

	ConnectionsSent     int `db:"connections_sent"`
	ConnectionsAccepted int `db:"connections_accepted"`
	MessagesSent        int `db:"messages_sent"`
	RepliesReceived     int `db:"replies_received"`
	MeetingsBooked      int `db:"meetings_booked"`

	StartedAt   *time.Time `db:"started_at"`
	PausedAt    *time.Time `db:"paused_at"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// FollowUpMessage returns the template for the next follow-up step, given how
// many follow-ups were already sent. Empty string means templates are exhausted.
func (c *Campaign) FollowUpMessage(followUpCount int) string {
	switch followUpCount {
	case 0:
		return c.FollowUpMessage1
	case 1:
		return c.FollowUpMessage2
	case 2:
		return c.FollowUpMessage3
	default:
		return ""
	}
}

// NextFollowUpDelayDays returns the delay before the follow-up that comes
// after the one currently being sent, or 0 when that was the last step.
func (c *Campaign) NextFollowUpDelayDays(currentCount int) int {
	switch currentCount + 1 {
	case 1:
		return c.FollowUpDelayDays2
	case 2:
		return c.FollowUpDelayDays3
	default:
		return 0
	}
}

// AcceptanceRate percentage of sent connection requests that were accepted
func (c *Campaign) AcceptanceRate() float64 {
	if c.ConnectionsSent == 0 {
		return 0
	}
	return float64(c.ConnectionsAccepted) / float64(c.ConnectionsSent) * 100
}

// ReplyRate percentage of sent messages that got a reply
func (c *Campaign) ReplyRate() float64 {
	if c.MessagesSent == 0 {
		return 0
	}
	return float64(c.RepliesReceived) / float64(c.MessagesSent) * 100
}

// StringList is a JSON-encoded list of strings stored in a TEXT column
type StringList []string

// Scan implements sql.Scanner
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		*l = nil
		return nil
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}
